package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/gcpolicy/pkg/cli"
	"mercator-hq/gcpolicy/pkg/gcrule"
	"mercator-hq/gcpolicy/pkg/reconcile"
)

// writeOutput renders v in the --output format.
func writeOutput(cmd *cobra.Command, v any) error {
	return cli.NewFormatter(app.format).FormatTo(cmd.OutOrStdout(), v)
}

type modificationView struct {
	Family string `json:"family" yaml:"family"`
	Action string `json:"action" yaml:"action"`
	Rule   string `json:"rule,omitempty" yaml:"rule,omitempty"`
}

type planView struct {
	Table         string             `json:"table" yaml:"table"`
	OperationID   string             `json:"operation_id" yaml:"operation_id"`
	Applied       bool               `json:"applied" yaml:"applied"`
	Summary       string             `json:"summary" yaml:"summary"`
	Modifications []modificationView `json:"modifications" yaml:"modifications"`
	InSync        []string           `json:"in_sync,omitempty" yaml:"in_sync,omitempty"`
	Unmanaged     []string           `json:"unmanaged,omitempty" yaml:"unmanaged,omitempty"`
	Kept          []string           `json:"kept,omitempty" yaml:"kept,omitempty"`
}

func newPlanView(res *reconcile.Result) *planView {
	p := res.Plan
	v := &planView{
		Table:         p.Table.Name(),
		OperationID:   res.OperationID,
		Applied:       res.Applied,
		Summary:       p.Summary(),
		Modifications: []modificationView{},
		InSync:        p.InSync,
		Unmanaged:     p.Unmanaged,
		Kept:          p.Kept,
	}
	for _, m := range p.Modifications {
		mv := modificationView{Family: m.ID, Action: string(m.Action)}
		if m.Rule != nil {
			mv.Rule = gcrule.String(m.Rule)
		}
		v.Modifications = append(v.Modifications, mv)
	}
	return v
}

// String is the text rendering.
func (v *planView) String() string {
	var b strings.Builder
	switch {
	case len(v.Modifications) == 0:
		fmt.Fprintf(&b, "%s is in sync.", v.Table)
	case v.Applied:
		fmt.Fprintf(&b, "Applied to %s: %s.", v.Table, v.Summary)
	default:
		fmt.Fprintf(&b, "Plan for %s: %s.", v.Table, v.Summary)
	}
	for _, m := range v.Modifications {
		symbol := map[string]string{"create": "+", "update": "~", "drop": "-"}[m.Action]
		fmt.Fprintf(&b, "\n  %s %s", symbol, m.Family)
		if m.Rule != "" {
			fmt.Fprintf(&b, "  %s", m.Rule)
		}
	}
	if len(v.Unmanaged) > 0 {
		fmt.Fprintf(&b, "\nNo gc_rule (left as is): %s", strings.Join(v.Unmanaged, ", "))
	}
	if len(v.Kept) > 0 {
		fmt.Fprintf(&b, "\nNot in schema (use --prune to drop): %s", strings.Join(v.Kept, ", "))
	}
	return b.String()
}
