package reconcile

import (
	"fmt"
	"slices"
	"strings"

	"mercator-hq/gcpolicy/pkg/admin"
	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
	"mercator-hq/gcpolicy/pkg/schema"
)

// Plan is the set of modifications that brings a table in line with a
// schema.
type Plan struct {
	Table         admin.TableRef
	Modifications []family.Modification

	// InSync lists families whose GC rule already matches.
	InSync []string

	// Unmanaged lists schema families without a gc_rule.
	Unmanaged []string

	// Kept lists table families absent from the schema that were not
	// dropped because pruning is off.
	Kept []string
}

// Empty reports whether the table already matches.
func (p *Plan) Empty() bool {
	return len(p.Modifications) == 0
}

// Counts returns the number of modifications per action.
func (p *Plan) Counts() map[family.Action]int {
	counts := make(map[family.Action]int)
	for _, m := range p.Modifications {
		counts[m.Action]++
	}
	return counts
}

// Summary renders e.g. "2 to create, 1 to update, 0 to drop".
func (p *Plan) Summary() string {
	c := p.Counts()
	return fmt.Sprintf("%d to create, %d to update, %d to drop",
		c[family.ActionCreate], c[family.ActionUpdate], c[family.ActionDrop])
}

func (p *Plan) String() string {
	if p.Empty() {
		return fmt.Sprintf("%s: in sync", p.Table.Name())
	}
	lines := make([]string, 0, len(p.Modifications)+1)
	lines = append(lines, fmt.Sprintf("%s: %s", p.Table.Name(), p.Summary()))
	for _, m := range p.Modifications {
		lines = append(lines, "  "+m.String())
	}
	return strings.Join(lines, "\n")
}

// BuildPlan diffs doc against the actual families of table. Creates and
// updates follow schema order; drops come last, sorted by id.
func BuildPlan(table admin.TableRef, doc *schema.Document, actual map[string]gcrule.Rule, prune bool) (*Plan, error) {
	plan := &Plan{Table: table}
	declared := make(map[string]bool, len(doc.Families))

	for _, f := range doc.Families {
		declared[f.ID] = true
		if f.Drop {
			continue
		}
		if f.Rule == nil {
			plan.Unmanaged = append(plan.Unmanaged, f.ID)
			continue
		}

		current, exists := actual[f.ID]
		var (
			mod family.Modification
			err error
		)
		switch {
		case !exists:
			mod, err = family.BuildCreateModification(f.ID, f.Rule)
		case !gcrule.Equal(current, f.Rule):
			mod, err = family.BuildUpdateModification(f.ID, f.Rule)
		default:
			plan.InSync = append(plan.InSync, f.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		plan.Modifications = append(plan.Modifications, mod)
	}

	var drops []string
	for _, id := range doc.Dropped() {
		if _, exists := actual[id]; exists {
			drops = append(drops, id)
		}
	}
	for id := range actual {
		if declared[id] {
			continue
		}
		if prune {
			drops = append(drops, id)
		} else {
			plan.Kept = append(plan.Kept, id)
		}
	}
	slices.Sort(drops)
	slices.Sort(plan.Kept)

	for _, id := range drops {
		mod, err := family.BuildDropModification(id)
		if err != nil {
			return nil, err
		}
		plan.Modifications = append(plan.Modifications, mod)
	}

	return plan, nil
}
