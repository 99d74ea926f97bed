package schema

import (
	"fmt"

	gcerrors "mercator-hq/gcpolicy/pkg/errors"
	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

// Validator runs the semantic checks on a built Document.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate appends semantic errors to errs and replaces doc.Warnings.
func (v *Validator) Validate(doc *Document, errs *gcerrors.ErrorList) {
	seen := make(map[string]Family, len(doc.Families))
	doc.Warnings = nil

	for _, f := range doc.Families {
		if err := family.ValidateID(f.ID); err != nil {
			errs.Merge(err, f.Location)
			continue
		}

		if first, dup := seen[f.ID]; dup {
			errs.AddErrorWithSuggestion(gcerrors.ErrorTypeSemantic,
				fmt.Sprintf("column family %q is declared more than once", f.ID),
				f.Location,
				fmt.Sprintf("First declared at line %d", first.Location.Line))
			continue
		}
		seen[f.ID] = f

		if f.Drop && f.Rule != nil {
			errs.AddErrorWithSuggestion(gcerrors.ErrorTypeSemantic,
				fmt.Sprintf("column family %q is dropped but also has a gc_rule", f.ID),
				f.Location,
				"Remove either 'drop: true' or 'gc_rule'")
			continue
		}

		if !f.Drop && f.Rule == nil {
			doc.Warnings = append(doc.Warnings, &gcerrors.Error{
				Type:       gcerrors.ErrorTypeSemantic,
				Message:    fmt.Sprintf("column family %q has no gc_rule; its GC policy is left unmanaged", f.ID),
				Location:   f.Location,
				Suggestion: gcerrors.SuggestMissingField("gc_rule", "{max_versions: 1}"),
			})
		}

		if f.Rule != nil {
			doc.Warnings = append(doc.Warnings, v.redundantChildren(f)...)
		}
	}
}

// redundantChildren flags composites holding the same child twice. The
// rule is still valid and is sent as written.
func (v *Validator) redundantChildren(f Family) []*gcerrors.Error {
	var warnings []*gcerrors.Error
	gcrule.Walk(f.Rule, func(r gcrule.Rule) bool {
		var children []gcrule.Rule
		switch c := r.(type) {
		case gcrule.IntersectionRule:
			children = c.Rules()
		case gcrule.UnionRule:
			children = c.Rules()
		default:
			return true
		}
		for i := range children {
			for j := i + 1; j < len(children); j++ {
				if gcrule.Equal(children[i], children[j]) {
					warnings = append(warnings, &gcerrors.Error{
						Type:     gcerrors.ErrorTypeSemantic,
						Message:  fmt.Sprintf("column family %q: %s repeats %s", f.ID, r.Kind(), gcrule.String(children[i])),
						Location: f.Location,
					})
					return true
				}
			}
		}
		return true
	})
	return warnings
}
