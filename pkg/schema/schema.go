package schema

import (
	gcerrors "mercator-hq/gcpolicy/pkg/errors"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

// Document is a parsed schema file.
type Document struct {
	// Table is the table id, empty when the document does not name one.
	Table string

	// Families in document order.
	Families []Family

	// Source is the file the document was read from.
	Source string

	// Warnings are problems that do not prevent applying the schema.
	Warnings []*gcerrors.Error
}

// Family is the desired state of one column family.
type Family struct {
	ID string

	// Rule is the GC rule; nil means no garbage collection.
	Rule gcrule.Rule

	// Drop marks a family that must not exist.
	Drop bool

	Location gcerrors.Location
}

// Family looks up a family by id.
func (d *Document) Family(id string) (Family, bool) {
	for _, f := range d.Families {
		if f.ID == id {
			return f, true
		}
	}
	return Family{}, false
}

// Desired returns the GC rule of every family that should exist.
func (d *Document) Desired() map[string]gcrule.Rule {
	desired := make(map[string]gcrule.Rule, len(d.Families))
	for _, f := range d.Families {
		if !f.Drop {
			desired[f.ID] = f.Rule
		}
	}
	return desired
}

// Dropped returns the ids of families marked for removal.
func (d *Document) Dropped() []string {
	var ids []string
	for _, f := range d.Families {
		if f.Drop {
			ids = append(ids, f.ID)
		}
	}
	return ids
}
