// Package family builds column family modifications for the Bigtable
// table administration API.
package family

import (
	"fmt"
	"regexp"

	"cloud.google.com/go/bigtable/admin/apiv2/adminpb"

	gcerrors "mercator-hq/gcpolicy/pkg/errors"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

// MaxIDLength is the longest column family id the admin API accepts.
const MaxIDLength = 64

var idPattern = regexp.MustCompile(`^[_a-zA-Z0-9][-_.a-zA-Z0-9]*$`)

// Action is what a modification does to its column family.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDrop   Action = "drop"
)

// Modification changes one column family. Exactly one action applies per
// value; Rule is set for create and update and nil for drop.
type Modification struct {
	ID     string
	Action Action
	Rule   gcrule.Rule
}

// ValidateID checks a column family id against the admin API charset.
func ValidateID(id string) error {
	if id == "" {
		return gcerrors.InvalidArgumentf("column family id must not be empty")
	}
	if len(id) > MaxIDLength {
		return gcerrors.InvalidArgumentf("column family id %q exceeds %d characters", id, MaxIDLength)
	}
	if !idPattern.MatchString(id) {
		return gcerrors.InvalidArgumentf("column family id %q must match %s", id, idPattern.String())
	}
	return nil
}

// BuildCreateModification returns a modification creating family id with
// the given GC rule.
func BuildCreateModification(id string, rule gcrule.Rule) (Modification, error) {
	return build(id, ActionCreate, rule)
}

// BuildUpdateModification returns a modification replacing the GC rule of
// an existing family.
func BuildUpdateModification(id string, rule gcrule.Rule) (Modification, error) {
	return build(id, ActionUpdate, rule)
}

// BuildDropModification returns a modification deleting family id and all
// of its data.
func BuildDropModification(id string) (Modification, error) {
	if err := ValidateID(id); err != nil {
		return Modification{}, err
	}
	return Modification{ID: id, Action: ActionDrop}, nil
}

func build(id string, action Action, rule gcrule.Rule) (Modification, error) {
	if err := ValidateID(id); err != nil {
		return Modification{}, err
	}
	if rule == nil {
		return Modification{}, gcerrors.InvalidArgumentf("%s of column family %q requires a gc rule", action, id)
	}
	if err := gcrule.Validate(rule); err != nil {
		return Modification{}, fmt.Errorf("column family %q: %w", id, err)
	}
	return Modification{ID: id, Action: action, Rule: rule}, nil
}

// Validate checks a modification that may have been assembled by hand.
func (m Modification) Validate() error {
	switch m.Action {
	case ActionCreate, ActionUpdate:
		_, err := build(m.ID, m.Action, m.Rule)
		return err
	case ActionDrop:
		if m.Rule != nil {
			return gcerrors.InvalidArgumentf("drop of column family %q must not carry a gc rule", m.ID)
		}
		return ValidateID(m.ID)
	default:
		return gcerrors.InvalidArgumentf("column family %q has unknown action %q", m.ID, m.Action)
	}
}

// String describes the modification, e.g. "update cf1 versions() > 3".
func (m Modification) String() string {
	if m.Action == ActionDrop {
		return fmt.Sprintf("%s %s", m.Action, m.ID)
	}
	return fmt.Sprintf("%s %s %s", m.Action, m.ID, gcrule.String(m.Rule))
}

// ToProto converts the modification into its admin API representation.
func (m Modification) ToProto() *adminpb.ModifyColumnFamiliesRequest_Modification {
	pb := &adminpb.ModifyColumnFamiliesRequest_Modification{Id: m.ID}
	switch m.Action {
	case ActionCreate:
		pb.Mod = &adminpb.ModifyColumnFamiliesRequest_Modification_Create{
			Create: &adminpb.ColumnFamily{GcRule: gcrule.ToProto(m.Rule)},
		}
	case ActionUpdate:
		pb.Mod = &adminpb.ModifyColumnFamiliesRequest_Modification_Update{
			Update: &adminpb.ColumnFamily{GcRule: gcrule.ToProto(m.Rule)},
		}
	case ActionDrop:
		pb.Mod = &adminpb.ModifyColumnFamiliesRequest_Modification_Drop{Drop: true}
	}
	return pb
}

// ToProtoList converts mods in order.
func ToProtoList(mods []Modification) []*adminpb.ModifyColumnFamiliesRequest_Modification {
	out := make([]*adminpb.ModifyColumnFamiliesRequest_Modification, len(mods))
	for i, m := range mods {
		out[i] = m.ToProto()
	}
	return out
}
