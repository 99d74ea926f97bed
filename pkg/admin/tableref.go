package admin

import (
	"fmt"
	"regexp"
	"strings"

	gcerrors "mercator-hq/gcpolicy/pkg/errors"
)

var (
	projectPattern  = regexp.MustCompile(`^[a-z0-9][-a-z0-9.:]*$`)
	instancePattern = regexp.MustCompile(`^[a-z][-a-z0-9]*$`)
	tablePattern    = regexp.MustCompile(`^[_a-zA-Z0-9][-_.a-zA-Z0-9]*$`)
)

// MaxTableIDLength is the longest table id the admin API accepts.
const MaxTableIDLength = 50

// TableRef identifies a table by project, instance and table id.
type TableRef struct {
	Project  string
	Instance string
	Table    string
}

// NewTableRef validates the ids and returns a TableRef.
func NewTableRef(project, instance, table string) (TableRef, error) {
	ref := TableRef{Project: project, Instance: instance, Table: table}
	if err := ref.Validate(); err != nil {
		return TableRef{}, err
	}
	return ref, nil
}

// ParseTableRef parses "projects/{p}/instances/{i}/tables/{t}".
func ParseTableRef(name string) (TableRef, error) {
	parts := strings.Split(name, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "tables" {
		return TableRef{}, gcerrors.InvalidArgumentf(
			"table name %q must have the form projects/{project}/instances/{instance}/tables/{table}", name)
	}
	return NewTableRef(parts[1], parts[3], parts[5])
}

// Validate reports whether every id is well-formed.
func (r TableRef) Validate() error {
	switch {
	case !projectPattern.MatchString(r.Project):
		return gcerrors.InvalidArgumentf("project id %q is malformed", r.Project)
	case !instancePattern.MatchString(r.Instance):
		return gcerrors.InvalidArgumentf("instance id %q is malformed", r.Instance)
	case r.Table == "":
		return gcerrors.InvalidArgumentf("table id must not be empty")
	case len(r.Table) > MaxTableIDLength:
		return gcerrors.InvalidArgumentf("table id %q exceeds %d characters", r.Table, MaxTableIDLength)
	case !tablePattern.MatchString(r.Table):
		return gcerrors.InvalidArgumentf("table id %q is malformed", r.Table)
	}
	return nil
}

// InstanceName returns "projects/{p}/instances/{i}".
func (r TableRef) InstanceName() string {
	return fmt.Sprintf("projects/%s/instances/%s", r.Project, r.Instance)
}

// Name returns the fully qualified table name.
func (r TableRef) Name() string {
	return fmt.Sprintf("%s/tables/%s", r.InstanceName(), r.Table)
}

func (r TableRef) String() string {
	return r.Name()
}
