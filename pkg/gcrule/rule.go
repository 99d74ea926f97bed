package gcrule

import (
	"math"
	"time"

	gcerrors "mercator-hq/gcpolicy/pkg/errors"
)

// Kind identifies the variant of a rule.
type Kind string

const (
	KindMaxAge       Kind = "max_age"      // Age threshold leaf
	KindMaxVersions  Kind = "max_versions" // Version count leaf
	KindIntersection Kind = "intersection" // AND of children
	KindUnion        Kind = "union"        // OR of children
)

// Rule is a garbage-collection rule. The set of implementations is closed:
// MaxAgeRule, MaxVersionsRule, IntersectionRule and UnionRule.
type Rule interface {
	// Kind returns the variant of the rule.
	Kind() Kind

	// String renders the rule in the Bigtable client's textual form.
	String() string

	isRule()
}

// MaxAgeRule makes a cell eligible once its age exceeds a duration.
type MaxAgeRule struct {
	age time.Duration
}

// MaxVersionsRule makes a cell eligible once more than a given number of
// newer versions exist in the same column.
type MaxVersionsRule struct {
	count int
}

// IntersectionRule makes a cell eligible when all children agree.
type IntersectionRule struct {
	rules []Rule
}

// UnionRule makes a cell eligible when any child agrees.
type UnionRule struct {
	rules []Rule
}

// MaxAge returns a rule that collects cells older than age. A zero age is
// accepted.
func MaxAge(age time.Duration) (Rule, error) {
	if age < 0 {
		return nil, gcerrors.InvalidArgumentf("max age must not be negative, got %s", age)
	}
	return MaxAgeRule{age: age}, nil
}

// MaxVersions returns a rule that keeps at most count versions of a cell.
func MaxVersions(count int) (Rule, error) {
	if count <= 0 {
		return nil, gcerrors.InvalidArgumentf("max versions must be positive, got %d", count)
	}
	if count > math.MaxInt32 {
		return nil, gcerrors.InvalidArgumentf("max versions must not exceed %d, got %d", math.MaxInt32, count)
	}
	return MaxVersionsRule{count: count}, nil
}

// Intersection returns a rule that matches when every child matches.
func Intersection(rules ...Rule) (Rule, error) {
	children, err := compose(KindIntersection, rules)
	if err != nil {
		return nil, err
	}
	return IntersectionRule{rules: children}, nil
}

// Union returns a rule that matches when any child matches.
func Union(rules ...Rule) (Rule, error) {
	children, err := compose(KindUnion, rules)
	if err != nil {
		return nil, err
	}
	return UnionRule{rules: children}, nil
}

// Must panics if err is non-nil. It is intended for rules built from
// constants.
func Must(rule Rule, err error) Rule {
	if err != nil {
		panic(err)
	}
	return rule
}

func compose(kind Kind, rules []Rule) ([]Rule, error) {
	if len(rules) == 0 {
		return nil, gcerrors.InvalidArgumentf("%s requires at least one rule", kind)
	}
	for i, r := range rules {
		if r == nil {
			return nil, gcerrors.InvalidArgumentf("%s rule %d is nil", kind, i)
		}
	}
	children := make([]Rule, len(rules))
	copy(children, rules)
	return children, nil
}

// Age returns the age threshold.
func (r MaxAgeRule) Age() time.Duration { return r.age }

// Count returns the version threshold.
func (r MaxVersionsRule) Count() int { return r.count }

// Rules returns a copy of the child rules.
func (r IntersectionRule) Rules() []Rule { return append([]Rule(nil), r.rules...) }

// Rules returns a copy of the child rules.
func (r UnionRule) Rules() []Rule { return append([]Rule(nil), r.rules...) }

func (MaxAgeRule) Kind() Kind       { return KindMaxAge }
func (MaxVersionsRule) Kind() Kind  { return KindMaxVersions }
func (IntersectionRule) Kind() Kind { return KindIntersection }
func (UnionRule) Kind() Kind        { return KindUnion }

func (MaxAgeRule) isRule()       {}
func (MaxVersionsRule) isRule()  {}
func (IntersectionRule) isRule() {}
func (UnionRule) isRule()        {}

// Validate checks a rule that may not have come from the constructors,
// such as a zero-value struct literal.
func Validate(rule Rule) error {
	switch r := rule.(type) {
	case nil:
		return gcerrors.InvalidArgumentf("rule is nil")
	case MaxAgeRule:
		if r.age < 0 {
			return gcerrors.InvalidArgumentf("max age must not be negative, got %s", r.age)
		}
	case MaxVersionsRule:
		if r.count <= 0 {
			return gcerrors.InvalidArgumentf("max versions must be positive, got %d", r.count)
		}
		if r.count > math.MaxInt32 {
			return gcerrors.InvalidArgumentf("max versions must not exceed %d, got %d", math.MaxInt32, r.count)
		}
	case IntersectionRule:
		return validateChildren(KindIntersection, r.rules)
	case UnionRule:
		return validateChildren(KindUnion, r.rules)
	default:
		return gcerrors.InvalidArgumentf("unsupported rule type %T", rule)
	}
	return nil
}

func validateChildren(kind Kind, rules []Rule) error {
	if len(rules) == 0 {
		return gcerrors.InvalidArgumentf("%s requires at least one rule", kind)
	}
	for _, child := range rules {
		if err := Validate(child); err != nil {
			return err
		}
	}
	return nil
}
