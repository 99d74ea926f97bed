package gcrule

import (
	"fmt"
	"strings"
	"time"
)

func (r MaxAgeRule) String() string {
	return fmt.Sprintf("age() > %s", durationString(r.age))
}

func (r MaxVersionsRule) String() string {
	return fmt.Sprintf("versions() > %d", r.count)
}

func (r IntersectionRule) String() string {
	return join(r.rules, " && ")
}

func (r UnionRule) String() string {
	return join(r.rules, " || ")
}

// String renders rule, or "<none>" for a nil rule.
func String(rule Rule) string {
	if rule == nil {
		return "<none>"
	}
	return rule.String()
}

func join(rules []Rule, sep string) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = String(r)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// durationString uses the largest unit the duration is a whole multiple of.
func durationString(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	var unit time.Duration
	var suffix string
	switch {
	case d%(24*time.Hour) == 0:
		unit, suffix = 24*time.Hour, "d"
	case d%time.Hour == 0:
		unit, suffix = time.Hour, "h"
	case d%time.Minute == 0:
		unit, suffix = time.Minute, "m"
	case d%time.Second == 0:
		unit, suffix = time.Second, "s"
	case d%time.Millisecond == 0:
		unit, suffix = time.Millisecond, "ms"
	case d%time.Microsecond == 0:
		unit, suffix = time.Microsecond, "us"
	default:
		unit, suffix = time.Nanosecond, "ns"
	}
	return fmt.Sprintf("%d%s", d/unit, suffix)
}
