package gcrule

// Walk calls fn for rule and then each descendant in depth-first order.
// Returning false from fn skips the node's children.
func Walk(rule Rule, fn func(Rule) bool) {
	if rule == nil || !fn(rule) {
		return
	}
	for _, child := range children(rule) {
		Walk(child, fn)
	}
}

// Depth returns the height of the rule tree. A leaf has depth 1 and a nil
// rule has depth 0.
func Depth(rule Rule) int {
	if rule == nil {
		return 0
	}
	deepest := 0
	for _, child := range children(rule) {
		deepest = max(deepest, Depth(child))
	}
	return deepest + 1
}

// Leaves returns the number of leaf rules.
func Leaves(rule Rule) int {
	n := 0
	Walk(rule, func(r Rule) bool {
		if len(children(r)) == 0 {
			n++
		}
		return true
	})
	return n
}

// Equal reports whether a and b have the same structure, parameters and
// child order.
func Equal(a, b Rule) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case MaxAgeRule:
		y, ok := b.(MaxAgeRule)
		return ok && x.age == y.age
	case MaxVersionsRule:
		y, ok := b.(MaxVersionsRule)
		return ok && x.count == y.count
	case IntersectionRule:
		y, ok := b.(IntersectionRule)
		return ok && equalList(x.rules, y.rules)
	case UnionRule:
		y, ok := b.(UnionRule)
		return ok && equalList(x.rules, y.rules)
	default:
		return false
	}
}

func equalList(a, b []Rule) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func children(rule Rule) []Rule {
	switch r := rule.(type) {
	case IntersectionRule:
		return r.rules
	case UnionRule:
		return r.rules
	default:
		return nil
	}
}
