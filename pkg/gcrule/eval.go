package gcrule

import "time"

// Cell describes one version of a cell as seen by the garbage collector.
type Cell struct {
	Age           time.Duration // Time since the version was written
	NewerVersions int           // Versions of the same column newer than this one
}

// Evaluate reports whether cell is eligible for garbage collection under
// rule. A nil rule collects nothing.
func Evaluate(rule Rule, cell Cell) bool {
	switch r := rule.(type) {
	case MaxAgeRule:
		return cell.Age > r.age
	case MaxVersionsRule:
		return cell.NewerVersions > r.count
	case IntersectionRule:
		for _, child := range r.rules {
			if !Evaluate(child, cell) {
				return false
			}
		}
		return len(r.rules) > 0
	case UnionRule:
		for _, child := range r.rules {
			if Evaluate(child, cell) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Verdict is the evaluation result of one node of a rule tree.
type Verdict struct {
	Rule     Rule       `json:"-"`
	Expr     string     `json:"expr"`
	Eligible bool       `json:"eligible"`
	Children []*Verdict `json:"children,omitempty"`
}

// Explain evaluates rule against cell and records the verdict of every
// node. Unlike Evaluate it does not short-circuit.
func Explain(rule Rule, cell Cell) *Verdict {
	if rule == nil {
		return &Verdict{Expr: "<none>"}
	}

	v := &Verdict{Rule: rule, Expr: rule.String()}
	switch r := rule.(type) {
	case IntersectionRule:
		v.Eligible = len(r.rules) > 0
		for _, child := range r.rules {
			cv := Explain(child, cell)
			v.Children = append(v.Children, cv)
			v.Eligible = v.Eligible && cv.Eligible
		}
	case UnionRule:
		for _, child := range r.rules {
			cv := Explain(child, cell)
			v.Children = append(v.Children, cv)
			v.Eligible = v.Eligible || cv.Eligible
		}
	default:
		v.Eligible = Evaluate(rule, cell)
	}
	return v
}
