package schema

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	gcerrors "mercator-hq/gcpolicy/pkg/errors"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

var (
	documentKeys = []string{"table", "families"}
	familyKeys   = []string{"id", "gc_rule", "drop"}
	ruleKeys     = []string{"max_age", "max_versions", "max_num_versions", "intersection", "union", "all", "any"}
)

// builder turns a yaml.Node tree into a Document, recording every
// problem with its source location.
type builder struct {
	sourcePath string
	maxDepth   int
	errors     *gcerrors.ErrorList
}

func newBuilder(sourcePath string, maxDepth int) *builder {
	return &builder{
		sourcePath: sourcePath,
		maxDepth:   maxDepth,
		errors:     gcerrors.NewErrorList(),
	}
}

func (b *builder) loc(n *yaml.Node) gcerrors.Location {
	if n == nil {
		return gcerrors.Location{File: b.sourcePath}
	}
	return gcerrors.Location{File: b.sourcePath, Line: n.Line, Column: n.Column}
}

func (b *builder) structural(n *yaml.Node, format string, args ...any) {
	b.errors.AddError(gcerrors.ErrorTypeStructural, fmt.Sprintf(format, args...), b.loc(n))
}

func (b *builder) unknownKey(key *yaml.Node, where string, valid []string) {
	b.errors.AddErrorWithSuggestion(gcerrors.ErrorTypeStructural,
		fmt.Sprintf("unknown key %q in %s", key.Value, where),
		b.loc(key),
		gcerrors.SuggestKey(key.Value, valid))
}

func (b *builder) buildDocument(root *yaml.Node) *Document {
	doc := &Document{Source: b.sourcePath}

	if root.Kind == 0 || len(root.Content) == 0 {
		b.errors.AddErrorWithSuggestion(gcerrors.ErrorTypeStructural,
			"schema document is empty",
			gcerrors.Location{File: b.sourcePath, Line: 1, Column: 1},
			gcerrors.SuggestMissingField("families", "[...]"))
		return doc
	}

	body := root
	if root.Kind == yaml.DocumentNode {
		body = root.Content[0]
	}
	if body.Kind != yaml.MappingNode {
		b.structural(body, "schema document must be a mapping")
		return doc
	}

	var sawFamilies bool
	for i := 0; i+1 < len(body.Content); i += 2 {
		key, value := body.Content[i], body.Content[i+1]
		switch key.Value {
		case "table":
			if s, ok := b.scalar(value, "table"); ok {
				doc.Table = s
			}
		case "families":
			sawFamilies = true
			doc.Families = b.buildFamilies(value)
		default:
			b.unknownKey(key, "schema", documentKeys)
		}
	}

	if !sawFamilies {
		b.errors.AddErrorWithSuggestion(gcerrors.ErrorTypeStructural,
			"missing required field \"families\"",
			b.loc(body),
			gcerrors.SuggestMissingField("families", "[...]"))
	}

	return doc
}

func (b *builder) buildFamilies(n *yaml.Node) []Family {
	if n.Kind != yaml.SequenceNode {
		b.structural(n, "families must be a list")
		return nil
	}

	families := make([]Family, 0, len(n.Content))
	for _, item := range n.Content {
		if f, ok := b.buildFamily(item); ok {
			families = append(families, f)
		}
	}
	return families
}

func (b *builder) buildFamily(n *yaml.Node) (Family, bool) {
	f := Family{Location: b.loc(n)}
	if n.Kind != yaml.MappingNode {
		b.structural(n, "family must be a mapping with an id")
		return f, false
	}

	ok := true
	var sawID bool
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "id":
			sawID = true
			if s, valid := b.scalar(value, "id"); valid {
				f.ID = s
			} else {
				ok = false
			}
		case "gc_rule":
			if value.Tag == "!!null" {
				continue
			}
			rule := b.buildRule(value, 1)
			if rule == nil {
				ok = false
			}
			f.Rule = rule
		case "drop":
			var drop bool
			if err := value.Decode(&drop); err != nil {
				b.structural(value, "drop must be true or false")
				ok = false
			}
			f.Drop = drop
		default:
			b.unknownKey(key, "family", familyKeys)
			ok = false
		}
	}

	if !sawID {
		b.errors.AddErrorWithSuggestion(gcerrors.ErrorTypeStructural,
			"family is missing required field \"id\"",
			f.Location,
			gcerrors.SuggestMissingField("id", "cf1"))
		return f, false
	}
	return f, ok
}

// buildRule returns nil after recording an error.
func (b *builder) buildRule(n *yaml.Node, depth int) gcrule.Rule {
	if depth > b.maxDepth {
		b.structural(n, "gc_rule nesting exceeds maximum depth %d", b.maxDepth)
		return nil
	}
	if n.Kind != yaml.MappingNode {
		b.errors.AddErrorWithSuggestion(gcerrors.ErrorTypeStructural,
			"gc_rule must be a mapping",
			b.loc(n),
			"Use one of: max_age, max_versions, intersection, union")
		return nil
	}
	if len(n.Content) != 2 {
		b.structural(n, "gc_rule must have exactly one key, found %d", len(n.Content)/2)
		return nil
	}

	key, value := n.Content[0], n.Content[1]
	var (
		rule gcrule.Rule
		err  error
	)
	switch key.Value {
	case "max_age":
		s, ok := b.scalar(value, "max_age")
		if !ok {
			return nil
		}
		age, perr := ParseAge(s)
		if perr != nil {
			b.structural(value, "max_age: %v", perr)
			return nil
		}
		rule, err = gcrule.MaxAge(age)

	case "max_versions", "max_num_versions":
		s, ok := b.scalar(value, key.Value)
		if !ok {
			return nil
		}
		count, perr := strconv.Atoi(s)
		if perr != nil {
			b.structural(value, "%s must be an integer, got %q", key.Value, s)
			return nil
		}
		rule, err = gcrule.MaxVersions(count)

	case "intersection", "union", "all", "any":
		if value.Kind != yaml.SequenceNode {
			b.structural(value, "%s must be a list of gc rules", key.Value)
			return nil
		}
		children := make([]gcrule.Rule, 0, len(value.Content))
		failed := false
		for _, item := range value.Content {
			child := b.buildRule(item, depth+1)
			if child == nil {
				failed = true
				continue
			}
			children = append(children, child)
		}
		if failed {
			return nil
		}
		if key.Value == "intersection" || key.Value == "all" {
			rule, err = gcrule.Intersection(children...)
		} else {
			rule, err = gcrule.Union(children...)
		}

	default:
		b.unknownKey(key, "gc_rule", ruleKeys)
		return nil
	}

	if err != nil {
		b.errors.Merge(err, b.loc(value))
		return nil
	}
	return rule
}

func (b *builder) scalar(n *yaml.Node, field string) (string, bool) {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		b.structural(n, "%s must be a scalar value", field)
		return "", false
	}
	return n.Value, true
}
