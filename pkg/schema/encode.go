package schema

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"mercator-hq/gcpolicy/pkg/gcrule"
)

// FromFamilies builds a Document from live column families, sorted by id.
func FromFamilies(table string, families map[string]gcrule.Rule) *Document {
	ids := make([]string, 0, len(families))
	for id := range families {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	doc := &Document{Table: table, Families: make([]Family, 0, len(ids))}
	for _, id := range ids {
		doc.Families = append(doc.Families, Family{ID: id, Rule: families[id]})
	}
	return doc
}

// Encode renders doc in the format Parse reads.
func Encode(doc *Document) ([]byte, error) {
	root := mapping()
	if doc.Table != "" {
		addPair(root, "table", scalar(doc.Table))
	}

	list := &yaml.Node{Kind: yaml.SequenceNode}
	for _, f := range doc.Families {
		item := mapping()
		addPair(item, "id", scalar(f.ID))
		switch {
		case f.Drop:
			addPair(item, "drop", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
		case f.Rule != nil:
			addPair(item, "gc_rule", ruleNode(f.Rule))
		}
		list.Content = append(list.Content, item)
	}
	addPair(root, "families", list)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return buf.Bytes(), nil
}

func ruleNode(rule gcrule.Rule) *yaml.Node {
	n := mapping()
	switch r := rule.(type) {
	case gcrule.MaxAgeRule:
		addPair(n, "max_age", scalar(FormatAge(r.Age())))
	case gcrule.MaxVersionsRule:
		addPair(n, "max_versions", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(r.Count())})
	case gcrule.IntersectionRule:
		addPair(n, "intersection", ruleList(r.Rules()))
	case gcrule.UnionRule:
		addPair(n, "union", ruleList(r.Rules()))
	}
	return n
}

func ruleList(rules []gcrule.Rule) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range rules {
		seq.Content = append(seq.Content, ruleNode(r))
	}
	return seq
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func addPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalar(key), value)
}
