package schema

import (
	"strings"
	"testing"
	"time"

	"mercator-hq/gcpolicy/pkg/gcrule"
)

func TestEncode_RoundTrip(t *testing.T) {
	doc, err := parseString(t, nestedSchema)
	if err != nil {
		t.Fatal(err)
	}

	out, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(string(out), "max_age: 30d") {
		t.Errorf("encoded schema:\n%s", out)
	}

	again, err := parseString(t, string(out))
	if err != nil {
		t.Fatalf("re-parse failed: %v\n%s", err, out)
	}
	if again.Table != doc.Table || len(again.Families) != len(doc.Families) {
		t.Fatalf("round trip changed the document:\n%s", out)
	}
	for i, f := range doc.Families {
		g := again.Families[i]
		if g.ID != f.ID || g.Drop != f.Drop || !gcrule.Equal(g.Rule, f.Rule) {
			t.Errorf("family %d: got %+v, want %+v", i, g, f)
		}
	}
}

func TestFromFamilies(t *testing.T) {
	doc := FromFamilies("events", map[string]gcrule.Rule{
		"b":   gcrule.Must(gcrule.MaxAge(time.Hour)),
		"a":   gcrule.Must(gcrule.MaxVersions(1)),
		"raw": nil,
	})

	var ids []string
	for _, f := range doc.Families {
		ids = append(ids, f.ID)
	}
	if strings.Join(ids, ",") != "a,b,raw" {
		t.Errorf("ids = %v, want sorted", ids)
	}

	out, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "- id: raw\n") {
		t.Errorf("family without a rule should encode without gc_rule:\n%s", out)
	}
}
