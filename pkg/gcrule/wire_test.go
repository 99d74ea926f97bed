package gcrule

import (
	"testing"
	"time"

	"cloud.google.com/go/bigtable/admin/apiv2/adminpb"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"

	gcerrors "mercator-hq/gcpolicy/pkg/errors"
)

func TestToProto_NestedScenario(t *testing.T) {
	got := ToProto(nestedRule(t))

	want := &adminpb.GcRule{Rule: &adminpb.GcRule_Union_{Union: &adminpb.GcRule_Union{Rules: []*adminpb.GcRule{
		{Rule: &adminpb.GcRule_MaxNumVersions{MaxNumVersions: 10}},
		{Rule: &adminpb.GcRule_Intersection_{Intersection: &adminpb.GcRule_Intersection{Rules: []*adminpb.GcRule{
			{Rule: &adminpb.GcRule_MaxAge{MaxAge: &durationpb.Duration{Seconds: 2592000}}},
			{Rule: &adminpb.GcRule_MaxNumVersions{MaxNumVersions: 2}},
		}}}},
	}}}}

	if !proto.Equal(got, want) {
		t.Errorf("ToProto() = %v, want %v", got, want)
	}

	fromJSON := &adminpb.GcRule{}
	doc := `{"union":{"rules":[{"maxNumVersions":10},{"intersection":{"rules":[{"maxAge":"2592000s"},{"maxNumVersions":2}]}}]}}`
	if err := protojson.Unmarshal([]byte(doc), fromJSON); err != nil {
		t.Fatalf("protojson.Unmarshal() error = %v", err)
	}
	if !proto.Equal(got, fromJSON) {
		t.Errorf("ToProto() does not match wire JSON %s", doc)
	}
}

func TestToProto_Deterministic(t *testing.T) {
	rule := nestedRule(t)
	a, err := proto.MarshalOptions{Deterministic: true}.Marshal(ToProto(rule))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(ToProto(rule))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(a) != string(b) {
		t.Error("serializing the same rule twice produced different bytes")
	}

	if ToProto(nil) != nil {
		t.Error("ToProto(nil) should be nil")
	}
}

func TestRoundTrip(t *testing.T) {
	rules := []Rule{
		Must(MaxAge(0)),
		Must(MaxAge(1500 * time.Millisecond)),
		Must(MaxVersions(1)),
		Must(Intersection(Must(MaxVersions(3)), Must(MaxVersions(3)))),
		nestedRule(t),
		Must(Union(Must(Intersection(Must(Union(Must(MaxAge(time.Hour)))))))),
	}
	cells := []Cell{
		{},
		{Age: 2 * time.Second},
		{Age: 2 * time.Hour, NewerVersions: 2},
		{Age: 40 * 24 * time.Hour, NewerVersions: 1},
		{Age: 40 * 24 * time.Hour, NewerVersions: 4},
		{NewerVersions: 11},
	}

	for _, rule := range rules {
		t.Run(rule.String(), func(t *testing.T) {
			back, err := FromProto(ToProto(rule))
			if err != nil {
				t.Fatalf("FromProto() error = %v", err)
			}
			if !Equal(rule, back) {
				t.Errorf("round trip = %v, want %v", back, rule)
			}
			for _, c := range cells {
				if Evaluate(rule, c) != Evaluate(back, c) {
					t.Errorf("evaluation differs after round trip for %+v", c)
				}
			}
		})
	}
}

func TestFromProto(t *testing.T) {
	t.Run("no policy", func(t *testing.T) {
		for _, pb := range []*adminpb.GcRule{nil, {}} {
			rule, err := FromProto(pb)
			if err != nil || rule != nil {
				t.Errorf("FromProto(%v) = (%v, %v), want (nil, nil)", pb, rule, err)
			}
		}
	})

	invalid := []struct {
		name string
		pb   *adminpb.GcRule
	}{
		{"zero versions", &adminpb.GcRule{Rule: &adminpb.GcRule_MaxNumVersions{MaxNumVersions: 0}}},
		{"negative age", &adminpb.GcRule{Rule: &adminpb.GcRule_MaxAge{MaxAge: &durationpb.Duration{Seconds: -5}}}},
		{"missing age", &adminpb.GcRule{Rule: &adminpb.GcRule_MaxAge{}}},
		{"empty union", &adminpb.GcRule{Rule: &adminpb.GcRule_Union_{Union: &adminpb.GcRule_Union{}}}},
		{"empty intersection", &adminpb.GcRule{Rule: &adminpb.GcRule_Intersection_{}}},
		{"empty child", &adminpb.GcRule{Rule: &adminpb.GcRule_Union_{Union: &adminpb.GcRule_Union{
			Rules: []*adminpb.GcRule{{}},
		}}}},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromProto(tt.pb); !gcerrors.IsInvalidArgument(err) {
				t.Errorf("FromProto() error = %v, want invalid argument", err)
			}
		})
	}
}
