package gcrule

import (
	"cloud.google.com/go/bigtable/admin/apiv2/adminpb"
	"google.golang.org/protobuf/types/known/durationpb"

	gcerrors "mercator-hq/gcpolicy/pkg/errors"
)

// ToProto converts rule into its admin API representation. Children keep
// their order. A nil rule maps to nil.
func ToProto(rule Rule) *adminpb.GcRule {
	switch r := rule.(type) {
	case MaxAgeRule:
		return &adminpb.GcRule{Rule: &adminpb.GcRule_MaxAge{MaxAge: durationpb.New(r.age)}}
	case MaxVersionsRule:
		return &adminpb.GcRule{Rule: &adminpb.GcRule_MaxNumVersions{MaxNumVersions: int32(r.count)}}
	case IntersectionRule:
		return &adminpb.GcRule{Rule: &adminpb.GcRule_Intersection_{
			Intersection: &adminpb.GcRule_Intersection{Rules: toProtoList(r.rules)},
		}}
	case UnionRule:
		return &adminpb.GcRule{Rule: &adminpb.GcRule_Union_{
			Union: &adminpb.GcRule_Union{Rules: toProtoList(r.rules)},
		}}
	default:
		return nil
	}
}

func toProtoList(rules []Rule) []*adminpb.GcRule {
	out := make([]*adminpb.GcRule, len(rules))
	for i, r := range rules {
		out[i] = ToProto(r)
	}
	return out
}

// FromProto rebuilds a rule from its admin API representation. A nil
// message, or one with no rule set, means the family has no GC policy and
// yields (nil, nil). Malformed leaves and empty combinators are rejected
// with an invalid-argument error.
func FromProto(pb *adminpb.GcRule) (Rule, error) {
	if pb == nil || pb.GetRule() == nil {
		return nil, nil
	}

	switch r := pb.GetRule().(type) {
	case *adminpb.GcRule_MaxAge:
		if r.MaxAge == nil {
			return nil, gcerrors.InvalidArgumentf("max_age rule has no duration")
		}
		if err := r.MaxAge.CheckValid(); err != nil {
			return nil, gcerrors.InvalidArgumentf("invalid max_age: %v", err)
		}
		return MaxAge(r.MaxAge.AsDuration())
	case *adminpb.GcRule_MaxNumVersions:
		return MaxVersions(int(r.MaxNumVersions))
	case *adminpb.GcRule_Intersection_:
		children, err := fromProtoList(KindIntersection, r.Intersection.GetRules())
		if err != nil {
			return nil, err
		}
		return Intersection(children...)
	case *adminpb.GcRule_Union_:
		children, err := fromProtoList(KindUnion, r.Union.GetRules())
		if err != nil {
			return nil, err
		}
		return Union(children...)
	default:
		return nil, gcerrors.InvalidArgumentf("unsupported gc rule %T", r)
	}
}

func fromProtoList(kind Kind, pbs []*adminpb.GcRule) ([]Rule, error) {
	rules := make([]Rule, 0, len(pbs))
	for i, pb := range pbs {
		r, err := FromProto(pb)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, gcerrors.InvalidArgumentf("%s rule %d is empty", kind, i)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
