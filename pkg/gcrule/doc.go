// Package gcrule models Cloud Bigtable garbage-collection rules as an
// immutable expression tree.
//
// A rule decides when a cell version becomes eligible for garbage
// collection. There are two leaf kinds and two combinators:
//
//   - MaxAge: eligible once the cell is older than a duration
//   - MaxVersions: eligible once more than N newer versions exist
//   - Intersection: eligible when every child rule says so
//   - Union: eligible when any child rule says so
//
// # Construction
//
// Rules are built with smart constructors that reject malformed input with
// an invalid-argument error from pkg/errors:
//
//	rule, err := gcrule.Union(
//	    gcrule.Must(gcrule.MaxVersions(10)),
//	    gcrule.Must(gcrule.Intersection(
//	        gcrule.Must(gcrule.MaxAge(30*24*time.Hour)),
//	        gcrule.Must(gcrule.MaxVersions(2)),
//	    )),
//	)
//
// Composite rules copy their children, so a rule never changes after it is
// built and can be shared freely between goroutines.
//
// # Evaluation
//
// Evaluate answers whether a cell is eligible under a rule. Both leaves use
// a strict greater-than comparison:
//
//	gcrule.Evaluate(rule, gcrule.Cell{Age: 40 * 24 * time.Hour, NewerVersions: 1}) // false
//	gcrule.Evaluate(rule, gcrule.Cell{NewerVersions: 11})                          // true
//
// Explain returns the same answer together with the verdict of every node.
//
// # Wire Form
//
// ToProto converts a rule into the admin API message (adminpb.GcRule) and
// FromProto converts it back. String renders the textual form used by the
// Bigtable client, for example:
//
//	(versions() > 10 || (age() > 30d && versions() > 2))
package gcrule
