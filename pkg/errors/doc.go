// Package errors provides the error types shared by the GC rule model, the
// schema parser and the administration helpers.
//
// # Error Types
//
// ErrorTypeInvalidArgument: malformed input to a constructor or builder
// (negative max age, non-positive version count, empty composite, empty or
// malformed identifiers). Always fixable by the caller; never retried.
//
// ErrorTypeSyntax: YAML syntax errors in a schema document
//
// ErrorTypeStructural: schema violations (unknown keys, wrong node kinds)
//
// ErrorTypeSemantic: duplicate families, conflicting actions
//
// ErrorTypeIO: file access errors
//
// Errors returned by the remote administration service are not wrapped in
// any of these types. They reach the caller unchanged.
//
// # Basic Usage
//
// Check for an invalid argument:
//
//	rule, err := gcrule.MaxVersions(0)
//	if errors.Is(err, gcerrors.ErrInvalidArgument) {
//	    // fix the input
//	}
//
// Accumulate located errors while parsing:
//
//	errList := gcerrors.NewErrorList()
//	errList.AddError(gcerrors.ErrorTypeStructural, "unknown key 'max_verions'", loc)
//	return errList.ToError()
//
// # Error Format
//
//	[structural] unknown key 'max_verions'
//	  --> schema.yaml:7:11
//	  |
//	->  7 |         - max_verions: 10
//	  |
//	  = suggestion: Did you mean 'max_versions'?
package errors
