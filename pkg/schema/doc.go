// Package schema reads YAML documents describing the column families a
// table should have and the GC rule of each.
//
// # Document Format
//
//	table: events            # optional, defaults to bigtable.table
//	families:
//	  - id: cf5
//	    gc_rule:
//	      union:
//	        - max_versions: 10
//	        - intersection:
//	            - max_age: 30d
//	            - max_versions: 2
//	  - id: raw              # no gc_rule: GC policy left as is
//	  - id: legacy
//	    drop: true           # removed from the table
//
// A gc_rule node holds exactly one of max_age, max_versions (alias
// max_num_versions), intersection (alias all) or union (alias any). Ages accept Go duration syntax
// plus a "d" day unit ("30d", "36h", "1d12h") or a bare number of seconds.
//
// # Errors
//
// Parse reports every problem in one *errors.ErrorList, each entry carrying
// the file, line and column, surrounding source lines and, for unknown
// keys, a suggestion:
//
//	[structural] unknown key "max_verions" in gc_rule
//	  --> families.yaml:6:11
//	  = suggestion: Did you mean 'max_versions'?
package schema
