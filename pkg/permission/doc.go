// Package permission evaluates dot-namespaced permission strings such as
// "tasks.edit", "org.*" and "*".
//
// A granted set is satisfied for a required permission when it contains the
// global wildcard "*", the exact permission, or the namespace wildcard
// "<ns>.*" for the required permission's namespace (the segment before the
// first dot). Nothing else grants access: an empty or nil set denies every
// check.
//
// # Usage
//
//	import "github.com/KeeganArn/TaskFlask-sub000/pkg/permission"
//
//	granted := []string{"tasks.edit", "org.*"}
//
//	permission.Has(granted, "org.delete")                   // true
//	permission.HasAll(granted, "tasks.edit", "tasks.view")  // false
//	permission.HasAny(granted, "tasks.view", "org.billing") // true
//	permission.IsAdmin(granted)                             // true
//
// Hot paths should parse the set once and reuse it:
//
//	set := permission.NewSet(granted...)
//	set.Has("tasks.edit")
//
// # Validation
//
// Evaluation never consults the namespace catalog. Grants written by
// organization admins (custom roles) are checked with Validate, which only
// accepts "*", "<known ns>.*" and "<known ns>.<action>".
package permission
