// Package policy implements the data-driven cleanup policy for the janitor.
//
// # Policy as Data
//
// Cleanup behavior is declared as a table of rules rather than conditional
// branches: each rule maps an entity category to an age threshold, an
// optional grace period and required status, and the action to take. Adding
// a cleanup policy means adding a rule; executor logic never changes.
//
// Rules are loaded from a YAML file and validated once at startup:
//
//	rules:
//	  - id: expired-sessions
//	    category: session
//	    max_age: 720h          # 30 days
//	    action: delete
//	    reason: expired
//	  - id: stale-enrollments
//	    category: enrollment
//	    max_age: 2160h         # 90 days
//	    grace_period: 168h     # 7 days
//	    required_status: completed
//	    action: archive
//	    reason: stale
//
// # Matching
//
// When multiple rules could apply to one entity, the most specific category
// match wins: an exact category rule always beats a "*" wildcard rule. Ties
// within the same specificity are broken by declaration order - first match
// wins.
//
// # Evaluation
//
// Evaluate is a pure function of entity state and the supplied time. An
// entity is eligible when now is past its creation time plus the rule's
// max_age and grace_period, and its status matches the rule's
// required_status (empty matches anything).
//
// Entities may also carry an explicit expiry annotation set by the portal.
// A past expiry yields a delete decision regardless of rules; a future
// expiry suppresses any decision; an unparseable value is reported as a
// policy violation and the entity is skipped.
//
// # Hot Reload
//
// When watching is enabled, a fsnotify-based Watcher reloads the rule file
// on change, debouncing editor write bursts. A file that fails to load keeps
// the previous table in effect.
package policy
