package policy

import (
	"fmt"
	"time"

	"trainingportal-hq/janitor/pkg/janitor"
)

// Wildcard is the rule category that matches any entity category.
const Wildcard = "*"

// Rule is one data-driven cleanup policy: a mapping from an entity category
// to an age threshold and the action to take. New cleanup policies are added
// by declaring rules, not by touching executor logic.
type Rule struct {
	// ID identifies the rule in reports, logs, and metrics.
	ID string `yaml:"id"`

	// Category is the entity category this rule applies to.
	// "*" matches any category; exact matches always win over the wildcard.
	Category string `yaml:"category"`

	// MaxAge is the maximum entity age, measured from creation time.
	MaxAge time.Duration `yaml:"max_age"`

	// GracePeriod extends MaxAge before the entity becomes eligible.
	// Zero means no grace period.
	GracePeriod time.Duration `yaml:"grace_period"`

	// RequiredStatus restricts the rule to entities with this status.
	// Empty matches any status.
	RequiredStatus string `yaml:"required_status"`

	// Action is the cleanup action to take: delete, archive, or anonymize.
	Action janitor.Action `yaml:"action"`

	// Reason is the reason code recorded on decisions ("expired", "stale",
	// "orphaned", ...).
	Reason string `yaml:"reason"`
}

// Table is a validated, ordered set of cleanup rules.
// Matching is most-specific-category-first: exact category rules beat the
// wildcard; within the same specificity the first declared match wins.
type Table struct {
	rules []Rule
}

// NewTable validates the rules and returns a Table. Validation happens once
// at startup so evaluation never sees a malformed rule.
func NewTable(rules []Rule) (*Table, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("policy table is empty: at least one rule is required")
	}

	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		if rule.ID == "" {
			return nil, fmt.Errorf("rule %d: id is required", i)
		}
		if _, dup := seen[rule.ID]; dup {
			return nil, fmt.Errorf("rule %q: duplicate rule id", rule.ID)
		}
		seen[rule.ID] = struct{}{}

		if rule.Category == "" {
			return nil, fmt.Errorf("rule %q: category is required", rule.ID)
		}
		if rule.MaxAge <= 0 {
			return nil, fmt.Errorf("rule %q: max_age must be positive, got %s", rule.ID, rule.MaxAge)
		}
		if rule.GracePeriod < 0 {
			return nil, fmt.Errorf("rule %q: grace_period must not be negative, got %s", rule.ID, rule.GracePeriod)
		}
		if !janitor.ValidAction(rule.Action) {
			return nil, fmt.Errorf("rule %q: unrecognized action %q (must be delete, archive, or anonymize)", rule.ID, rule.Action)
		}
		if rule.Reason == "" {
			return nil, fmt.Errorf("rule %q: reason is required", rule.ID)
		}
	}

	table := &Table{rules: make([]Rule, len(rules))}
	copy(table.rules, rules)
	return table, nil
}

// Match returns the rule that applies to the entity, or nil when no rule
// matches. Exact category rules are considered before wildcard rules; within
// each group declaration order decides, first match wins.
func (t *Table) Match(entity *janitor.Entity) *Rule {
	for i := range t.rules {
		rule := &t.rules[i]
		if rule.Category == entity.Category && rule.statusMatches(entity) {
			return rule
		}
	}
	for i := range t.rules {
		rule := &t.rules[i]
		if rule.Category == Wildcard && rule.statusMatches(entity) {
			return rule
		}
	}
	return nil
}

func (r *Rule) statusMatches(entity *janitor.Entity) bool {
	return r.RequiredStatus == "" || r.RequiredStatus == entity.Status
}

// Categories returns the distinct exact categories named by the table, in
// declaration order. The runner enumerates candidates per category.
func (t *Table) Categories() []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, rule := range t.rules {
		if rule.Category == Wildcard {
			continue
		}
		if _, ok := seen[rule.Category]; ok {
			continue
		}
		seen[rule.Category] = struct{}{}
		categories = append(categories, rule.Category)
	}
	return categories
}

// HasWildcard reports whether any rule applies to all categories. When true
// the runner must enumerate the whole store, not just the named categories.
func (t *Table) HasWildcard() bool {
	for _, rule := range t.rules {
		if rule.Category == Wildcard {
			return true
		}
	}
	return false
}

// Rules returns a copy of the rule list in declaration order.
func (t *Table) Rules() []Rule {
	rules := make([]Rule, len(t.rules))
	copy(rules, t.rules)
	return rules
}

// Len returns the number of rules in the table.
func (t *Table) Len() int {
	return len(t.rules)
}
