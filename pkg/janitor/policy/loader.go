package policy

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"trainingportal-hq/janitor/pkg/janitor"
)

// ruleFile is the on-disk shape of a policy file. Durations are declared as
// Go duration strings ("720h", "24h", "30m") and parsed explicitly so that a
// typo fails at load time with a line-addressable error.
type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	ID             string `yaml:"id"`
	Category       string `yaml:"category"`
	MaxAge         string `yaml:"max_age"`
	GracePeriod    string `yaml:"grace_period"`
	RequiredStatus string `yaml:"required_status"`
	Action         string `yaml:"action"`
	Reason         string `yaml:"reason"`
}

// LoadFile reads and validates a policy file, returning a rule table.
//
// Example policy file:
//
//	rules:
//	  - id: expired-sessions
//	    category: session
//	    max_age: 720h
//	    action: delete
//	    reason: expired
//	  - id: stale-enrollments
//	    category: enrollment
//	    max_age: 2160h
//	    grace_period: 168h
//	    required_status: completed
//	    action: archive
//	    reason: stale
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %q: %w", path, err)
	}
	return Parse(data)
}

// Parse parses policy rules from YAML and validates them.
func Parse(data []byte) (*Table, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for i, spec := range file.Rules {
		rule, err := spec.toRule()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, spec.ID, err)
		}
		rules = append(rules, rule)
	}

	return NewTable(rules)
}

func (s ruleSpec) toRule() (Rule, error) {
	rule := Rule{
		ID:             s.ID,
		Category:       s.Category,
		RequiredStatus: s.RequiredStatus,
		Action:         janitor.Action(s.Action),
		Reason:         s.Reason,
	}

	if s.MaxAge != "" {
		maxAge, err := time.ParseDuration(s.MaxAge)
		if err != nil {
			return Rule{}, fmt.Errorf("invalid max_age %q: %w", s.MaxAge, err)
		}
		rule.MaxAge = maxAge
	}

	if s.GracePeriod != "" {
		grace, err := time.ParseDuration(s.GracePeriod)
		if err != nil {
			return Rule{}, fmt.Errorf("invalid grace_period %q: %w", s.GracePeriod, err)
		}
		rule.GracePeriod = grace
	}

	return rule, nil
}
