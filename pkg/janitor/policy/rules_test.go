package policy

import (
	"strings"
	"testing"
	"time"

	"trainingportal-hq/janitor/pkg/janitor"
)

func validRules() []Rule {
	return []Rule{
		{
			ID:       "expired-sessions",
			Category: "session",
			MaxAge:   30 * 24 * time.Hour,
			Action:   janitor.ActionDelete,
			Reason:   "expired",
		},
		{
			ID:             "stale-enrollments",
			Category:       "enrollment",
			MaxAge:         90 * 24 * time.Hour,
			GracePeriod:    7 * 24 * time.Hour,
			RequiredStatus: "completed",
			Action:         janitor.ActionArchive,
			Reason:         "stale",
		},
		{
			ID:       "catch-all",
			Category: Wildcard,
			MaxAge:   365 * 24 * time.Hour,
			Action:   janitor.ActionAnonymize,
			Reason:   "aged-out",
		},
	}
}

// TestNewTable_Validation tests rule validation at table construction.
func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]Rule) []Rule
		wantErr string
	}{
		{
			name:    "empty table",
			mutate:  func([]Rule) []Rule { return nil },
			wantErr: "at least one rule",
		},
		{
			name: "missing id",
			mutate: func(rules []Rule) []Rule {
				rules[0].ID = ""
				return rules
			},
			wantErr: "id is required",
		},
		{
			name: "duplicate id",
			mutate: func(rules []Rule) []Rule {
				rules[1].ID = rules[0].ID
				return rules
			},
			wantErr: "duplicate rule id",
		},
		{
			name: "missing category",
			mutate: func(rules []Rule) []Rule {
				rules[0].Category = ""
				return rules
			},
			wantErr: "category is required",
		},
		{
			name: "zero max_age",
			mutate: func(rules []Rule) []Rule {
				rules[0].MaxAge = 0
				return rules
			},
			wantErr: "max_age must be positive",
		},
		{
			name: "negative grace_period",
			mutate: func(rules []Rule) []Rule {
				rules[0].GracePeriod = -time.Hour
				return rules
			},
			wantErr: "grace_period must not be negative",
		},
		{
			name: "unrecognized action",
			mutate: func(rules []Rule) []Rule {
				rules[0].Action = "purge"
				return rules
			},
			wantErr: "unrecognized action",
		},
		{
			name: "missing reason",
			mutate: func(rules []Rule) []Rule {
				rules[0].Reason = ""
				return rules
			},
			wantErr: "reason is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.mutate(validRules()))
			if err == nil {
				t.Fatal("NewTable() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewTable() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}

	if _, err := NewTable(validRules()); err != nil {
		t.Fatalf("NewTable() with valid rules failed: %v", err)
	}
}

// TestTable_Match_ExactBeatsWildcard tests that an exact category rule wins
// over a wildcard rule regardless of declaration order.
func TestTable_Match_ExactBeatsWildcard(t *testing.T) {
	table, err := NewTable([]Rule{
		{ID: "catch-all", Category: Wildcard, MaxAge: time.Hour, Action: janitor.ActionDelete, Reason: "aged-out"},
		{ID: "sessions", Category: "session", MaxAge: time.Hour, Action: janitor.ActionArchive, Reason: "stale"},
	})
	if err != nil {
		t.Fatalf("NewTable() failed: %v", err)
	}

	rule := table.Match(&janitor.Entity{ID: "s-1", Category: "session"})
	if rule == nil {
		t.Fatal("Match() returned nil")
	}
	if rule.ID != "sessions" {
		t.Errorf("Match() rule = %q, want %q (exact beats wildcard)", rule.ID, "sessions")
	}

	rule = table.Match(&janitor.Entity{ID: "a-1", Category: "artifact"})
	if rule == nil || rule.ID != "catch-all" {
		t.Errorf("Match() for unlisted category = %v, want catch-all", rule)
	}
}

// TestTable_Match_DeclarationOrder tests first-match-wins within the same
// specificity.
func TestTable_Match_DeclarationOrder(t *testing.T) {
	table, err := NewTable([]Rule{
		{ID: "first", Category: "session", RequiredStatus: "abandoned", MaxAge: time.Hour, Action: janitor.ActionDelete, Reason: "abandoned"},
		{ID: "second", Category: "session", MaxAge: time.Hour, Action: janitor.ActionArchive, Reason: "stale"},
	})
	if err != nil {
		t.Fatalf("NewTable() failed: %v", err)
	}

	rule := table.Match(&janitor.Entity{ID: "s-1", Category: "session", Status: "abandoned"})
	if rule == nil || rule.ID != "first" {
		t.Errorf("Match() = %v, want first declared rule", rule)
	}

	// Status excludes the first rule; the second takes over.
	rule = table.Match(&janitor.Entity{ID: "s-2", Category: "session", Status: "active"})
	if rule == nil || rule.ID != "second" {
		t.Errorf("Match() = %v, want second rule for non-abandoned status", rule)
	}
}

// TestTable_Match_NoRule tests entities no rule covers.
func TestTable_Match_NoRule(t *testing.T) {
	table, err := NewTable([]Rule{
		{ID: "sessions", Category: "session", MaxAge: time.Hour, Action: janitor.ActionDelete, Reason: "expired"},
	})
	if err != nil {
		t.Fatalf("NewTable() failed: %v", err)
	}

	if rule := table.Match(&janitor.Entity{ID: "a-1", Category: "artifact"}); rule != nil {
		t.Errorf("Match() = %v, want nil for uncovered category", rule)
	}
}

// TestTable_Categories tests distinct exact categories in declaration order.
func TestTable_Categories(t *testing.T) {
	table, err := NewTable(validRules())
	if err != nil {
		t.Fatalf("NewTable() failed: %v", err)
	}

	got := table.Categories()
	want := []string{"session", "enrollment"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if !table.HasWildcard() {
		t.Error("HasWildcard() = false, want true")
	}
}
