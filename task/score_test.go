package task

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		impact  int
		effort  int
		urgency int
		want    int
	}{
		{"high value", 8, 2, 9, 23},
		{"all ones", 1, 1, 1, 2},
		{"max effort", 1, 10, 1, -7},
		{"all max", 10, 10, 10, 20},
		{"defaults", DefaultImpact, DefaultEffort, DefaultUrgency, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := &Task{Impact: tt.impact, Effort: tt.effort, Urgency: tt.urgency}
			if got := Score(tk); got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
			// Deterministic and side-effect-free.
			if got := Score(tk); got != tt.want {
				t.Errorf("second Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	tk := &Task{Title: "bare"}
	tk.Normalize()

	if tk.Impact != DefaultImpact || tk.Effort != DefaultEffort || tk.Urgency != DefaultUrgency {
		t.Errorf("estimates = %d/%d/%d, want %d/%d/%d",
			tk.Impact, tk.Effort, tk.Urgency, DefaultImpact, DefaultEffort, DefaultUrgency)
	}
	if tk.Domain != DomainGeneral {
		t.Errorf("Domain = %q, want %q", tk.Domain, DomainGeneral)
	}
	if tk.Status != StatusBacklog {
		t.Errorf("Status = %q, want %q", tk.Status, StatusBacklog)
	}
	if got := Score(tk); got != 12 {
		t.Errorf("Score of defaulted task = %d, want 12", got)
	}
}

func TestNormalizeKeepsSetFields(t *testing.T) {
	tk := &Task{Impact: 9, Effort: 1, Urgency: 2, Domain: DomainSales, Status: StatusBlocked}
	tk.Normalize()
	if tk.Impact != 9 || tk.Effort != 1 || tk.Urgency != 2 {
		t.Errorf("estimates changed: %d/%d/%d", tk.Impact, tk.Effort, tk.Urgency)
	}
	if tk.Domain != DomainSales || tk.Status != StatusBlocked {
		t.Errorf("Domain/Status changed: %s/%s", tk.Domain, tk.Status)
	}
}

func TestPreferenceScore(t *testing.T) {
	// A and B share a base score of 10; the caller-affinity bonus on B
	// must beat the unassigned bonus on A.
	a := &Task{Impact: 5, Effort: 5, Urgency: 5}                  // score 10, unassigned
	b := &Task{Impact: 5, Effort: 5, Urgency: 5, Assignee: "u@x"} // score 10, caller's

	if got := PreferenceScore(a, "u@x"); got != 12 {
		t.Errorf("unassigned preference = %d, want 12", got)
	}
	if got := PreferenceScore(b, "u@x"); got != 15 {
		t.Errorf("assigned-to-caller preference = %d, want 15", got)
	}
	if got := PreferenceScore(b, "other@x"); got != 10 {
		t.Errorf("assigned-to-someone-else preference = %d, want 10", got)
	}
	if got := PreferenceScore(a, ""); got != 12 {
		t.Errorf("no-caller unassigned preference = %d, want 12", got)
	}
	if got := PreferenceScore(b, ""); got != 10 {
		t.Errorf("no-caller assigned preference = %d, want 10", got)
	}
}
