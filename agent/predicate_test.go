package agent

import (
	"testing"
)

func TestSuccessSubstring(t *testing.T) {
	p := SuccessSubstring(SuccessToken)

	tests := []struct {
		name        string
		observation string
		want        bool
	}{
		{"goal found", "SUCCESS: GOAL FOUND. You have reached the goal tile!", true},
		{"embedded", "the run ended with SUCCESS eventually", true},
		{"moved", "OBSERVATION: Moved successfully. New position: (2, 1). Area is Open.", false},
		{"lowercase", "success", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p(tt.observation, 1); got != tt.want {
				t.Errorf("predicate(%q) = %v, want %v", tt.observation, got, tt.want)
			}
		})
	}
}

func TestCompileSuccessExpression(t *testing.T) {
	p, err := CompileSuccessExpression(`observation.contains("SUCCESS") && step <= 10`)
	if err != nil {
		t.Fatalf("CompileSuccessExpression() error = %v", err)
	}

	tests := []struct {
		name        string
		observation string
		step        int
		want        bool
	}{
		{"match within budget", "SUCCESS: GOAL FOUND.", 6, true},
		{"match past budget", "SUCCESS: GOAL FOUND.", 11, false},
		{"no match", "OBSERVATION: Movement blocked by a wall or grid boundary.", 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p(tt.observation, tt.step); got != tt.want {
				t.Errorf("predicate(%q, %d) = %v, want %v", tt.observation, tt.step, got, tt.want)
			}
		})
	}
}

func TestCompileSuccessExpression_Invalid(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"syntax error", `observation.contains(`},
		{"unknown variable", `verdict == "SUCCESS"`},
		{"non-bool result", `observation + "!"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CompileSuccessExpression(tt.expr); err == nil {
				t.Errorf("CompileSuccessExpression(%q) should fail", tt.expr)
			}
		})
	}
}
