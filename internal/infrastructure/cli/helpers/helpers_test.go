package helpers

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/raix/internal/domain"
)

func TestAnalyzeHistory(t *testing.T) {
	records := []domain.ArchivedRecord{
		{Outcome: domain.OutcomeSucceeded, AttemptRecord: domain.AttemptRecord{Prompt: "sort a list", Retries: 1}},
		{Outcome: domain.OutcomeSucceeded, AttemptRecord: domain.AttemptRecord{Prompt: "sort  a list", Retries: 2}},
		{Outcome: domain.OutcomeFailed, AttemptRecord: domain.AttemptRecord{Prompt: "fizzbuzz", Retries: 3}},
		{Outcome: domain.OutcomeSucceeded, AttemptRecord: domain.AttemptRecord{Prompt: "primes", Retries: 2}},
	}

	stats := AnalyzeHistory(records, 2)

	if stats.Total != 4 || stats.Succeeded != 3 {
		t.Fatalf("Total=%d Succeeded=%d", stats.Total, stats.Succeeded)
	}
	if got := stats.SuccessRate(); got != 75 {
		t.Fatalf("SuccessRate = %v", got)
	}
	if got := stats.AverageRetries(); got != 2 {
		t.Fatalf("AverageRetries = %v", got)
	}
	want := []PromptStatistic{{Prompt: "sort a list", Count: 2}, {Prompt: "fizzbuzz", Count: 1}}
	if diff := cmp.Diff(want, stats.TopPrompts); diff != "" {
		t.Fatalf("TopPrompts mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculateSuccessRateEmpty(t *testing.T) {
	if got := CalculateSuccessRate(0, 0); got != 0 {
		t.Fatalf("CalculateSuccessRate(0, 0) = %v", got)
	}
}

func TestNestedMapHelpers(t *testing.T) {
	root := map[string]interface{}{
		"retry": map[string]interface{}{"max_attempts": 3},
		"export": "flat",
	}

	if !SetNestedMapValue(root, []string{"retry", "delay"}, "500ms") {
		t.Fatal("SetNestedMapValue returned false")
	}
	if !SetNestedMapValue(root, []string{"export", "dir"}, "/tmp") {
		t.Fatal("SetNestedMapValue returned false")
	}
	if SetNestedMapValue(root, nil, 1) {
		t.Fatal("empty key path should fail")
	}

	tests := []struct {
		path  []string
		want  interface{}
		found bool
	}{
		{[]string{"retry", "max_attempts"}, 3, true},
		{[]string{"retry", "delay"}, "500ms", true},
		{[]string{"export", "dir"}, "/tmp", true},
		{[]string{"retry", "missing"}, nil, false},
		{[]string{"retry", "max_attempts", "deeper"}, nil, false},
	}
	for _, tt := range tests {
		got, found := TraverseNestedMap(root, tt.path)
		if found != tt.found || got != tt.want {
			t.Errorf("TraverseNestedMap(%v) = %v, %v; want %v, %v", tt.path, got, found, tt.want, tt.found)
		}
	}
}

func TestParseYAMLValue(t *testing.T) {
	if got := ParseYAMLValue("5"); got != 5 {
		t.Fatalf("ParseYAMLValue(5) = %#v", got)
	}
	if got := ParseYAMLValue("true"); got != true {
		t.Fatalf("ParseYAMLValue(true) = %#v", got)
	}
	if got := ParseYAMLValue("key: [unclosed"); got != "key: [unclosed" {
		t.Fatalf("invalid YAML should fall back to literal, got %#v", got)
	}
}
