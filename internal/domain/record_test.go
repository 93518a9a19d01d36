package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/doeshing/raix/internal/domain"
)

func TestAttemptRecordJSONShape(t *testing.T) {
	record := domain.AttemptRecord{
		Prompt:    "Write a function to check prime number",
		Code:      "def is_prime(n): ...",
		Output:    "True",
		Timestamp: domain.NewInstant(time.Date(2026, 10, 19, 8, 30, 0, 123456789, time.UTC)),
		Retries:   1,
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"prompt":"Write a function to check prime number","code":"def is_prime(n): ...","output":"True","timestamp":"2026-10-19T08:30:00.123Z","retries":1}`
	if string(data) != want {
		t.Fatalf("unexpected JSON:\n got %s\nwant %s", data, want)
	}
}

func TestInstantNormalizesToUTC(t *testing.T) {
	zone := time.FixedZone("UTC+8", 8*60*60)
	instant := domain.NewInstant(time.Date(2026, 1, 2, 3, 4, 5, 0, zone))
	if got := instant.String(); got != "2026-01-01T19:04:05.000Z" {
		t.Fatalf("String() = %s", got)
	}

	var decoded domain.Instant
	if err := json.Unmarshal([]byte(`"2026-01-01T19:04:05.000Z"`), &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !decoded.Equal(instant) {
		t.Fatalf("round trip mismatch: %s vs %s", decoded, instant)
	}
}

func TestPromptRequestValidate(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t "} {
		err := domain.PromptRequest{Prompt: prompt}.Validate()
		var empty *domain.EmptyPromptError
		if !errors.As(err, &empty) {
			t.Fatalf("Validate(%q) = %v, want EmptyPromptError", prompt, err)
		}
	}
	if err := (domain.PromptRequest{Prompt: "x"}).Validate(); err != nil {
		t.Fatalf("Validate(x) = %v", err)
	}
}

func TestExecutionResultWithPlaceholders(t *testing.T) {
	got := domain.ExecutionResult{}.WithPlaceholders()
	if got.GeneratedCode != domain.NoCodePlaceholder || got.TerminalOutput != domain.NoOutputPlaceholder {
		t.Fatalf("placeholders not applied: %+v", got)
	}

	kept := domain.ExecutionResult{GeneratedCode: "print(1)", TerminalOutput: "1"}.WithPlaceholders()
	if kept.GeneratedCode != "print(1)" || kept.TerminalOutput != "1" {
		t.Fatalf("present fields overwritten: %+v", kept)
	}
}

func TestRetriesExhaustedErrorUnwraps(t *testing.T) {
	cause := &domain.TransientRequestError{Attempt: 3, Kind: domain.FailureStatus, StatusCode: 502}
	err := &domain.RetriesExhaustedError{Attempts: 3, Last: cause}

	var transient *domain.TransientRequestError
	if !errors.As(err, &transient) {
		t.Fatal("expected TransientRequestError in chain")
	}
	if transient.StatusCode != 502 {
		t.Fatalf("unexpected status: %d", transient.StatusCode)
	}
	if got := err.Error(); got != "retries exhausted after 3 attempts: attempt 3: status failure (status 502)" {
		t.Fatalf("Error() = %q", got)
	}
}
