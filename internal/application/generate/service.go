package generate

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/doeshing/raix/internal/application/session"
	"github.com/doeshing/raix/internal/domain"
	"github.com/doeshing/raix/internal/ports"
)

// Observer receives progress events while a generation action runs.
type Observer func(session.Event)

// Service runs one generation action: a bounded retry loop around a single
// remote call, followed by exactly one session log record.
type Service struct {
	Backend     ports.ExecutionBackend
	Logs        ports.LogStore
	Archive     ports.HistoryRepository
	Logger      ports.Logger
	SessionID   string
	MaxAttempts int
	RetryDelay  time.Duration
	Now         func() time.Time

	inFlight atomic.Bool
}

// Execute validates the prompt and runs the retry loop.
//
// A blank prompt returns *domain.EmptyPromptError and a concurrent call
// returns domain.ErrGenerationInProgress; neither touches the network or the
// log. Otherwise the loop always ends with a populated result: either the
// remote result with placeholders applied, or the exhaustion markers together
// with *domain.RetriesExhaustedError.
func (s *Service) Execute(ctx context.Context, req domain.PromptRequest, observe Observer) (domain.ExecutionResult, error) {
	if s.Backend == nil || s.Logs == nil || s.Logger == nil {
		return domain.ExecutionResult{}, errors.New("generate.Service dependencies not satisfied")
	}
	if err := req.Validate(); err != nil {
		return domain.ExecutionResult{}, err
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return domain.ExecutionResult{}, domain.ErrGenerationInProgress
	}
	defer s.inFlight.Store(false)

	if ctx == nil {
		ctx = context.Background()
	}
	if observe == nil {
		observe = func(session.Event) {}
	}

	maxAttempts := s.maxAttempts()
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		observe(session.AttemptStarted{Attempt: attempt, MaxAttempts: maxAttempts})

		result, err := s.Backend.Execute(ctx, req.Prompt)
		if err == nil {
			return s.succeed(req, result, attempt, observe), nil
		}

		lastErr = classify(attempt, err)
		observe(session.AttemptFailed{Attempt: attempt, Err: lastErr})
		s.Logger.Warn("attempt failed", map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": maxAttempts,
			"kind":         failureKind(lastErr),
			"error":        err.Error(),
		})

		if attempt < maxAttempts {
			s.pause(ctx)
		}
	}

	return s.exhaust(req, maxAttempts, lastErr, observe)
}

// Busy reports whether a generation action is running.
func (s *Service) Busy() bool {
	return s.inFlight.Load()
}

func (s *Service) succeed(req domain.PromptRequest, raw domain.ExecutionResult, attempt int, observe Observer) domain.ExecutionResult {
	result := raw.WithPlaceholders()
	result.Outcome = domain.OutcomeSucceeded

	record := domain.AttemptRecord{
		Prompt:    req.Prompt,
		Code:      result.GeneratedCode,
		Output:    result.TerminalOutput,
		Timestamp: domain.NewInstant(s.now()),
		Retries:   attempt,
	}
	s.record(record, domain.OutcomeSucceeded)
	s.Logger.Info("generation succeeded", map[string]interface{}{"retries": attempt})
	observe(session.Succeeded{Result: result, Record: record})
	return result
}

func (s *Service) exhaust(req domain.PromptRequest, attempts int, lastErr error, observe Observer) (domain.ExecutionResult, error) {
	result := domain.ExhaustedResult()
	record := domain.AttemptRecord{
		Prompt:    req.Prompt,
		Code:      domain.RecordErrorCode,
		Output:    domain.RecordExhaustedOutput,
		Timestamp: domain.NewInstant(s.now()),
		Retries:   attempts,
	}
	s.record(record, domain.OutcomeFailed)

	err := &domain.RetriesExhaustedError{Attempts: attempts, Last: lastErr}
	s.Logger.Error("retries exhausted", err, map[string]interface{}{"retries": attempts})
	observe(session.Exhausted{Result: result, Record: record, Err: err})
	return result, err
}

// record appends to the session log and mirrors into the archive.
// Archive failures never change the outcome of the action.
func (s *Service) record(record domain.AttemptRecord, outcome domain.Outcome) {
	s.Logs.Append(record)
	if s.Archive == nil {
		return
	}
	archived := domain.ArchivedRecord{SessionID: s.SessionID, Outcome: outcome, AttemptRecord: record}
	if err := s.Archive.Save(archived); err != nil {
		s.Logger.Warn("history archive failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) pause(ctx context.Context) {
	if s.RetryDelay <= 0 {
		return
	}
	timer := time.NewTimer(s.RetryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (s *Service) maxAttempts() int {
	if s.MaxAttempts <= 0 {
		return domain.DefaultMaxAttempts
	}
	return s.MaxAttempts
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// classify tags err with the attempt number, keeping any classification the
// transport already made.
func classify(attempt int, err error) error {
	var transient *domain.TransientRequestError
	if errors.As(err, &transient) {
		tagged := *transient
		tagged.Attempt = attempt
		return &tagged
	}
	return &domain.TransientRequestError{Attempt: attempt, Kind: domain.FailureNetwork, Err: err}
}

func failureKind(err error) domain.FailureKind {
	var transient *domain.TransientRequestError
	if errors.As(err, &transient) {
		return transient.Kind
	}
	return domain.FailureNetwork
}
