package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/doeshing/raix/internal/domain"
	"github.com/doeshing/raix/internal/ports"
	"github.com/doeshing/raix/internal/version"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// HTTPBackend posts prompts to the recursive executor's /execute endpoint.
type HTTPBackend struct {
	endpoint   string
	baseURL    string
	authEnvVar string
	httpClient *http.Client
}

type executeRequest struct {
	Prompt string `json:"prompt"`
}

type executeResponse struct {
	FinalCode *string `json:"final_code"`
	Output    *string `json:"output"`
}

// NewHTTPBackend builds a backend for cfg. A nil client gets one with the
// configured per-attempt timeout.
func NewHTTPBackend(cfg domain.Config, client *http.Client) *HTTPBackend {
	if client == nil {
		client = &http.Client{Timeout: cfg.AttemptTimeout()}
	}
	return &HTTPBackend{
		endpoint:   cfg.ExecuteURL(),
		baseURL:    strings.TrimRight(defaultString(cfg.Endpoint.BaseURL, domain.DefaultBaseURL), "/"),
		authEnvVar: cfg.Endpoint.AuthEnvVar,
		httpClient: client,
	}
}

// Endpoint returns the full execute URL.
func (b *HTTPBackend) Endpoint() string {
	return b.endpoint
}

// Execute performs one round-trip. Every failure is returned as
// *domain.TransientRequestError.
func (b *HTTPBackend) Execute(ctx context.Context, prompt string) (domain.ExecutionResult, error) {
	body, err := json.Marshal(executeRequest{Prompt: prompt})
	if err != nil {
		return domain.ExecutionResult{}, &domain.TransientRequestError{Kind: domain.FailureDecode, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ExecutionResult{}, &domain.TransientRequestError{Kind: domain.FailureNetwork, Err: err}
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("accept", "application/json")
	httpReq.Header.Set("user-agent", "raix/"+version.Version)
	if token := getEnv(b.authEnvVar); token != "" {
		httpReq.Header.Set("authorization", "Bearer "+token)
	}

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return domain.ExecutionResult{}, &domain.TransientRequestError{Kind: domain.FailureNetwork, Err: err}
	}
	defer resp.Body.Close()

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return domain.ExecutionResult{}, &domain.TransientRequestError{Kind: domain.FailureNetwork, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ExecutionResult{}, &domain.TransientRequestError{
			Kind:       domain.FailureStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", b.endpoint, resp.Status),
		}
	}

	result, err := parseExecuteResponse(responseBody.Bytes())
	if err != nil {
		return domain.ExecutionResult{}, &domain.TransientRequestError{Kind: domain.FailureDecode, StatusCode: resp.StatusCode, Err: err}
	}
	return result, nil
}

// Probe checks that the executor host answers HTTP at all. Any status code
// counts as reachable.
func (b *HTTPBackend) Probe(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, domain.DefaultProbeTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("user-agent", "raix/"+version.Version)
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return resp.Body.Close()
}

func parseExecuteResponse(body []byte) (domain.ExecutionResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.ExecutionResult{}, errors.New("response is not a JSON object")
	}

	var response executeResponse
	if err := json.Unmarshal(trimmed, &response); err != nil {
		return domain.ExecutionResult{}, err
	}

	var result domain.ExecutionResult
	if response.FinalCode != nil {
		result.GeneratedCode = *response.FinalCode
	}
	if response.Output != nil {
		result.TerminalOutput = *response.Output
	}
	return result, nil
}

func getEnv(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(name))
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

var (
	_ ports.ExecutionBackend = (*HTTPBackend)(nil)
	_ ports.EndpointProber   = (*HTTPBackend)(nil)
)
