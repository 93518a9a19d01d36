package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	appconfig "github.com/doeshing/raix/internal/application/config"
	"github.com/doeshing/raix/internal/domain"
	"github.com/doeshing/raix/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Prober         ports.EndpointProber
	History        ports.HistoryRepository
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format %s, %d attempts per action", cfg.ConfigFormatVersion, cfg.MaxAttempts())))
	}

	checks = append(checks, s.endpointCheck(ctx, cfg))
	checks = append(checks, authCheck(cfg.Endpoint.AuthEnvVar))
	checks = append(checks, exportDirCheck(cfg.ExportDir()))
	checks = append(checks, s.historyCheck(cfg))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) endpointCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if s.Prober == nil {
		return warn("Executor endpoint", "prober not initialized")
	}
	if err := s.Prober.Probe(ctx); err != nil {
		return fail("Executor endpoint", fmt.Sprintf("%s unreachable: %v", cfg.ExecuteURL(), err))
	}
	return ok("Executor endpoint", cfg.ExecuteURL()+" reachable")
}

func (s *Service) historyCheck(cfg domain.Config) domain.HealthCheck {
	if !cfg.IsHistoryEnabled() {
		return ok("History archive", "disabled")
	}
	if s.History == nil {
		return warn("History archive", "archive not initialized")
	}
	if _, err := s.History.Records(1, ""); err != nil {
		return fail("History archive", fmt.Sprintf("%s: %v", s.History.Path(), err))
	}
	return ok("History archive", s.History.Path())
}

func authCheck(envVar string) domain.HealthCheck {
	if envVar == "" {
		return ok("API token", "not required")
	}
	if os.Getenv(envVar) == "" {
		return warn("API token", envVar+" missing")
	}
	return ok("API token", envVar+" set")
}

func exportDirCheck(dir string) domain.HealthCheck {
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fail("Export directory", err.Error())
	}
	probe, err := os.CreateTemp(dir, ".raix-doctor-*")
	if err != nil {
		return fail("Export directory", fmt.Sprintf("%s not writable: %v", dir, err))
	}
	name := probe.Name()
	probe.Close()
	_ = os.Remove(name)

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return ok("Export directory", abs)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
