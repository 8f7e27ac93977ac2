// Package doctor inspects the local r2r setup and reports problems.
package doctor

import (
	"context"
	"errors"
	"os"
	"time"

	"r2r/internal/config"
	"r2r/internal/kvstore"
	"r2r/internal/r2rconfig"
)

// probeKey is read, never written, to check the store answers.
const probeKey = "__r2r_doctor_probe__"

const probeTimeout = 5 * time.Second

type Finding struct {
	Code    string `json:"code"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Report struct {
	Healthy  bool      `json:"healthy"`
	Backend  string    `json:"backend,omitempty"`
	Findings []Finding `json:"findings"`
}

// Service checks the settings file, the store and, when ConfigPath is set,
// one configuration document.
type Service struct {
	SettingsPath string
	Store        kvstore.Store
	ConfigPath   string
}

func (s *Service) Run(ctx context.Context) Report {
	findings := []Finding{}
	report := Report{}

	if _, err := os.Stat(s.SettingsPath); err != nil {
		findings = append(findings, Finding{Code: "DOC_SETTINGS_MISSING", Level: "error", Message: err.Error()})
	} else if settings, err := config.Load(s.SettingsPath); err != nil {
		findings = append(findings, Finding{Code: "DOC_SETTINGS_INVALID", Level: "error", Message: err.Error()})
	} else {
		report.Backend = settings.Store.Backend
		if settings.Store.Backend == config.BackendMemory {
			findings = append(findings, Finding{
				Code:    "DOC_STORE_EPHEMERAL",
				Level:   "warn",
				Message: "memory store keeps documents only for the life of the process",
			})
		}
	}

	if s.Store == nil {
		findings = append(findings, Finding{Code: "DOC_STORE_UNAVAILABLE", Level: "error", Message: "no store opened"})
	} else {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		_, _, err := s.Store.Get(probeCtx, probeKey)
		cancel()
		if err != nil {
			findings = append(findings, Finding{Code: "DOC_STORE_UNREACHABLE", Level: "error", Message: err.Error()})
		}
	}

	if s.ConfigPath != "" {
		findings = append(findings, checkDocument(s.ConfigPath)...)
	}

	report.Healthy = true
	for _, f := range findings {
		if f.Level == "error" {
			report.Healthy = false
			break
		}
	}
	report.Findings = findings
	return report
}

func checkDocument(path string) []Finding {
	data, err := r2rconfig.ReadFile(path)
	if err != nil {
		code := "DOC_CONFIG_UNREADABLE"
		if errors.Is(err, os.ErrNotExist) {
			code = "DOC_CONFIG_MISSING"
		}
		return []Finding{{Code: code, Level: "error", Message: err.Error()}}
	}
	if _, err := r2rconfig.Parse(data); err != nil {
		findings := []Finding{{Code: "DOC_CONFIG_INVALID", Level: "error", Message: err.Error()}}
		var malformed *r2rconfig.MalformedJSONError
		if errors.As(err, &malformed) {
			return findings
		}
		// Parse stops at the first problem; lint lists the rest.
		issues, lintErr := r2rconfig.Lint(data, r2rconfig.DefaultSchema)
		if lintErr == nil {
			for _, issue := range issues {
				findings = append(findings, Finding{Code: "DOC_CONFIG_LINT", Level: "warn", Message: issue.String()})
			}
		}
		return findings
	}
	issues, err := r2rconfig.Lint(data, r2rconfig.DefaultSchema)
	if err != nil {
		return []Finding{{Code: "DOC_CONFIG_LINT_FAIL", Level: "warn", Message: err.Error()}}
	}
	findings := make([]Finding, 0, len(issues))
	for _, issue := range issues {
		findings = append(findings, Finding{Code: "DOC_CONFIG_LINT", Level: "warn", Message: issue.String()})
	}
	return findings
}
