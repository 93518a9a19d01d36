package commands

import "github.com/doeshing/raix/internal/domain"

// History listing defaults
const (
	DefaultHistoryLimit       = domain.DefaultHistoryLimit
	DefaultHistorySearchLimit = domain.DefaultHistorySearchLimit
	MaxHistoryAnalysisRecords = domain.MaxHistoryAnalysisRecords
	TopPromptCount            = 5
	promptPreviewWidth        = 60
)

// Error messages
const (
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryDisabled          = "history archive disabled (set history.enabled: true)"
	ErrKeyRequired              = "--key is required"
	ErrQueryRequired            = "--query required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
)
