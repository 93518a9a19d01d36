package domain

// Config mirrors ~/.raix/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	Endpoint            EndpointSettings `yaml:"endpoint"`
	Retry               RetrySettings    `yaml:"retry"`
	Export              ExportSettings   `yaml:"export"`
	History             HistorySettings  `yaml:"history"`
	Logging             LoggingSettings  `yaml:"logging"`
}

// EndpointSettings locates the remote executor.
type EndpointSettings struct {
	BaseURL    string `yaml:"base_url"`
	Path       string `yaml:"path"`
	AuthEnvVar string `yaml:"auth_env_var"`
	Timeout    string `yaml:"timeout"`
}

// RetrySettings bounds the client-side retry loop.
type RetrySettings struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Delay       string `yaml:"delay"`
}

// ExportSettings controls where session logs are written.
type ExportSettings struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// HistorySettings configures the cross-session archive.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// LoggingSettings configures diagnostic log sinks.
type LoggingSettings struct {
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Journal bool   `yaml:"journal"`
}
