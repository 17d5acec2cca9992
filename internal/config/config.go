// Package config loads the JSON configuration document named in the
// specification's external-interfaces section (top-level keys
// "global", "memory_checker", "testing_compliance", "logger") and
// applies environment-variable overrides on top of it.
package config

import (
	"encoding/json"
	"os"

	"github.com/viant/zigguard/analyzer"
)

// EnvPrefix is prepended to the override variable names.
const EnvPrefix = "ZIGGUARD_"

// FileDocument mirrors the on-disk JSON shape.
type FileDocument struct {
	Global struct {
		MaxIssues int `json:"max_issues"`
	} `json:"global"`
	MemoryChecker struct {
		AllowedAllocators []string `json:"allowed_allocators"`
	} `json:"memory_checker"`
	TestingCompliance struct {
		EnforceNaming     *bool    `json:"enforce_naming"`
		EnforceCategories *bool    `json:"enforce_categories"`
		AllowedCategories []string `json:"allowed_categories"`
	} `json:"testing_compliance"`
	Logger struct {
		Level   string `json:"level"`
		LogPath string `json:"log_path"`
	} `json:"logger"`
}

// OutputFormat is applied on top of a Config by the CLI layer; it is
// not part of analyzer.Config since formatting is an external
// collaborator per the specification.
type Resolved struct {
	Config       analyzer.Config
	OutputFormat string
}

// Load reads path (if non-empty) as a FileDocument, merges it onto
// analyzer.DefaultConfig(), then applies the ZIGGUARD_LOG_PATH,
// ZIGGUARD_OUTPUT_FORMAT, and ZIGGUARD_VERBOSITY environment
// overrides, in that order.
func Load(path string) (Resolved, error) {
	cfg := analyzer.DefaultConfig()
	resolved := Resolved{Config: cfg, OutputFormat: "text"}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return resolved, err
		}
		var doc FileDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return resolved, err
		}
		applyDocument(&resolved.Config, doc)
	}

	applyEnv(&resolved)
	return resolved, nil
}

func applyDocument(cfg *analyzer.Config, doc FileDocument) {
	if doc.Global.MaxIssues > 0 {
		cfg.Global.MaxIssues = doc.Global.MaxIssues
		cfg.Memory.MaxIssues = doc.Global.MaxIssues
	}
	if len(doc.MemoryChecker.AllowedAllocators) > 0 {
		cfg.Memory.AllowedAllocators = doc.MemoryChecker.AllowedAllocators
	}
	if doc.TestingCompliance.EnforceNaming != nil {
		cfg.Testing.EnforceNaming = *doc.TestingCompliance.EnforceNaming
	}
	if doc.TestingCompliance.EnforceCategories != nil {
		cfg.Testing.EnforceCategories = *doc.TestingCompliance.EnforceCategories
	}
	if len(doc.TestingCompliance.AllowedCategories) > 0 {
		cfg.Testing.AllowedCategories = doc.TestingCompliance.AllowedCategories
	}
	if doc.Logger.Level != "" {
		cfg.Logging.Level = doc.Logger.Level
	}
	if doc.Logger.LogPath != "" {
		cfg.Logging.LogPath = doc.Logger.LogPath
	}
}

func applyEnv(r *Resolved) {
	if v := os.Getenv(EnvPrefix + "LOG_PATH"); v != "" {
		r.Config.Logging.LogPath = v
	}
	if v := os.Getenv(EnvPrefix + "OUTPUT_FORMAT"); v != "" {
		r.OutputFormat = v
	}
	if v := os.Getenv(EnvPrefix + "VERBOSITY"); v != "" {
		r.Config.Logging.Level = v
	}
}
