package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/viant/zigguard/analyzer"
)

// preCommitConfig mirrors the pre-commit framework's .pre-commit-config.yaml
// shape closely enough to run zigguard as a local hook.
type preCommitConfig struct {
	Repos []preCommitRepo `yaml:"repos"`
}

type preCommitRepo struct {
	Repo  string          `yaml:"repo"`
	Hooks []preCommitHook `yaml:"hooks"`
}

type preCommitHook struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Entry    string   `yaml:"entry"`
	Language string   `yaml:"language"`
	Files    string   `yaml:"files"`
	Args     []string `yaml:"args,omitempty"`
}

// installHooks writes .pre-commit-config.yaml into root, replacing any
// existing file, with a single local zigguard hook whose name embeds
// cfg.Fingerprint(), so the written file differs whenever
// policy-relevant configuration differs.
func installHooks(root string, cfg analyzer.Config) error {
	doc := preCommitConfig{
		Repos: []preCommitRepo{
			{
				Repo: "local",
				Hooks: []preCommitHook{
					{
						ID:       "zigguard",
						Name:     fmt.Sprintf("zigguard (config fingerprint %x)", cfg.Fingerprint()),
						Entry:    "zigguard --mode all --format text --fail-on-warnings",
						Language: "system",
						Files:    `\.zig$`,
					},
				},
			},
		},
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(root, ".pre-commit-config.yaml"), out, 0o644)
}
