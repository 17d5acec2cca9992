package analyzer

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
)

// GlobalConfig holds cross-cutting settings shared by every pass.
type GlobalConfig struct {
	MaxIssues int
}

// PatternsConfig holds the user-declared allocator and ownership
// pattern overrides.
type PatternsConfig struct {
	AllocatorPatterns  []AllocatorPattern
	DisabledDefaults   []string
	UseDefaultPatterns bool
	OwnershipPatterns  []OwnershipPattern
}

// LoggingConfig configures the ambient logger (see internal/logging).
type LoggingConfig struct {
	Level   string // "debug", "info", "warn", "error"
	LogPath string // empty means stderr
}

// Config aggregates every substructure the facade and driver consult,
// mirroring the `{memory, testing, patterns, options, logging}` shape
// named in the specification's external-interfaces section.
type Config struct {
	Global  GlobalConfig
	Memory  MemoryConfig
	Testing TestingConfig
	Patterns PatternsConfig
	ScopeOptions ScopeTrackerOptions
	Logging LoggingConfig
}

// DefaultConfig returns the specification's illustrative defaults.
func DefaultConfig() Config {
	return Config{
		Global:       GlobalConfig{MaxIssues: 0},
		Memory:       MemoryConfig{},
		Testing:      DefaultTestingConfig(),
		Patterns:     PatternsConfig{UseDefaultPatterns: true, OwnershipPatterns: DefaultOwnershipPatterns()},
		ScopeOptions: DefaultScopeTrackerOptions(),
		Logging:      LoggingConfig{Level: "info"},
	}
}

// Validate checks configuration-level invariants before any analysis
// begins, per the specification's "configuration errors surface
// before any issue is emitted" propagation policy.
func (c *Config) Validate() *AnalysisError {
	seen := map[string]bool{}
	for _, p := range c.Patterns.AllocatorPatterns {
		if p.Name == "" {
			return newError(ErrEmptyPatternName, "", nil)
		}
		if p.Pattern == "" {
			return newError(ErrEmptyPattern, "", nil)
		}
		if seen[p.Name] {
			return newError(ErrDuplicatePattern, p.Name, nil)
		}
		seen[p.Name] = true
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return newError(ErrInvalidLogLevel, c.Logging.Level, nil)
	}
	return nil
}

// buildPatternMatcher realizes the configured PatternsConfig as a
// compiled PatternMatcher.
func (c *Config) buildPatternMatcher() (*PatternMatcher, *AnalysisError) {
	opts := []PatternMatcherOption{WithUserPatterns(c.Patterns.AllocatorPatterns...)}
	if len(c.Patterns.DisabledDefaults) > 0 {
		opts = append(opts, WithDisabledDefaults(c.Patterns.DisabledDefaults...))
	}
	if !c.Patterns.UseDefaultPatterns {
		opts = append(opts, WithoutDefaults())
	}
	return NewPatternMatcher(opts...)
}

func (c *Config) scopeOptions() ScopeTrackerOptions {
	opts := c.ScopeOptions
	if len(c.Patterns.OwnershipPatterns) > 0 {
		opts.OwnershipPatterns = c.Patterns.OwnershipPatterns
	} else if opts.OwnershipPatterns == nil {
		opts.OwnershipPatterns = DefaultOwnershipPatterns()
	}
	if opts.MaxScopeDepth <= 0 {
		opts.MaxScopeDepth = 64
	}
	if opts.IsAllocatorParam == nil {
		opts.IsAllocatorParam = defaultIsAllocatorParam
	}
	return opts
}

var highwayKey = [32]byte{} // zero key is fine: this is a fingerprint, not a MAC

// Fingerprint returns a stable hash of the configuration's
// policy-relevant fields; `--install-hooks` embeds it in the name of
// the hook it writes (see cmd/zigguard/hooks.go).
// Adapted from the highwayhash-based content fingerprinting in the
// teacher repository's inspector/graph/hash.go.
func (c *Config) Fingerprint() uint64 {
	h, _ := highwayhash.New64(highwayKey[:])
	write := func(s string) {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	write(fmt.Sprintf("maxissues=%d", c.Global.MaxIssues))
	for _, a := range c.Memory.AllowedAllocators {
		write("allowed:" + a)
	}
	write(fmt.Sprintf("naming=%v;categories=%v", c.Testing.EnforceNaming, c.Testing.EnforceCategories))
	for _, cat := range c.Testing.AllowedCategories {
		write("category:" + cat)
	}
	for _, p := range c.Patterns.AllocatorPatterns {
		write("pattern:" + p.Name + "=" + p.Pattern)
	}
	return h.Sum64()
}
