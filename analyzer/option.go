package analyzer

// Option configures a Facade at construction time, in the same
// functional-options shape as the teacher repository's analyzer
// package (see the dropped tree-sitter analyzer.Option for the
// original; this is its domain-adapted replacement).
type Option func(*Config)

// WithAllowedAllocators restricts which allocator origins are
// accepted; an empty list (the default) accepts any resolved origin.
func WithAllowedAllocators(names ...string) Option {
	return func(c *Config) { c.Memory.AllowedAllocators = names }
}

// WithAllocatorPatterns adds user-declared allocator patterns.
func WithAllocatorPatterns(patterns ...AllocatorPattern) Option {
	return func(c *Config) { c.Patterns.AllocatorPatterns = append(c.Patterns.AllocatorPatterns, patterns...) }
}

// WithDisabledDefaultPatterns disables named default allocator patterns.
func WithDisabledDefaultPatterns(names ...string) Option {
	return func(c *Config) { c.Patterns.DisabledDefaults = append(c.Patterns.DisabledDefaults, names...) }
}

// WithoutDefaultPatterns disables the built-in allocator pattern set
// entirely — recommended for projects with heavy arena usage whose
// own naming would over-match the default "arena" substring rule.
func WithoutDefaultPatterns() Option {
	return func(c *Config) { c.Patterns.UseDefaultPatterns = false }
}

// WithOwnershipPatterns overrides the default ownership-transfer
// function-name/return-type heuristics.
func WithOwnershipPatterns(patterns ...OwnershipPattern) Option {
	return func(c *Config) { c.Patterns.OwnershipPatterns = patterns }
}

// WithMaxScopeDepth overrides the scope tracker's recursion guard.
func WithMaxScopeDepth(depth int) Option {
	return func(c *Config) { c.ScopeOptions.MaxScopeDepth = depth }
}

// WithMaxIssues caps the number of issues a single analysis emits.
func WithMaxIssues(n int) Option {
	return func(c *Config) {
		c.Global.MaxIssues = n
		c.Memory.MaxIssues = n
	}
}

// WithTestingConfig overrides the testing-compliance rules wholesale.
func WithTestingConfig(tc TestingConfig) Option {
	return func(c *Config) { c.Testing = tc }
}

// WithLogging overrides the logging configuration.
func WithLogging(lc LoggingConfig) Option {
	return func(c *Config) { c.Logging = lc }
}

func applyOptions(base Config, opts []Option) Config {
	cfg := base
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
