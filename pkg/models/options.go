package models

import "sort"

// LogLevel is the pass-through verbosity requested for the underlying tool.
type LogLevel string

const (
	LogDebug LogLevel = "DEBUG"
	LogInfo  LogLevel = "INFO"
	LogWarn  LogLevel = "WARN"
	LogError LogLevel = "ERROR"
)

// Options is the raw, client-supplied options object (§6 "Recognized options").
// Any field left unset is normalized to its default by Canonicalize.
type Options struct {
	ValidateAll     *bool                  `json:"validate_all,omitempty"`
	ExcludePatterns []string               `json:"exclude_patterns,omitempty"`
	IncludePatterns []string               `json:"include_patterns,omitempty"`
	LogLevel        string                 `json:"log_level,omitempty"`
	Timeout         *int                   `json:"timeout,omitempty"`
	Fix             *bool                  `json:"fix,omitempty"`
	ConfigFile      string                 `json:"config_file,omitempty"`
	Rules           map[string]interface{} `json:"rules,omitempty"`
}

// CanonicalOptions is the fixed-field record produced by Canonicalize: every
// field has a concrete default applied and arrays are sorted, so that two
// JSON shuffles of equivalent content always canonicalize identically (§8,
// Testable Property 1).
type CanonicalOptions struct {
	ValidateAll     bool                   `json:"validate_all"`
	ExcludePatterns []string               `json:"exclude_patterns"`
	IncludePatterns []string               `json:"include_patterns"`
	LogLevel        string                 `json:"log_level"`
	Timeout         int                    `json:"timeout"`
	Fix             bool                   `json:"fix"`
	ConfigFile      string                 `json:"config_file"`
	Rules           map[string]interface{} `json:"rules"`
}

const (
	defaultTimeout  = 30000
	minTimeout      = 1000
	maxTimeout      = 600000
	defaultLogLevel = "INFO"
)

// Canonicalize applies the defaults from §4.2 and sorts arrays so the result
// can be serialized deterministically before hashing.
func Canonicalize(o *Options) CanonicalOptions {
	c := CanonicalOptions{
		LogLevel:   defaultLogLevel,
		Timeout:    defaultTimeout,
		ConfigFile: "",
		Rules:      map[string]interface{}{},
	}

	if o == nil {
		c.ExcludePatterns = []string{}
		c.IncludePatterns = []string{}
		return c
	}

	if o.ValidateAll != nil {
		c.ValidateAll = *o.ValidateAll
	}
	if o.Fix != nil {
		c.Fix = *o.Fix
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.Timeout != nil {
		t := *o.Timeout
		if t < minTimeout {
			t = minTimeout
		}
		if t > maxTimeout {
			t = maxTimeout
		}
		c.Timeout = t
	}
	if o.ConfigFile != "" {
		c.ConfigFile = o.ConfigFile
	}
	if o.Rules != nil {
		c.Rules = o.Rules
	}

	c.ExcludePatterns = sortedCopy(o.ExcludePatterns)
	c.IncludePatterns = sortedCopy(o.IncludePatterns)

	return c
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
