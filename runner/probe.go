package runner

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"
)

const probeTimeout = 5 * time.Second

// Availability is the result of probing one linter executable
// (§4.4 "Availability probe").
type Availability struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// probeCache caches availability for the process lifetime (§9 "Global
// state" item b), the same sync.Map caching idiom as
// pkg/utils/pattern.go's regexCache.
var probeCache sync.Map

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// Probe checks whether a linter's executable is reachable and reports
// its version, caching the result for subsequent calls.
func Probe(ctx context.Context, name string) Availability {
	if cached, ok := probeCache.Load(name); ok {
		return cached.(Availability)
	}

	result := probeUncached(ctx, name)
	probeCache.Store(name, result)
	return result
}

// ResetProbeCache clears cached availability. Exposed for tests only
// (§9 "invalidated on explicit reset only in tests").
func ResetProbeCache() {
	probeCache.Range(func(key, _ interface{}) bool {
		probeCache.Delete(key)
		return true
	})
}

func probeUncached(ctx context.Context, name string) Availability {
	cfg, ok := Lookup(name)
	if !ok {
		return Availability{Name: name, Available: false, Error: "unknown linter"}
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, cfg.Executable, "--version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return Availability{Name: name, Available: false, Error: err.Error()}
	}

	version := versionPattern.FindString(strings.TrimSpace(string(out)))
	return Availability{Name: name, Available: true, Version: version}
}
