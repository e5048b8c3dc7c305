// Subprocess control for the Linter Runner. Uses os/exec directly — no
// process-control library appears anywhere in the retrieved pack. The
// termination ladder here is SIGTERM, then a grace period, then SIGKILL.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"linthub.app/pkg/models"
)

const (
	killGrace      = 5 * time.Second
	maxStreamBytes = 8 << 20 // bound captured stdout/stderr at 8 MiB
)

// RunRequest describes one subprocess invocation (§4.4 steps 3-5).
type RunRequest struct {
	Linter       string
	WorkspaceDir string
	Files        []string
	Options      models.CanonicalOptions
	TimeoutMs    int
}

// Run executes the configured linter against the workspace and returns
// a fully normalized result (§4.4 steps 4-11). ctx carries cancellation
// observed both between stages and by the subprocess itself (§5
// "Cancellation semantics").
func Run(ctx context.Context, req RunRequest) (*models.LinterResult, error) {
	cfg, ok := Lookup(req.Linter)
	if !ok {
		return nil, models.NewAPIError(models.ErrLinterNotFound, fmt.Sprintf("unknown linter %q", req.Linter), nil)
	}

	if len(req.Files) == 0 {
		return nil, models.NewAPIError(models.ErrLinterExecutionFailed, "no supported files", nil)
	}

	argv := buildArgv(cfg, req.Options, req.WorkspaceDir)
	env := buildEnv(cfg, req.Options, req.WorkspaceDir)

	timeoutMs := req.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = cfg.DefaultTimeoutMs
	}

	result, err := spawn(ctx, cfg, argv, env, req.WorkspaceDir, time.Duration(timeoutMs)*time.Millisecond)
	if err != nil {
		return nil, err
	}
	result.FileCount = len(req.Files)
	return result, nil
}

func buildArgv(cfg LinterConfig, opts models.CanonicalOptions, workspaceRoot string) []string {
	argv := append([]string{}, cfg.BaseArgs...)

	if opts.Fix && cfg.SupportsFix && cfg.FixFlag != "" {
		argv = append(argv, cfg.FixFlag)
	}
	if opts.ConfigFile != "" && cfg.ConfigFlag != "" {
		argv = append(argv, cfg.ConfigFlag, opts.ConfigFile)
	}

	argv = append(argv, workspaceRoot)
	return argv
}

func buildEnv(cfg LinterConfig, opts models.CanonicalOptions, workspaceRoot string) []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + os.Getenv("HOME"),
		"LINT_WORKSPACE=" + workspaceRoot,
		"LINT_RUN_MODE=sandboxed",
	}
	if cfg.LogLevelEnv != "" && opts.LogLevel != "" {
		env = append(env, cfg.LogLevelEnv+"="+opts.LogLevel)
	}
	for k, v := range cfg.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// spawn runs argv under cfg.Executable, enforcing the timeout and
// cancellation termination ladder (§4.4 step 7, §5 "Timeouts").
func spawn(ctx context.Context, cfg LinterConfig, argv, env []string, cwd string, timeout time.Duration) (*models.LinterResult, error) {
	start := time.Now()

	cmd := exec.Command(cfg.Executable, argv...)
	cmd.Dir = cwd
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = boundedWriter{buf: &stdout, limit: maxStreamBytes}
	cmd.Stderr = boundedWriter{buf: &stderr, limit: maxStreamBytes}

	if err := cmd.Start(); err != nil {
		return nil, models.NewAPIError(models.ErrLinterExecutionFailed,
			fmt.Sprintf("failed to start %s", cfg.Executable), err)
	}

	waitDone := make(chan error, 1)
	go func() { waitDone <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-waitDone:
		elapsed := time.Since(start).Milliseconds()
		return buildResult(cfg, cmd, err, stdout.String(), stderr.String(), elapsed)

	case <-timer.C:
		terminate(cmd)
		<-waitDone
		return nil, models.NewAPIError(models.ErrTimeout,
			fmt.Sprintf("%s exceeded timeout of %s", cfg.Executable, timeout), nil)

	case <-ctx.Done():
		terminate(cmd)
		<-waitDone
		return nil, models.NewAPIError(models.ErrTimeout, "run cancelled", ctx.Err())
	}
}

// terminate applies the TERM -> 5s grace -> KILL ladder (§4.4 step 7,
// §9 "Scoped acquisition of workspaces and subprocesses").
func terminate(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		_, _ = cmd.Process.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(killGrace):
		_ = cmd.Process.Kill()
	}
}

func buildResult(cfg LinterConfig, cmd *exec.Cmd, waitErr error, stdout, stderr string, elapsedMs int64) (*models.LinterResult, error) {
	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, models.NewAPIError(models.ErrLinterExecutionFailed, "failed to run linter", waitErr)
		}
	}

	parser := cfg.Parser
	if parser == nil {
		parser = genericParser{}
	}

	issues, parsed, err := parseOutput(parser, stdout, stderr)
	if err != nil {
		issues = nil
	}

	return &models.LinterResult{
		Success:         cfg.IsSuccess(exitCode),
		ExitCode:        exitCode,
		Stdout:          stdout,
		Stderr:          stderr,
		ExecutionTimeMs: elapsedMs,
		ParsedOutput:    parsed,
		FileCount:       0,
		Issues:          issues,
	}, nil
}

// parseOutput prefers the JSON parser when output looks like JSON,
// falling back to the text parser (§4.4 step 9).
func parseOutput(parser OutputParser, stdout, stderr string) ([]models.Issue, interface{}, error) {
	trimmed := strings.TrimSpace(stdout)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		issues, parsed, err := parser.ParseJSON([]byte(trimmed))
		if err == nil {
			return issues, parsed, nil
		}
	}
	issues, err := parser.ParseText(stdout, stderr)
	return issues, nil, err
}

type boundedWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w boundedWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // silently discard past the cap, still report full write
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	w.buf.Write(p)
	return len(p), nil
}
