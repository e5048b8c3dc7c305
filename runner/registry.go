package runner

// LinterConfig is one entry in the static linter configuration table
// (§4.4 "Configuration table"). Built once at init(), the same
// package-level-singleton idiom the teacher uses for its own service
// state — this table is immutable after init (§9 "Global state" item a).
type LinterConfig struct {
	Name             string
	Executable       string
	BaseArgs         []string
	Env              map[string]string
	Extensions       []string
	DefaultTimeoutMs int
	SupportsFix      bool
	FixFlag          string
	ConfigFlag       string
	LogLevelEnv      string
	// SuccessExitMax is the highest exit code still treated as "ran
	// successfully" (§4.4 step 8). Defaults to 0 when unset.
	SuccessExitMax int
	Parser         OutputParser
}

// registry is the immutable, process-wide linter table.
var registry map[string]LinterConfig

func init() {
	eslint := eslintParser{}
	pylint := pylintParser{}
	shellcheck := shellcheckParser{}
	generic := genericParser{}

	entries := []LinterConfig{
		{
			Name: "eslint", Executable: "eslint",
			BaseArgs: []string{"--format", "json"}, Extensions: []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "--fix", ConfigFlag: "--config",
			SuccessExitMax: 1, Parser: eslint,
		},
		{
			Name: "prettier", Executable: "prettier",
			BaseArgs: []string{"--check"}, Extensions: []string{".js", ".jsx", ".ts", ".tsx", ".css", ".scss", ".md", ".json", ".yaml", ".yml"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "--write",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "jshint", Executable: "jshint",
			BaseArgs: []string{"--reporter", "unix"}, Extensions: []string{".js"},
			DefaultTimeoutMs: 30000, SuccessExitMax: 2, Parser: generic,
		},
		{
			Name: "oxlint", Executable: "oxlint",
			BaseArgs: []string{"--format", "json"}, Extensions: []string{".js", ".jsx", ".ts", ".tsx"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "--fix",
			SuccessExitMax: 1, Parser: eslint,
		},
		{
			Name: "biome", Executable: "biome",
			BaseArgs: []string{"lint", "--reporter", "json"}, Extensions: []string{".js", ".jsx", ".ts", ".tsx"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "--apply",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "biome-lint", Executable: "biome",
			BaseArgs: []string{"lint", "--reporter", "json"}, Extensions: []string{".js", ".jsx", ".ts", ".tsx"},
			DefaultTimeoutMs: 30000, SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "pylint", Executable: "pylint",
			BaseArgs: []string{"--output-format=json"}, Extensions: []string{".py"},
			DefaultTimeoutMs: 30000, ConfigFlag: "--rcfile",
			SuccessExitMax: 1, Parser: pylint,
		},
		{
			Name: "flake8", Executable: "flake8",
			BaseArgs: []string{}, Extensions: []string{".py"},
			DefaultTimeoutMs: 30000, ConfigFlag: "--config",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "black", Executable: "black",
			BaseArgs: []string{"--check", "--diff"}, Extensions: []string{".py"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "isort", Executable: "isort",
			BaseArgs: []string{"--check-only", "--diff"}, Extensions: []string{".py"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "bandit", Executable: "bandit",
			BaseArgs: []string{"-f", "json"}, Extensions: []string{".py"},
			DefaultTimeoutMs: 30000, ConfigFlag: "-c",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "mypy", Executable: "mypy",
			BaseArgs: []string{}, Extensions: []string{".py"},
			DefaultTimeoutMs: 60000, ConfigFlag: "--config-file",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "shellcheck", Executable: "shellcheck",
			BaseArgs: []string{"-f", "json"}, Extensions: []string{".sh", ".bash"},
			DefaultTimeoutMs: 30000,
			SuccessExitMax: 1, Parser: shellcheck,
		},
		{
			Name: "golangci-lint", Executable: "golangci-lint",
			BaseArgs: []string{"run", "--out-format", "json"}, Extensions: []string{".go"},
			DefaultTimeoutMs: 60000, ConfigFlag: "--config",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "gofmt", Executable: "gofmt",
			BaseArgs: []string{"-l"}, Extensions: []string{".go"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "-w",
			SuccessExitMax: 0, Parser: generic,
		},
		{
			Name: "goimports", Executable: "goimports",
			BaseArgs: []string{"-l"}, Extensions: []string{".go"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "-w",
			SuccessExitMax: 0, Parser: generic,
		},
		{
			Name: "rubocop", Executable: "rubocop",
			BaseArgs: []string{"--format", "json"}, Extensions: []string{".rb"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "--autocorrect", ConfigFlag: "--config",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "hadolint", Executable: "hadolint",
			BaseArgs: []string{"--format", "json"}, Extensions: []string{"dockerfile"},
			DefaultTimeoutMs: 30000,
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "yamllint", Executable: "yamllint",
			BaseArgs: []string{"-f", "parsable"}, Extensions: []string{".yaml", ".yml"},
			DefaultTimeoutMs: 30000, ConfigFlag: "-c",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "jsonlint", Executable: "jsonlint",
			BaseArgs: []string{}, Extensions: []string{".json"},
			DefaultTimeoutMs: 15000,
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "markdownlint", Executable: "markdownlint",
			BaseArgs: []string{"--json"}, Extensions: []string{".md", ".markdown"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "--fix", ConfigFlag: "--config",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "stylelint", Executable: "stylelint",
			BaseArgs: []string{"--formatter", "json"}, Extensions: []string{".css", ".scss", ".less"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "--fix", ConfigFlag: "--config",
			SuccessExitMax: 2, Parser: generic,
		},
		{
			Name: "htmlhint", Executable: "htmlhint",
			BaseArgs: []string{"--format", "json"}, Extensions: []string{".html", ".htm"},
			DefaultTimeoutMs: 30000, ConfigFlag: "--config",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "cppcheck", Executable: "cppcheck",
			BaseArgs: []string{"--enable=all"}, Extensions: []string{".c", ".h", ".cpp", ".cc", ".cxx", ".hpp"},
			DefaultTimeoutMs: 60000,
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "checkstyle", Executable: "checkstyle",
			BaseArgs: []string{"-f", "json"}, Extensions: []string{".java"},
			DefaultTimeoutMs: 60000, ConfigFlag: "-c",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "pmd", Executable: "pmd",
			BaseArgs: []string{"check", "-f", "json"}, Extensions: []string{".java"},
			DefaultTimeoutMs: 60000, ConfigFlag: "-R",
			SuccessExitMax: 4, Parser: generic,
		},
		{
			Name: "spotbugs", Executable: "spotbugs",
			BaseArgs: []string{}, Extensions: []string{".java"},
			DefaultTimeoutMs: 60000,
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "ktlint", Executable: "ktlint",
			BaseArgs: []string{"--reporter=json"}, Extensions: []string{".kt", ".kts"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "-F",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "detekt", Executable: "detekt",
			BaseArgs: []string{"--report", "json"}, Extensions: []string{".kt", ".kts"},
			DefaultTimeoutMs: 60000, ConfigFlag: "--config",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "swiftlint", Executable: "swiftlint",
			BaseArgs: []string{"lint", "--reporter", "json"}, Extensions: []string{".swift"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "--fix", ConfigFlag: "--config",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "rustfmt", Executable: "rustfmt",
			BaseArgs: []string{"--check"}, Extensions: []string{".rs"},
			DefaultTimeoutMs: 30000, SupportsFix: true, FixFlag: "",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "clippy", Executable: "cargo-clippy",
			BaseArgs: []string{"--message-format=json"}, Extensions: []string{".rs"},
			DefaultTimeoutMs: 60000,
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "phpcs", Executable: "phpcs",
			BaseArgs: []string{"--report=json"}, Extensions: []string{".php"},
			DefaultTimeoutMs: 30000, ConfigFlag: "--standard",
			SuccessExitMax: 1, Parser: generic,
		},
		{
			Name: "phpstan", Executable: "phpstan",
			BaseArgs: []string{"analyse", "--error-format=json"}, Extensions: []string{".php"},
			DefaultTimeoutMs: 60000, ConfigFlag: "--configuration",
			SuccessExitMax: 1, Parser: generic,
		},
	}

	registry = make(map[string]LinterConfig, len(entries))
	for _, e := range entries {
		if e.LogLevelEnv == "" {
			e.LogLevelEnv = "LINT_LOG_LEVEL"
		}
		registry[e.Name] = e
	}
}

// Lookup returns the configuration for a linter name (§4.4 step 1).
func Lookup(name string) (LinterConfig, bool) {
	cfg, ok := registry[name]
	return cfg, ok
}

// Names returns every registered linter name, for the /linters listing.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// IsSuccess applies the registry's per-linter exit-code policy (§4.4
// step 8, §9 "Exit-code success bands").
func (c LinterConfig) IsSuccess(exitCode int) bool {
	return exitCode >= 0 && exitCode <= c.SuccessExitMax
}
