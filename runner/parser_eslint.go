package runner

import (
	"bufio"
	"encoding/json"
	"strconv"
	"strings"

	"linthub.app/pkg/models"
)

// eslintParser handles the array-of-files shape most JS/TS tools share:
// `[{filePath, messages:[{line, column, ruleId, severity, message}]}]`
// (§4.4 step 10, eslint-style).
type eslintParser struct{}

type eslintFile struct {
	FilePath string `json:"filePath"`
	Messages []struct {
		Line     int    `json:"line"`
		Column   int    `json:"column"`
		RuleID   string `json:"ruleId"`
		Severity int    `json:"severity"`
		Message  string `json:"message"`
	} `json:"messages"`
}

func (p eslintParser) ParseJSON(data []byte) ([]models.Issue, interface{}, error) {
	var files []eslintFile
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, nil, err
	}

	var issues []models.Issue
	for _, f := range files {
		for _, m := range f.Messages {
			issues = append(issues, models.Issue{
				File:     f.FilePath,
				Line:     intPtr(m.Line),
				Column:   intPtr(m.Column),
				Rule:     m.RuleID,
				Severity: eslintSeverity(m.Severity),
				Message:  m.Message,
				Source:   "eslint",
			})
		}
	}
	return issues, files, nil
}

func eslintSeverity(sev int) models.Severity {
	switch sev {
	case 2:
		return models.SeverityError
	case 1:
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

func (p eslintParser) ParseText(stdout, stderr string) ([]models.Issue, error) {
	return genericParser{}.ParseText(stdout, stderr)
}

// pylintParser handles pylint's array-of-findings shape:
// `[{path, line, column, message-id, type, message}]`.
type pylintParser struct{}

type pylintFinding struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	MessageID string `json:"message-id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
}

func (p pylintParser) ParseJSON(data []byte) ([]models.Issue, interface{}, error) {
	var findings []pylintFinding
	if err := json.Unmarshal(data, &findings); err != nil {
		return nil, nil, err
	}

	var issues []models.Issue
	for _, f := range findings {
		issues = append(issues, models.Issue{
			File:     f.Path,
			Line:     intPtr(f.Line),
			Column:   intPtr(f.Column),
			Rule:     f.MessageID,
			Severity: pylintSeverity(f.Type),
			Message:  f.Message,
			Source:   "pylint",
		})
	}
	return issues, findings, nil
}

func pylintSeverity(t string) models.Severity {
	switch strings.ToLower(t) {
	case "error", "fatal":
		return models.SeverityError
	case "warning", "refactor", "convention":
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

func (p pylintParser) ParseText(stdout, stderr string) ([]models.Issue, error) {
	return genericParser{}.ParseText(stdout, stderr)
}

// shellcheckParser handles shellcheck's array-of-findings shape:
// `[{file, line, column, code, level, message}]`, with codes rendered
// as `SC<code>`.
type shellcheckParser struct{}

type shellcheckFinding struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    int    `json:"code"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (p shellcheckParser) ParseJSON(data []byte) ([]models.Issue, interface{}, error) {
	var findings []shellcheckFinding
	if err := json.Unmarshal(data, &findings); err != nil {
		return nil, nil, err
	}

	var issues []models.Issue
	for _, f := range findings {
		issues = append(issues, models.Issue{
			File:     f.File,
			Line:     intPtr(f.Line),
			Column:   intPtr(f.Column),
			Rule:     "SC" + strconv.Itoa(f.Code),
			Severity: shellcheckSeverity(f.Level),
			Message:  f.Message,
			Source:   "shellcheck",
		})
	}
	return issues, findings, nil
}

func shellcheckSeverity(level string) models.Severity {
	switch strings.ToLower(level) {
	case "error":
		return models.SeverityError
	case "warning":
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

func (p shellcheckParser) ParseText(stdout, stderr string) ([]models.Issue, error) {
	return genericParser{}.ParseText(stdout, stderr)
}

// genericParser is the fallback recognizing the generic shape
// `{file|path, line, column, rule|code, severity|level, message|description}`,
// and a line-oriented fallback when output isn't JSON at all.
type genericParser struct{}

type genericFinding struct {
	File        string `json:"file"`
	Path        string `json:"path"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Rule        string `json:"rule"`
	Code        string `json:"code"`
	Severity    string `json:"severity"`
	Level       string `json:"level"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p genericParser) ParseJSON(data []byte) ([]models.Issue, interface{}, error) {
	var findings []genericFinding
	if err := json.Unmarshal(data, &findings); err != nil {
		var wrapper struct {
			Issues []genericFinding `json:"issues"`
		}
		if err2 := json.Unmarshal(data, &wrapper); err2 != nil {
			return nil, nil, err
		}
		findings = wrapper.Issues
	}

	var issues []models.Issue
	for _, f := range findings {
		file := f.File
		if file == "" {
			file = f.Path
		}
		rule := f.Rule
		if rule == "" {
			rule = f.Code
		}
		sev := f.Severity
		if sev == "" {
			sev = f.Level
		}
		message := f.Message
		if message == "" {
			message = f.Description
		}

		issues = append(issues, models.Issue{
			File:     file,
			Line:     intPtr(f.Line),
			Column:   intPtr(f.Column),
			Rule:     rule,
			Severity: genericSeverity(sev),
			Message:  message,
			Source:   "generic",
		})
	}
	return issues, findings, nil
}

func genericSeverity(s string) models.Severity {
	switch strings.ToLower(s) {
	case "error", "2":
		return models.SeverityError
	case "warning", "warn", "1":
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// ParseText provides a best-effort line-oriented fallback for tools
// whose text output carries no structured shape: every non-empty
// stdout/stderr line becomes a single informational issue.
func (p genericParser) ParseText(stdout, stderr string) ([]models.Issue, error) {
	var issues []models.Issue
	scan := func(text, source string) {
		scanner := bufio.NewScanner(strings.NewReader(text))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			issues = append(issues, models.Issue{
				Severity: models.SeverityInfo,
				Message:  line,
				Source:   source,
			})
		}
	}
	scan(stdout, "generic")
	scan(stderr, "generic")
	return issues, nil
}
