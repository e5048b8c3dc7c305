// Output formatting for the three supported formats (§6 "Supported
// output formats"): json, text, sarif.
package lint

import "linthub.app/pkg/models"

// TextResult is the "text" format rendering: raw subprocess output
// plus exit code, no issue normalization.
type TextResult struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

// render projects a linter result into the requested output format.
func render(format, linter string, result *models.LinterResult) (interface{}, error) {
	switch format {
	case "json":
		return result, nil
	case "text":
		return &TextResult{ExitCode: result.ExitCode, Stdout: result.Stdout, Stderr: result.Stderr}, nil
	case "sarif":
		return renderSarif(linter, result.Issues), nil
	default:
		return nil, models.NewAPIError(models.ErrUnsupportedFormat, "unsupported output format: "+format, nil)
	}
}
