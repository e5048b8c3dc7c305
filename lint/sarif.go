// Minimal SARIF 2.1.0 rendering (§6 "Supported output formats"). No
// SARIF library appears anywhere in the pack, so this is template
// struct-literal JSON construction rather than a parser or validator.
package lint

import "linthub.app/pkg/models"

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
const sarifVersion = "2.1.0"

type SarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SarifRun `json:"runs"`
}

type SarifRun struct {
	Tool    SarifTool      `json:"tool"`
	Results []SarifResult  `json:"results"`
}

type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

type SarifDriver struct {
	Name  string `json:"name"`
	Rules []SarifRule `json:"rules,omitempty"`
}

type SarifRule struct {
	ID string `json:"id"`
}

type SarifResult struct {
	RuleID    string          `json:"ruleId,omitempty"`
	Level     string          `json:"level"`
	Message   SarifMessage    `json:"message"`
	Locations []SarifLocation `json:"locations,omitempty"`
}

type SarifMessage struct {
	Text string `json:"text"`
}

type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
	Region           *SarifRegion          `json:"region,omitempty"`
}

type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

type SarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// renderSarif wraps normalized issues into a single-run SARIF log.
func renderSarif(linter string, issues []models.Issue) *SarifLog {
	rulesSeen := map[string]bool{}
	var rules []SarifRule
	results := make([]SarifResult, 0, len(issues))

	for _, issue := range issues {
		if issue.Rule != "" && !rulesSeen[issue.Rule] {
			rulesSeen[issue.Rule] = true
			rules = append(rules, SarifRule{ID: issue.Rule})
		}

		loc := SarifPhysicalLocation{ArtifactLocation: SarifArtifactLocation{URI: issue.File}}
		if issue.Line != nil {
			region := &SarifRegion{StartLine: *issue.Line}
			if issue.Column != nil {
				region.StartColumn = *issue.Column
			}
			loc.Region = region
		}

		results = append(results, SarifResult{
			RuleID:    issue.Rule,
			Level:     sarifLevel(issue.Severity),
			Message:   SarifMessage{Text: issue.Message},
			Locations: []SarifLocation{{PhysicalLocation: loc}},
		})
	}

	return &SarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []SarifRun{{
			Tool:    SarifTool{Driver: SarifDriver{Name: linter, Rules: rules}},
			Results: results,
		}},
	}
}

func sarifLevel(sev models.Severity) string {
	switch sev {
	case models.SeverityError:
		return "error"
	case models.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
