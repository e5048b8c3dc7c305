package lint

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"testing"

	"linthub.app/pkg/models"
)

func TestDecodeURLPayload_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter() error = %v", err)
	}
	if _, err := w.Write([]byte("console.log('hi')")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	got, err := decodeURLPayload(encoded)
	if err != nil {
		t.Fatalf("decodeURLPayload() error = %v", err)
	}
	if string(got) != "console.log('hi')" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeURLPayload_Malformed(t *testing.T) {
	_, err := decodeURLPayload("NOT_BASE64$$")
	apiErr := models.AsAPIError(err)
	if apiErr.Code != models.ErrInvalidContentEncode {
		t.Fatalf("code = %s, want %s", apiErr.Code, models.ErrInvalidContentEncode)
	}
}

func TestRender_JSON(t *testing.T) {
	result := &models.LinterResult{ExitCode: 0, Stdout: "ok"}
	data, err := render("json", "eslint", result)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	if data != result {
		t.Fatal("expected json format to pass the result through unchanged")
	}
}

func TestRender_Text(t *testing.T) {
	result := &models.LinterResult{ExitCode: 1, Stdout: "out", Stderr: "err"}
	data, err := render("text", "eslint", result)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	text, ok := data.(*TextResult)
	if !ok || text.ExitCode != 1 || text.Stdout != "out" {
		t.Fatalf("data = %+v", data)
	}
}

func TestRender_Sarif(t *testing.T) {
	line := 10
	issues := []models.Issue{{File: "a.js", Line: &line, Rule: "no-unused-vars", Severity: models.SeverityError, Message: "unused"}}
	result := &models.LinterResult{Issues: issues}

	data, err := render("sarif", "eslint", result)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	log, ok := data.(*SarifLog)
	if !ok || len(log.Runs) != 1 || len(log.Runs[0].Results) != 1 {
		t.Fatalf("data = %+v", data)
	}
	if log.Runs[0].Results[0].Level != "error" {
		t.Fatalf("level = %s, want error", log.Runs[0].Results[0].Level)
	}
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, err := render("xml", "eslint", &models.LinterResult{})
	apiErr := models.AsAPIError(err)
	if apiErr.Code != models.ErrUnsupportedFormat {
		t.Fatalf("code = %s, want %s", apiErr.Code, models.ErrUnsupportedFormat)
	}
}
