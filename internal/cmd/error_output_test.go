package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/codetree/internal/hierarchy"
	"github.com/salmonumbrella/codetree/internal/output"
	"github.com/salmonumbrella/codetree/internal/snapshot"
	"github.com/salmonumbrella/codetree/internal/viewer"
)

func TestValidateErrorFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"auto", false},
		{"text", false},
		{"json", false},
		{"yaml", false},
		{"AUTO", false},   // case insensitive
		{"TEXT", false},   // case insensitive
		{" json ", false}, // whitespace trimmed
		{"invalid", true},
		{"xml", true},
		{"ndjson", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := validateErrorFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateErrorFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestEffectiveErrorFormat(t *testing.T) {
	tests := []struct {
		name         string
		errorFormat  string
		outputFormat output.Format
		want         string
	}{
		{
			name:         "empty defaults to text",
			errorFormat:  "",
			outputFormat: output.FormatText,
			want:         "text",
		},
		{
			name:         "auto with json output",
			errorFormat:  "auto",
			outputFormat: output.FormatJSON,
			want:         "json",
		},
		{
			name:         "auto with ndjson output",
			errorFormat:  "auto",
			outputFormat: output.FormatNDJSON,
			want:         "json",
		},
		{
			name:         "auto with yaml output",
			errorFormat:  "auto",
			outputFormat: output.FormatYAML,
			want:         "yaml",
		},
		{
			name:         "auto with text output",
			errorFormat:  "auto",
			outputFormat: output.FormatText,
			want:         "text",
		},
		{
			name:         "explicit json overrides",
			errorFormat:  "json",
			outputFormat: output.FormatText,
			want:         "json",
		},
		{
			name:         "explicit yaml overrides",
			errorFormat:  "yaml",
			outputFormat: output.FormatText,
			want:         "yaml",
		},
		{
			name:         "explicit text overrides",
			errorFormat:  "text",
			outputFormat: output.FormatJSON,
			want:         "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ctx = WithErrorFormat(ctx, tt.errorFormat)
			ctx = output.WithFormat(ctx, tt.outputFormat)

			got := effectiveErrorFormat(ctx)
			if got != tt.want {
				t.Errorf("effectiveErrorFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildErrorEnvelope(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantType     string
		wantCategory string
		wantField    string
		wantValue    string
	}{
		{
			name:         "generic error",
			err:          errors.New("something went wrong"),
			wantType:     "error",
			wantCategory: "system",
		},
		{
			name:         "conflict error",
			err:          &hierarchy.ConflictError{Path: "a", Existing: hierarchy.KindFile, Key: "a/b"},
			wantType:     "conflict",
			wantCategory: "user",
			wantField:    "path",
			wantValue:    "a",
		},
		{
			name:         "wrapped not found error",
			err:          fmt.Errorf("show: %w", &viewer.NotFoundError{Path: "x.js", Kind: hierarchy.KindFile}),
			wantType:     "not_found",
			wantCategory: "user",
			wantField:    "path",
			wantValue:    "x.js",
		},
		{
			name:         "no selection",
			err:          viewer.ErrNoSelection,
			wantType:     "not_found",
			wantCategory: "user",
		},
		{
			name:         "input error",
			err:          &snapshot.InputError{Source: "files.json", Err: errors.New("parsing JSON: bad")},
			wantType:     "input",
			wantCategory: "user",
			wantField:    "source",
			wantValue:    "files.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildErrorEnvelope(tt.err)

			errMap, ok := result["error"].(map[string]interface{})
			if !ok {
				t.Fatal("expected 'error' map in result")
			}

			if errMap["message"] != tt.err.Error() {
				t.Errorf("message = %v, want %v", errMap["message"], tt.err.Error())
			}

			if errMap["type"] != tt.wantType {
				t.Errorf("type = %v, want %v", errMap["type"], tt.wantType)
			}

			if errMap["category"] != tt.wantCategory {
				t.Errorf("category = %v, want %v", errMap["category"], tt.wantCategory)
			}

			if tt.wantField != "" && errMap[tt.wantField] != tt.wantValue {
				t.Errorf("%s = %v, want %v", tt.wantField, errMap[tt.wantField], tt.wantValue)
			}
		})
	}
}

func TestPrintCommandError_Nil(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := withIO(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, errBuf)

	printCommandError(ctx, nil)

	if errBuf.Len() != 0 {
		t.Errorf("expected no output for nil error, got %q", errBuf.String())
	}
}

func TestPrintCommandError_Text(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := context.Background()
	ctx = withIO(ctx, &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "text")
	ctx = output.WithFormat(ctx, output.FormatText)

	testErr := errors.New("test error message")
	printCommandError(ctx, testErr)

	got := strings.TrimSpace(errBuf.String())
	if got != "test error message" {
		t.Errorf("expected %q, got %q", "test error message", got)
	}
}

func TestPrintCommandError_JSON(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := context.Background()
	ctx = withIO(ctx, &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "json")
	ctx = output.WithFormat(ctx, output.FormatText)

	testErr := &viewer.NotFoundError{Path: "a.js", Kind: hierarchy.KindFile}
	printCommandError(ctx, testErr)

	var result map[string]interface{}
	if err := json.Unmarshal(errBuf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	errMap, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'error' map in output")
	}

	if errMap["message"] != "file not found: a.js" {
		t.Errorf("message = %v, want 'file not found: a.js'", errMap["message"])
	}
	if errMap["type"] != "not_found" {
		t.Errorf("type = %v, want 'not_found'", errMap["type"])
	}
}

func TestPrintCommandError_YAML(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := context.Background()
	ctx = withIO(ctx, &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "yaml")
	ctx = output.WithFormat(ctx, output.FormatText)

	testErr := &hierarchy.ConflictError{Path: "a/b", Existing: hierarchy.KindDir, Key: "a/b"}
	printCommandError(ctx, testErr)

	var result map[string]interface{}
	if err := yaml.Unmarshal(errBuf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse YAML output: %v", err)
	}

	errMap, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'error' map in output")
	}

	if errMap["message"] != testErr.Error() {
		t.Errorf("message = %v, want %q", errMap["message"], testErr.Error())
	}
	if errMap["type"] != "conflict" || errMap["existing"] != "directory" {
		t.Errorf("unexpected envelope %v", errMap)
	}
}
