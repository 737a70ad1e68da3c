package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/codetree/internal/config"
)

func TestFlagChanged_NilCmd(t *testing.T) {
	if flagChanged(nil, "output") {
		t.Error("expected false for nil cmd")
	}
}

func TestFlagChanged_UnsetFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("output", "text", "")

	if flagChanged(cmd, "output") {
		t.Error("expected false for unset flag")
	}
}

func TestFlagChanged_SetFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("output", "text", "")
	if err := cmd.Flags().Set("output", "json"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	if !flagChanged(cmd, "output") {
		t.Error("expected true for set flag")
	}
}

func TestFlagChanged_InheritedFlag(t *testing.T) {
	parent := &cobra.Command{}
	parent.PersistentFlags().String("format", "text", "")

	child := &cobra.Command{}
	parent.AddCommand(child)

	if err := parent.PersistentFlags().Set("format", "json"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	if !flagChanged(child, "format") {
		t.Error("expected true for inherited flag")
	}
}

func TestFormatConfigLoadError_Nil(t *testing.T) {
	if err := formatConfigLoadError(nil); err != nil {
		t.Errorf("expected nil for nil input, got %v", err)
	}
}

func TestFormatConfigLoadError_WrapsError(t *testing.T) {
	original := errors.New("file not found")
	err := formatConfigLoadError(original)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "load config: file not found" {
		t.Errorf("unexpected error message: %v", err)
	}
	if !errors.Is(err, original) {
		t.Error("expected wrapped error")
	}
}

func TestResolveInput_Precedence(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		dir     string
		env     map[string]string
		stdin   string
		want    inputSource
		wantErr bool
	}{
		{
			name: "input flag",
			file: "files.json",
			env:  map[string]string{"CODETREE_DIR": "/env"},
			want: inputSource{File: "files.json"},
		},
		{
			name:  "dir flag beats stdin",
			dir:   "src",
			stdin: "a: b",
			want:  inputSource{Dir: "src"},
		},
		{
			name:    "both flags",
			file:    "files.json",
			dir:     "src",
			wantErr: true,
		},
		{
			name: "input env before dir env",
			env:  map[string]string{"CODETREE_INPUT": "env.yaml", "CODETREE_DIR": "/env"},
			want: inputSource{File: "env.yaml"},
		},
		{
			name:  "dir env beats stdin",
			env:   map[string]string{"CODETREE_DIR": "/env"},
			stdin: "a: b",
			want:  inputSource{Dir: "/env"},
		},
		{
			name:  "piped stdin",
			stdin: "a: b",
			want:  inputSource{File: "-"},
		},
		{
			name: "current directory",
			want: inputSource{Dir: "."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := snapshotCLIState()
			defer restore()
			prevEnvGet := envGet
			defer func() { envGet = prevEnvGet }()

			inputPath = tt.file
			inputDir = tt.dir
			envGet = func(key string) string { return tt.env[key] }

			cmd := &cobra.Command{}
			cmd.SetContext(withIO(context.Background(), bytes.NewBufferString(tt.stdin), &bytes.Buffer{}, &bytes.Buffer{}))

			got, err := resolveInput(cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveInput() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInputSourceKeyAndLabel(t *testing.T) {
	dir := t.TempDir()

	dirSrc := inputSource{Dir: dir}
	if got := dirSrc.Key(); got != "dir:"+dir {
		t.Errorf("Key() = %q", got)
	}
	if got := dirSrc.Label(); got != filepath.Base(dir) {
		t.Errorf("Label() = %q", got)
	}

	file := filepath.Join(dir, "files.json")
	fileSrc := inputSource{File: file}
	if got := fileSrc.Key(); got != "file:"+file {
		t.Errorf("Key() = %q", got)
	}
	if got := fileSrc.Label(); got != "files.json" {
		t.Errorf("Label() = %q", got)
	}

	stdinSrc := inputSource{File: "-"}
	if got := stdinSrc.Key(); got != "" {
		t.Errorf("stdin Key() = %q, want empty", got)
	}
	if got := stdinSrc.Label(); got != "stdin" {
		t.Errorf("stdin Label() = %q", got)
	}
}

func TestSessionOptions(t *testing.T) {
	restore := snapshotCLIState()
	defer restore()

	activeConfig = &config.Config{Strict: false, DefaultFile: "main.go"}
	strictFlag = false
	if opts := sessionOptions(); opts.Strict || opts.DefaultFile != "main.go" {
		t.Fatalf("unexpected options %+v", opts)
	}

	strictFlag = true
	if opts := sessionOptions(); !opts.Strict {
		t.Fatal("expected --strict to enable strict mode")
	}

	strictFlag = false
	activeConfig = &config.Config{Strict: true}
	if opts := sessionOptions(); !opts.Strict {
		t.Fatal("expected config strict to enable strict mode")
	}
}

func TestCurrentConfig_Nil(t *testing.T) {
	restore := snapshotCLIState()
	defer restore()

	activeConfig = nil
	if cfg := currentConfig(); cfg == nil {
		t.Fatal("expected empty config")
	}
}

func TestBrokenConfigFails(t *testing.T) {
	run := newCLIRun(t)
	bad := filepath.Join(t.TempDir(), "config.yaml")
	if err := writeString(bad, "output_format: [\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	configFile = bad

	err := run.exec("-o", "text", "basename", "a/b")
	if err == nil || !strings.HasPrefix(err.Error(), "load config:") {
		t.Fatalf("expected load config error, got %v", err)
	}
}

func TestConfigOutputFormatApplies(t *testing.T) {
	run := newCLIRun(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := writeString(cfg, "output_format: yaml\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	configFile = cfg

	if err := run.exec("basename", "a/b.go"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := run.out.String(); !strings.Contains(got, "name: b.go") {
		t.Fatalf("expected yaml output, got %q", got)
	}
}
