package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salmonumbrella/codetree/internal/config"
	"github.com/salmonumbrella/codetree/internal/hierarchy"
	"github.com/salmonumbrella/codetree/internal/snapshot"
	"github.com/salmonumbrella/codetree/internal/viewer"
)

// loadConfigFromFlag loads config from --config if provided, otherwise from default path.
func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func currentConfig() *config.Config {
	if activeConfig == nil {
		return &config.Config{}
	}
	return activeConfig
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

func isConfigCommand(cmd *cobra.Command) bool {
	return cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config")
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}

// inputSource is where a command reads its file map from.
type inputSource struct {
	// File is a document path or "-" for stdin. Exactly one of File and Dir is set.
	File string
	Dir  string
}

// Key identifies the source for persisted viewer state. Stdin has no key.
func (s inputSource) Key() string {
	switch {
	case s.Dir != "":
		if abs, err := filepath.Abs(s.Dir); err == nil {
			return "dir:" + abs
		}
		return "dir:" + s.Dir
	case s.File != "" && s.File != "-":
		if abs, err := filepath.Abs(s.File); err == nil {
			return "file:" + abs
		}
		return "file:" + s.File
	}
	return ""
}

// Label is a short name for the source, used as the tree root.
func (s inputSource) Label() string {
	switch {
	case s.Dir != "":
		if abs, err := filepath.Abs(s.Dir); err == nil {
			return filepath.Base(abs)
		}
		return s.Dir
	case s.File == "-":
		return "stdin"
	}
	return filepath.Base(s.File)
}

// resolveInput picks the input with precedence:
// flags > env > piped stdin > current directory.
func resolveInput(cmd *cobra.Command) (inputSource, error) {
	file := strings.TrimSpace(inputPath)
	dir := strings.TrimSpace(inputDir)
	if file != "" && dir != "" {
		return inputSource{}, fmt.Errorf("use only one of --input or --dir")
	}
	if file != "" {
		return inputSource{File: file}, nil
	}
	if dir != "" {
		return inputSource{Dir: dir}, nil
	}

	if v := strings.TrimSpace(envGet("CODETREE_INPUT")); v != "" {
		return inputSource{File: v}, nil
	}
	if v := strings.TrimSpace(envGet("CODETREE_DIR")); v != "" {
		return inputSource{Dir: v}, nil
	}

	if inputHasData(stdinFromContext(cmd.Context())) {
		return inputSource{File: "-"}, nil
	}
	return inputSource{Dir: "."}, nil
}

// loadFiles reads the file map for src.
func loadFiles(ctx context.Context, src inputSource) (*hierarchy.FileMap, error) {
	if src.Dir != "" {
		cfg := currentConfig()
		scanner := &snapshot.Scanner{
			Root:        src.Dir,
			Ignore:      cfg.Ignore,
			MaxFileSize: cfg.MaxFileSize,
			Logger:      logger,
		}
		return scanner.Scan(ctx)
	}

	format, err := snapshot.ParseFormat(inputFormat)
	if err != nil {
		return nil, err
	}
	files, err := snapshot.LoadFile(src.File, stdinFromContext(ctx), format)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded file map", zap.String("source", src.File), zap.Int("files", files.Len()))
	return files, nil
}

func sessionOptions() viewer.Options {
	cfg := currentConfig()
	return viewer.Options{
		Strict:      strictFlag || cfg.Strict,
		DefaultFile: cfg.DefaultFile,
	}
}

// openSession resolves the input, loads it and builds a viewer session.
func openSession(cmd *cobra.Command) (*viewer.Session, inputSource, error) {
	src, err := resolveInput(cmd)
	if err != nil {
		return nil, inputSource{}, err
	}
	files, err := loadFiles(cmd.Context(), src)
	if err != nil {
		return nil, src, err
	}
	s, err := viewer.NewSession(files, sessionOptions())
	if err != nil {
		return nil, src, err
	}
	return s, src, nil
}
