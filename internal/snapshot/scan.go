package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/salmonumbrella/codetree/internal/hierarchy"
)

const (
	// DefaultMaxFileSize bounds how much of a single file is loaded.
	DefaultMaxFileSize int64 = 1 << 20
	// DefaultConcurrency bounds parallel file reads.
	DefaultConcurrency = 8
)

// readFile is swapped in tests.
var readFile = os.ReadFile

// DefaultIgnore is always applied in addition to Scanner.Ignore.
var DefaultIgnore = []string{".git", "node_modules"}

// Scanner captures a directory as a FileMap keyed by slash-separated
// paths relative to Root.
type Scanner struct {
	Root        string
	Ignore      []string
	MaxFileSize int64
	Concurrency int
	Logger      *zap.Logger
}

func (s *Scanner) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Ignored reports whether rel (slash-separated) matches an ignore pattern,
// either on its base name or on the whole path.
func Ignored(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, group := range [][]string{DefaultIgnore, patterns} {
		for _, pattern := range group {
			if ok, _ := path.Match(pattern, base); ok {
				return true
			}
			if ok, _ := path.Match(pattern, rel); ok {
				return true
			}
		}
	}
	return false
}

// Scan walks Root and reads every eligible file.
// Files over MaxFileSize, files that are not valid UTF-8 and files removed
// while the scan runs are skipped.
func (s *Scanner) Scan(ctx context.Context) (*hierarchy.FileMap, error) {
	log := s.logger()
	maxSize := s.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	workers := s.Concurrency
	if workers <= 0 {
		workers = DefaultConcurrency
	}

	info, err := os.Stat(s.Root)
	if err != nil {
		return nil, &InputError{Source: s.Root, Err: err}
	}
	if !info.IsDir() {
		return nil, &InputError{Source: s.Root, Err: fmt.Errorf("not a directory")}
	}

	var rels []string
	err = filepath.WalkDir(s.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p != s.Root && errors.Is(err, fs.ErrNotExist) {
				log.Debug("skipping vanished path", zap.String("path", p))
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == s.Root {
			return nil
		}
		rel, err := filepath.Rel(s.Root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if Ignored(s.Ignore, rel) {
			log.Debug("ignoring path", zap.String("path", rel))
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("skipping vanished file", zap.String("path", rel))
			return nil
		}
		if err != nil {
			return err
		}
		if fi.Size() > maxSize {
			log.Debug("skipping large file", zap.String("path", rel), zap.Int64("size", fi.Size()))
			return nil
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, &InputError{Source: s.Root, Err: err}
	}

	contents := make([]*string, len(rels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rel := range rels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := readFile(filepath.Join(s.Root, filepath.FromSlash(rel)))
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug("skipping vanished file", zap.String("path", rel))
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", rel, err)
			}
			if !utf8.Valid(data) {
				log.Debug("skipping binary file", zap.String("path", rel))
				return nil
			}
			content := string(data)
			contents[i] = &content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &InputError{Source: s.Root, Err: err}
	}

	entries := make([]hierarchy.Entry, 0, len(rels))
	for i, rel := range rels {
		if contents[i] != nil {
			entries = append(entries, hierarchy.Entry{Path: rel, Content: *contents[i]})
		}
	}
	files := hierarchy.NewFileMap(entries...)
	log.Debug("scanned directory", zap.String("root", s.Root), zap.Int("files", files.Len()))
	return files, nil
}
