// Package hierarchy turns flat path/content maps into nested folder trees.
package hierarchy

import (
	"fmt"
	"sort"
	"strings"
)

// Separator splits a path into segments.
const Separator = "/"

// Node is either a Leaf or a Directory.
type Node interface {
	isNode()
}

// Leaf holds the content of a single file.
type Leaf string

// Directory maps one path segment to a child node.
type Directory map[string]Node

func (Leaf) isNode()      {}
func (Directory) isNode() {}

// Kind distinguishes files from directories.
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	if k == KindDir {
		return "directory"
	}
	return "file"
}

// KindOf returns the kind of n.
func KindOf(n Node) Kind {
	if _, ok := n.(Directory); ok {
		return KindDir
	}
	return KindFile
}

// ConflictError reports a path used both as a file and as a directory.
type ConflictError struct {
	// Path is the contested prefix.
	Path string
	// Existing is what Path already was when the conflicting key arrived.
	Existing Kind
	// Key is the input path that ran into the conflict.
	Key string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("path conflict: %q is already a %s (while adding %q)", e.Path, e.Existing, e.Key)
}

// Build converts files into a tree rooted at an empty Directory.
// When two keys disagree on whether a segment is a file or a directory the
// later key wins. Empty segments are kept as "" keys.
func Build(files *FileMap) Directory {
	root := Directory{}
	for _, e := range files.Entries() {
		parts := strings.Split(e.Path, Separator)
		current := root
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(Directory)
			if !ok {
				next = Directory{}
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = Leaf(e.Content)
	}
	return root
}

// BuildStrict is Build but fails on the first file/directory conflict.
func BuildStrict(files *FileMap) (Directory, error) {
	root := Directory{}
	for _, e := range files.Entries() {
		parts := strings.Split(e.Path, Separator)
		current := root
		for i, part := range parts[:len(parts)-1] {
			switch child := current[part].(type) {
			case nil:
				next := Directory{}
				current[part] = next
				current = next
			case Directory:
				current = child
			case Leaf:
				return nil, &ConflictError{
					Path:     strings.Join(parts[:i+1], Separator),
					Existing: KindFile,
					Key:      e.Path,
				}
			}
		}
		name := parts[len(parts)-1]
		if _, ok := current[name].(Directory); ok {
			return nil, &ConflictError{Path: e.Path, Existing: KindDir, Key: e.Path}
		}
		current[name] = Leaf(e.Content)
	}
	return root, nil
}

// Lookup walks path from root.
func Lookup(root Directory, path string) (Node, bool) {
	var node Node = root
	for _, part := range strings.Split(path, Separator) {
		dir, ok := node.(Directory)
		if !ok {
			return nil, false
		}
		node, ok = dir[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// CountLeaves returns the number of files at or below n.
func CountLeaves(n Node) int {
	dir, ok := n.(Directory)
	if !ok {
		return 1
	}
	total := 0
	for _, child := range dir {
		total += CountLeaves(child)
	}
	return total
}

// CountDirs returns the number of directories below n, not counting n.
func CountDirs(n Node) int {
	dir, ok := n.(Directory)
	if !ok {
		return 0
	}
	total := 0
	for _, child := range dir {
		if _, ok := child.(Directory); ok {
			total += 1 + CountDirs(child)
		}
	}
	return total
}

// Names returns the child names of d, directories first, each group sorted.
func (d Directory) Names() []string {
	var dirs, files []string
	for name, child := range d {
		if _, ok := child.(Directory); ok {
			dirs = append(dirs, name)
		} else {
			files = append(files, name)
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)
	return append(dirs, files...)
}
