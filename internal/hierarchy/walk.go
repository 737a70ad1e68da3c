package hierarchy

import "errors"

// SkipDir can be returned by a WalkFunc to skip the directory it was called on.
var SkipDir = errors.New("skip this directory")

// WalkFunc is called for every node below the root with its full path.
type WalkFunc func(path string, node Node) error

// Walk visits the tree depth-first in Names order.
func Walk(root Directory, fn WalkFunc) error {
	return walk(root, "", true, fn)
}

func walk(dir Directory, prefix string, top bool, fn WalkFunc) error {
	for _, name := range dir.Names() {
		child := dir[name]
		path := name
		if !top {
			path = prefix + Separator + name
		}

		err := fn(path, child)
		if errors.Is(err, SkipDir) {
			continue
		}
		if err != nil {
			return err
		}

		if sub, ok := child.(Directory); ok {
			if err := walk(sub, path, false, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flatten collects every file of root into a FileMap in Walk order.
func Flatten(root Directory) *FileMap {
	out := &FileMap{}
	_ = Walk(root, func(path string, node Node) error {
		if leaf, ok := node.(Leaf); ok {
			out.Set(path, string(leaf))
		}
		return nil
	})
	return out
}
