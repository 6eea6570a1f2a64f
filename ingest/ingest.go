// Package ingest loads sprite sheets from a directory tree laid out as
// <root>/<category>/<sheet>.png.
package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-paperdoll/layers"
	"badc0de.net/pkg/go-paperdoll/session"
	"badc0de.net/pkg/go-paperdoll/sheet"
)

// Extensions lists the file extensions Dir picks up, lower case.
var Extensions = []string{".png", ".gif", ".jpg", ".jpeg"}

// Entry is one sheet found by Dir.
type Entry struct {
	Category string
	Sheet    *sheet.Sheet
}

func isSheet(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Dir loads every sheet under root whose directory names a category.
//
// Entries come out in category order, then sorted by file name, so the
// first category ends up at the bottom of the stack. Directories that
// name no category are skipped, and so is a category with no directory.
func Dir(root string, categories []layers.Category) ([]Entry, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "ingest: reading %q", root)
	}
	present := make(map[string]bool)
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		if _, ok := layers.FindCategory(categories, d.Name()); !ok {
			glog.V(1).Infof("ingest: skipping %q, not a category", d.Name())
			continue
		}
		present[d.Name()] = true
	}

	var paths []string
	var cats []string
	for _, c := range categories {
		if !present[c.Name] {
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, c.Name))
		if err != nil {
			return nil, errors.Wrapf(err, "ingest: reading category %q", c.Name)
		}
		var names []string
		for _, f := range files {
			if f.Type().IsRegular() && isSheet(f.Name()) {
				names = append(names, f.Name())
			}
		}
		sort.Strings(names)
		for _, n := range names {
			paths = append(paths, filepath.Join(root, c.Name, n))
			cats = append(cats, c.Name)
		}
	}

	out := make([]Entry, len(paths))
	var g errgroup.Group
	g.SetLimit(8)
	for i, p := range paths {
		g.Go(func() error {
			s, err := sheet.Open(p)
			if err != nil {
				return err
			}
			out[i] = Entry{Category: cats[i], Sheet: s}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "ingest")
	}
	glog.V(2).Infof("ingest: %d sheets under %q", len(out), root)
	return out, nil
}

// AddAll adds the entries to s in order.
func AddAll(s *session.Session, entries []Entry) error {
	for _, e := range entries {
		if _, err := s.AddLayer(e.Category, e.Sheet); err != nil {
			return errors.Wrapf(err, "ingest: adding %q", e.Sheet.Name())
		}
	}
	return nil
}
