// Package xmls reads paper-doll configuration from XML files.
package xmls

import (
	"encoding/xml"
	"io"
	"os"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-paperdoll/layers"
)

// Categories is the root element of a category file:
//
//	<categories>
//		<category name="base" candisable="false"/>
//		<category name="hats" nullable="true"/>
//	</categories>
type Categories struct {
	XMLName  xml.Name   `xml:"categories"`
	Category []Category `xml:"category"`
}

type Category struct {
	Name     string `xml:"name,attr"`
	Nullable bool   `xml:"nullable,attr"`

	// CanDisable is a pointer so an absent attribute can default to true.
	CanDisable *bool `xml:"candisable,attr"`
}

// Layers converts the parsed entries into layer categories.
func (c Categories) Layers() []layers.Category {
	out := make([]layers.Category, 0, len(c.Category))
	for _, e := range c.Category {
		cat := layers.Category{Name: e.Name, AllowsNoSelection: e.Nullable, CanDisable: true}
		if e.CanDisable != nil {
			cat.CanDisable = *e.CanDisable
		}
		out = append(out, cat)
	}
	return out
}

// ReadCategories parses a category file. Entries without a name and
// repeated names are rejected.
func ReadCategories(r io.Reader) ([]layers.Category, error) {
	dec := xml.NewDecoder(r)
	var c Categories
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Wrap(err, "xmls: decoding categories")
	}
	if len(c.Category) == 0 {
		return nil, errors.New("xmls: no categories defined")
	}

	seen := make(map[string]bool)
	for i, e := range c.Category {
		if e.Name == "" {
			return nil, errors.Errorf("xmls: category %d has no name", i)
		}
		if seen[e.Name] {
			return nil, errors.Errorf("xmls: category %q defined twice", e.Name)
		}
		seen[e.Name] = true
	}
	return c.Layers(), nil
}

// ReadCategoriesFile opens path and parses it with ReadCategories.
func ReadCategoriesFile(path string) ([]layers.Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "xmls: opening %q", path)
	}
	defer f.Close()
	return ReadCategories(f)
}
