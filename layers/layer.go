// Package layers keeps the ordered stack of sprite layers that make up a
// paper-doll character, and picks random outfits from it.
package layers

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"badc0de.net/pkg/go-paperdoll/sheet"
)

// MaxDisplayNameLength is the number of runes of a file name kept in a
// layer's display name.
const MaxDisplayNameLength = 20

// SpriteLayer is one uploaded sheet assigned to a category.
type SpriteLayer struct {
	ID          string
	DisplayName string
	Category    string
	Image       sheet.Resource
	Visible     bool

	// OrderIndex is the layer's position in the stack at the time the
	// snapshot containing it was taken. Lower indices are drawn first.
	OrderIndex int
}

// NewSpriteLayer creates a visible layer for res, keyed by the resource's
// name.
func NewSpriteLayer(category string, res sheet.Resource) SpriteLayer {
	return SpriteLayer{
		ID:          IDFromName(res.Name()),
		DisplayName: DisplayName(res.Name()),
		Category:    category,
		Image:       res,
		Visible:     true,
	}
}

// IDFromName derives a stable layer key from a file name.
func IDFromName(name string) string {
	return strings.ToLower(filepath.Base(name))
}

// DisplayName shortens long file names for listings.
func DisplayName(name string) string {
	if utf8.RuneCountInString(name) <= MaxDisplayNameLength {
		return name
	}
	return string([]rune(name)[:MaxDisplayNameLength]) + "..."
}

// Category is one body-part slot of the character.
type Category struct {
	Name string `json:"name"`

	// AllowsNoSelection lets Randomize leave every layer of the category
	// hidden.
	AllowsNoSelection bool `json:"allows_no_selection"`

	// CanDisable is false for slots the character cannot do without.
	CanDisable bool `json:"can_disable"`
}

// DefaultCategories is the category set used when none is configured,
// listed back to front.
var DefaultCategories = []Category{
	{Name: "base", CanDisable: false},
	{Name: "torsos", CanDisable: true},
	{Name: "feet", CanDisable: true},
	{Name: "hands", CanDisable: true},
	{Name: "heads", CanDisable: true},
	{Name: "eyes", CanDisable: true},
	{Name: "tools", CanDisable: true},
	{Name: "hairs", AllowsNoSelection: true, CanDisable: true},
	{Name: "hats", AllowsNoSelection: true, CanDisable: true},
}

// FindCategory returns the category called name.
func FindCategory(categories []Category, name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
