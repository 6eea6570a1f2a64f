package xmls

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"badc0de.net/pkg/go-paperdoll/ttesting"
)

func TestReadCategoriesRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `<categories><category name="a">`},
		{"empty", `<categories></categories>`},
		{"unnamed", `<categories><category nullable="true"/></categories>`},
		{"duplicate", `<categories><category name="a"/><category name="a"/></categories>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCategories(strings.NewReader(tt.doc)); err == nil {
				t.Errorf("ReadCategories(%q) succeeded", tt.doc)
			}
		})
	}
}

func TestReadCategoriesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.xml")
	doc := `<categories><category name="hairs" nullable="true"/></categories>`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cats, err := ReadCategoriesFile(path)
	if err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualInt(t, "count", len(cats), 1)
	ttesting.AssertEqualBool(t, "nullable", cats[0].AllowsNoSelection, true)

	if _, err := ReadCategoriesFile(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Errorf("ReadCategoriesFile of a missing file succeeded")
	}
}
