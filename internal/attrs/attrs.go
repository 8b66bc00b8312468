// Package attrs holds the attribute and tag tables consulted during
// stringification: known attributes per namespace, boolean attributes and
// void tags. The tables live in embedded YAML data files so they can be
// audited and regenerated without touching code.
package attrs

import (
	"embed"
	"fmt"

	"github.com/Tomxuetao/vtc/internal/collections"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// tableFile is the on-disk shape of one data file
type tableFile struct {
	Names []string `yaml:"names"`
}

var (
	knownHTMLAttrs collections.Set[string]
	knownSVGAttrs  collections.Set[string]
	booleanAttrs   collections.Set[string]
	voidTags       collections.Set[string]
)

func init() {
	knownHTMLAttrs = loadTable("data/html_attrs.yaml")
	knownSVGAttrs = loadTable("data/svg_attrs.yaml")
	booleanAttrs = loadTable("data/boolean_attrs.yaml")
	voidTags = loadTable("data/void_tags.yaml")
}

func loadTable(path string) collections.Set[string] {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("attrs: missing embedded table %s: %v", path, err))
	}
	var f tableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		panic(fmt.Sprintf("attrs: malformed table %s: %v", path, err))
	}
	return collections.NewSet(f.Names...)
}

// IsKnownHTMLAttr reports whether name is a recognized HTML attribute
func IsKnownHTMLAttr(name string) bool {
	return knownHTMLAttrs.Has(name)
}

// IsKnownSVGAttr reports whether name is a recognized SVG attribute
func IsKnownSVGAttr(name string) bool {
	return knownSVGAttrs.Has(name)
}

// IsBooleanAttr reports whether name is an attribute whose presence alone
// carries its meaning (checked, disabled, ...)
func IsBooleanAttr(name string) bool {
	return booleanAttrs.Has(name)
}

// IsVoidTag reports whether tag is a void element that never takes a
// closing tag
func IsVoidTag(tag string) bool {
	return voidTags.Has(tag)
}
