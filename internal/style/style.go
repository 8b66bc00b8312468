// Package style normalizes class and style binding values into the canonical
// string forms embedded in static markup.
package style

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"

	"github.com/Tomxuetao/vtc/internal/literal"
)

// NormalizeClass flattens a class binding value into a space-separated class
// string: strings pass through, arrays concatenate their normalized items,
// object keys are included when their value is truthy.
func NormalizeClass(v literal.Value) string {
	var res string
	switch t := v.(type) {
	case literal.String:
		res = string(t)
	case literal.Array:
		for _, item := range t {
			if s := NormalizeClass(item); s != "" {
				res += s + " "
			}
		}
	case literal.Object:
		for _, f := range t {
			if literal.Truthy(f.Val) {
				res += f.Key + " "
			}
		}
	}
	return strings.TrimSpace(res)
}

// NormalizeStyle flattens a style binding value into a single ordered
// property list: strings are parsed as inline CSS declarations, arrays merge
// their normalized items left to right, objects pass through.
func NormalizeStyle(v literal.Value) literal.Object {
	switch t := v.(type) {
	case literal.String:
		return ParseStringStyle(string(t))
	case literal.Array:
		var merged literal.Object
		for _, item := range t {
			for _, f := range NormalizeStyle(item) {
				merged = setField(merged, f)
			}
		}
		return merged
	case literal.Object:
		return t
	default:
		return nil
	}
}

// setField overwrites an existing key in place or appends, preserving first
// occurrence order on override
func setField(obj literal.Object, f literal.Field) literal.Object {
	for i := range obj {
		if obj[i].Key == f.Key {
			obj[i].Val = f.Val
			return obj
		}
	}
	return append(obj, f)
}

var hyphenateRE = regexp.MustCompile(`\B([A-Z])`)

// Hyphenate converts a camelCase property name to kebab-case
func Hyphenate(name string) string {
	return strings.ToLower(hyphenateRE.ReplaceAllString(name, "-$1"))
}

// Stringify renders a normalized style object as an inline style string.
// camelCase keys are hyphenated; custom properties (leading --) keep their
// name as written.
func Stringify(obj literal.Object) string {
	var sb strings.Builder
	for _, f := range obj {
		if _, skip := f.Val.(literal.Null); skip {
			continue
		}
		key := f.Key
		if !strings.HasPrefix(key, "--") {
			key = Hyphenate(key)
		}
		sb.WriteString(key)
		sb.WriteString(":")
		sb.WriteString(f.Val.Display())
		sb.WriteString(";")
	}
	return sb.String()
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return parser
	},
}

// ParseStringStyle parses an inline style declaration list into an ordered
// property list. Declarations that do not parse are dropped.
func ParseStringStyle(s string) literal.Object {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	p := parserPool.Get().(*sitter.Parser)
	p.Reset()
	defer parserPool.Put(p)

	// Wrap in a rule so declarations parse; offsets below are into source.
	source := []byte("x{" + s + "}")
	tree := p.Parse(source, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	var obj literal.Object
	collectDeclarations(tree.RootNode(), source, &obj)
	return obj
}

func collectDeclarations(node *sitter.Node, source []byte, obj *literal.Object) {
	if node == nil {
		return
	}
	if node.Kind() == "declaration" {
		if f, ok := declarationField(node, source); ok {
			*obj = setField(*obj, f)
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		collectDeclarations(node.Child(i), source, obj)
	}
}

// declarationField extracts one property/value pair. The value is the raw
// source between the colon and the end of the declaration, so multi-token
// values (e.g. "1px solid red") survive intact.
func declarationField(node *sitter.Node, source []byte) (literal.Field, bool) {
	var property string
	var valueStart uint

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_name":
			property = string(source[child.StartByte():child.EndByte()])
		case ":":
			valueStart = child.EndByte()
		}
	}
	if property == "" || valueStart == 0 {
		return literal.Field{}, false
	}

	value := strings.TrimSpace(strings.TrimSuffix(
		string(source[valueStart:node.EndByte()]), ";"))
	value = strings.TrimSpace(value)
	if value == "" {
		return literal.Field{}, false
	}
	return literal.Field{Key: property, Val: literal.String(value)}, true
}
