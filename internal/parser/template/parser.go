// Package template parses template source into the compiler AST. Elements,
// attributes and comments come from tree-sitter-html; directive attributes
// (":name", "v-bind:name", "v-html", "v-text", "v-if", "v-for", "v-slot")
// and {{ }} interpolations are recognized on top of the parse tree.
package template

import (
	"fmt"
	"html"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"

	"github.com/Tomxuetao/vtc/internal/ast"
)

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// parserPool is a pool of reusable template parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}
		return parser
	},
}

// Parse parses one template document and returns its root sibling list
func Parse(source string) ([]ast.Node, error) {
	p := parserPool.Get().(*sitter.Parser)
	p.Reset()
	defer parserPool.Put(p)

	src := []byte(source)
	tree := p.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("template: failed to parse source")
	}
	defer tree.Close()

	return convertChildren(tree.RootNode(), src, ast.NamespaceHTML), nil
}

func convertChildren(node *sitter.Node, src []byte, ns ast.Namespace) []ast.Node {
	var out []ast.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "element", "script_element", "style_element":
			if el := convertElement(child, src, ns); el != nil {
				out = append(out, el)
			}
		case "text", "entity":
			out = append(out, textNodes(nodeText(child, src))...)
		case "comment":
			out = append(out, commentNode(child, src))
		}
	}
	return mergeText(out)
}

func nodeText(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}

func commentNode(node *sitter.Node, src []byte) *ast.CommentNode {
	content := nodeText(node, src)
	content = strings.TrimPrefix(content, "<!--")
	content = strings.TrimSuffix(content, "-->")
	return &ast.CommentNode{Content: content}
}

// convertElement maps one element and its subtree. Structural directives
// (v-if, v-for) wrap the converted element in the matching control-flow
// node; they can never join a static run.
func convertElement(node *sitter.Node, src []byte, ns ast.Namespace) ast.Node {
	var tag string
	var props []ast.Property
	var ifCond, forSource *ast.SimpleExpressionNode
	slot := false

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if k := child.Kind(); k != "start_tag" && k != "self_closing_tag" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			part := child.Child(j)
			switch part.Kind() {
			case "tag_name":
				tag = nodeText(part, src)
			case "attribute":
				name, value := attributeParts(part, src)
				switch {
				case name == "v-if":
					ifCond = &ast.SimpleExpressionNode{Content: value}
				case name == "v-for":
					forSource = &ast.SimpleExpressionNode{Content: value}
				case name == "v-slot" || strings.HasPrefix(name, "v-slot:") || strings.HasPrefix(name, "#"):
					slot = true
				case strings.HasPrefix(name, ":"):
					props = append(props, bindDirective(name[1:], value))
				case strings.HasPrefix(name, "v-bind:"):
					props = append(props, bindDirective(name[len("v-bind:"):], value))
				case name == "v-html":
					props = append(props, valueDirective("html", value))
				case name == "v-text":
					props = append(props, valueDirective("text", value))
				default:
					attr := &ast.AttributeNode{Name: name}
					if value != "" {
						attr.Value = &ast.TextNode{Content: value}
					}
					props = append(props, attr)
				}
			}
		}
		break
	}
	if tag == "" {
		return nil
	}

	// svg and math roots enter their own namespace, which their subtrees
	// inherit
	switch tag {
	case "svg":
		ns = ast.NamespaceSVG
	case "math":
		ns = ast.NamespaceMathML
	}

	el := &ast.ElementNode{
		Tag:      tag,
		NS:       ns,
		Props:    props,
		Children: convertChildren(node, src, ns),
	}
	if slot {
		// slot content renders per-instance; mark it so downstream passes
		// keep their hands off
		el.Props = append(el.Props, &ast.DirectiveNode{Name: "slot"})
	}

	var result ast.Node = el
	if forSource != nil {
		result = &ast.ForNode{Source: forSource, Children: []ast.Node{result}}
	}
	if ifCond != nil {
		result = &ast.IfNode{Condition: ifCond, Children: []ast.Node{result}}
	}
	return result
}

func bindDirective(arg, value string) *ast.DirectiveNode {
	return &ast.DirectiveNode{
		Name: "bind",
		Arg:  &ast.SimpleExpressionNode{Content: arg, IsStatic: true},
		Exp:  &ast.SimpleExpressionNode{Content: value},
	}
}

func valueDirective(name, value string) *ast.DirectiveNode {
	return &ast.DirectiveNode{
		Name: name,
		Exp:  &ast.SimpleExpressionNode{Content: value},
	}
}

func attributeParts(node *sitter.Node, src []byte) (name, value string) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "attribute_name":
			name = nodeText(child, src)
		case "attribute_value":
			value = html.UnescapeString(nodeText(child, src))
		case "quoted_attribute_value":
			for j := uint(0); j < child.ChildCount(); j++ {
				if inner := child.Child(j); inner.Kind() == "attribute_value" {
					value = html.UnescapeString(nodeText(inner, src))
				}
			}
		}
	}
	return name, value
}

// textNodes splits raw text on {{ expr }} boundaries
func textNodes(raw string) []ast.Node {
	var out []ast.Node
	rest := html.UnescapeString(raw)
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			break
		}
		end := strings.Index(rest[open:], "}}")
		if end < 0 {
			break
		}
		if lead := rest[:open]; lead != "" {
			out = append(out, &ast.TextNode{Content: lead})
		}
		expr := strings.TrimSpace(rest[open+2 : open+end])
		out = append(out, &ast.InterpolationNode{
			Content: &ast.SimpleExpressionNode{Content: expr},
		})
		rest = rest[open+end+2:]
	}
	if rest != "" {
		out = append(out, &ast.TextNode{Content: rest})
	}
	return out
}

// mergeText collapses adjacent text and interpolation siblings: a sequence
// containing at least one interpolation becomes a TextCall wrapping either
// the lone interpolation or a compound expression; whitespace-only text
// between elements is dropped.
func mergeText(children []ast.Node) []ast.Node {
	var out []ast.Node
	var run []ast.Node

	flushRun := func() {
		if len(run) == 0 {
			return
		}
		hasInterp := false
		for _, n := range run {
			if n.Kind() == ast.KindInterpolation {
				hasInterp = true
				break
			}
		}
		switch {
		case !hasInterp:
			for _, n := range run {
				if t := n.(*ast.TextNode); strings.TrimSpace(t.Content) != "" {
					out = append(out, t)
				}
			}
		case len(run) == 1:
			out = append(out, &ast.TextCallNode{Content: run[0]})
		default:
			compound := &ast.CompoundExpressionNode{Children: append([]ast.Node{}, run...)}
			out = append(out, &ast.TextCallNode{Content: compound})
		}
		run = nil
	}

	for _, child := range children {
		switch child.Kind() {
		case ast.KindText, ast.KindInterpolation:
			run = append(run, child)
		default:
			flushRun()
			out = append(out, child)
		}
	}
	flushRun()
	return out
}
