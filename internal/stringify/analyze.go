package stringify

import (
	"regexp"

	"github.com/Tomxuetao/vtc/internal/ast"
	"github.com/Tomxuetao/vtc/internal/attrs"
	"github.com/Tomxuetao/vtc/internal/collections"
	"github.com/Tomxuetao/vtc/internal/literal"
)

// Table-structural tags need a live tabular parent to parse correctly when
// injected as standalone markup, so they never head a merged run. The check
// is deliberately top-of-candidate only: a cached container whose
// descendants include these tags still merges.
var nonStringifiableTags = collections.NewSetFromCSV(
	"caption,thead,tr,th,tbody,td,tfoot,colgroup,col")

var dataAriaRE = regexp.MustCompile(`^(data|aria)-`)

// isStringifiableAttr reports whether a literal attribute name survives
// stringification: recognized for the element's namespace, or a reserved
// data-/aria- name
func isStringifiableAttr(name string, ns ast.Namespace) bool {
	switch ns {
	case ast.NamespaceHTML:
		if attrs.IsKnownHTMLAttr(name) {
			return true
		}
	case ast.NamespaceSVG:
		if attrs.IsKnownSVGAttr(name) {
			return true
		}
	}
	return dataAriaRE.MatchString(name)
}

// analyzeNode decides whether one candidate node's whole subtree can be
// flattened to markup. On success it returns the subtree's node count and
// the number of elements in it that carry at least one property; any
// unsupported construct anywhere in the subtree invalidates the whole
// candidate.
func analyzeNode(node ast.Node) (nodeCount, bindingElements int, ok bool) {
	el, isElement := node.(*ast.ElementNode)
	if isElement && nonStringifiableTags.Has(el.Tag) {
		return 0, 0, false
	}
	if node.Kind() == ast.KindTextCall {
		return 1, 0, true
	}
	if !isElement {
		return 0, 0, false
	}

	nc := 1
	ec := 0
	if len(el.Props) > 0 {
		ec = 1
	}
	if !walk(el, &nc, &ec) {
		return 0, 0, false
	}
	return nc, ec, true
}

func walk(el *ast.ElementNode, nc, ec *int) bool {
	isOption := el.Tag == "option" && el.NS == ast.NamespaceHTML

	for _, p := range el.Props {
		switch prop := p.(type) {
		case *ast.AttributeNode:
			if !isStringifiableAttr(prop.Name, el.NS) {
				return false
			}

		case *ast.DirectiveNode:
			if prop.Name != "bind" {
				continue
			}
			if prop.Arg != nil {
				if prop.Arg.Kind() == ast.KindCompoundExpr {
					return false
				}
				arg := prop.Arg.(*ast.SimpleExpressionNode)
				if arg.IsStatic && !isStringifiableAttr(arg.Content, el.NS) {
					return false
				}
			}
			if prop.Exp != nil {
				if prop.Exp.Kind() == ast.KindCompoundExpr {
					return false
				}
				exp := prop.Exp.(*ast.SimpleExpressionNode)
				if exp.Const < ast.CanStringify {
					return false
				}
				// a bound value on <option> coerces non-string literals at
				// runtime; only a literal string is safe to flatten
				if isOption && isStaticArgOf(prop.Arg, "value") &&
					!literal.IsStringLiteral(exp.Content) {
					return false
				}
			}
		}
	}

	for _, child := range el.Children {
		*nc++
		if childEl, isEl := child.(*ast.ElementNode); isEl {
			if len(childEl.Props) > 0 {
				*ec++
			}
			if !walk(childEl, nc, ec) {
				return false
			}
		}
	}
	return true
}

func isStaticArgOf(arg ast.ExpressionNode, name string) bool {
	if arg == nil {
		return false
	}
	simple, ok := arg.(*ast.SimpleExpressionNode)
	return ok && simple.IsStatic && simple.Content == name
}
