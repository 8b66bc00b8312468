// Package transform runs the compilation pipeline over a parsed template:
// constant classification, the cache pass that wraps fully-static subtrees,
// and static chunk stringification per sibling list.
package transform

import (
	"strings"

	"github.com/Tomxuetao/vtc/internal/ast"
	"github.com/Tomxuetao/vtc/internal/literal"
	"github.com/Tomxuetao/vtc/internal/stringify"
)

// Result is the compiled template: the transformed root sibling list, the
// final cache list and every static chunk the stringifier produced.
type Result struct {
	Children []ast.Node
	Cached   []*ast.CacheExpression
	Chunks   []*ast.StaticChunkCall
}

// Compile classifies, caches and stringifies a parsed template
func Compile(children []ast.Node, scopeID string) (*Result, error) {
	Classify(children)

	cached := []*ast.CacheExpression{}
	cacheStaticRoots(children, &cached)

	cx := &stringify.Context{Cached: &cached, ScopeID: scopeID}
	if err := runLists(&children, cx); err != nil {
		return nil, err
	}

	return &Result{
		Children: children,
		Cached:   cached,
		Chunks:   collectChunks(children, cached),
	}, nil
}

// Classify assigns constant-classification levels to every expression in
// the tree: accepted bounded literals and symbolic constant references
// (leading underscore) are safe to stringify, everything else is dynamic.
func Classify(children []ast.Node) {
	for _, child := range children {
		switch t := child.(type) {
		case *ast.ElementNode:
			for _, p := range t.Props {
				if d, ok := p.(*ast.DirectiveNode); ok {
					classifyExpr(d.Exp)
				}
			}
			Classify(t.Children)
		case *ast.TextCallNode:
			classifyExpr(exprOf(t.Content))
		case *ast.InterpolationNode:
			classifyExpr(t.Content)
		case *ast.IfNode:
			classifyExpr(t.Condition)
			Classify(t.Children)
			Classify(t.Else)
		case *ast.ForNode:
			classifyExpr(t.Source)
			Classify(t.Children)
		}
	}
}

func exprOf(content ast.Node) ast.ExpressionNode {
	switch t := content.(type) {
	case *ast.InterpolationNode:
		return t.Content
	case ast.ExpressionNode:
		return t
	default:
		return nil
	}
}

func classifyExpr(exp ast.ExpressionNode) {
	switch t := exp.(type) {
	case *ast.SimpleExpressionNode:
		if strings.HasPrefix(t.Content, "_") || literal.CanEvaluate(t.Content) {
			t.Const = ast.CanStringify
		} else {
			t.Const = ast.NotConstant
		}
	case *ast.CompoundExpressionNode:
		for _, c := range t.Children {
			classifyExpr(exprOf(c))
		}
	}
}

// cacheStaticRoots wraps each fully-static root-level subtree in a
// CacheExpression with the next free slot, in sibling order
func cacheStaticRoots(children []ast.Node, cached *[]*ast.CacheExpression) {
	for _, child := range children {
		switch t := child.(type) {
		case *ast.ElementNode:
			if isStaticSubtree(t) {
				c := &ast.CacheExpression{Index: len(*cached), Value: t}
				t.Codegen = c
				*cached = append(*cached, c)
			}
		case *ast.TextCallNode:
			if contentIsStatic(t.Content) {
				c := &ast.CacheExpression{Index: len(*cached), Value: t}
				t.Codegen = c
				*cached = append(*cached, c)
			}
		}
	}
}

func isStaticSubtree(el *ast.ElementNode) bool {
	for _, p := range el.Props {
		d, ok := p.(*ast.DirectiveNode)
		if !ok {
			continue
		}
		if d.Name == "slot" {
			return false
		}
		if simple, ok := d.Exp.(*ast.SimpleExpressionNode); ok && simple.Const < ast.CanStringify {
			return false
		}
		if _, compound := d.Exp.(*ast.CompoundExpressionNode); compound {
			return false
		}
	}
	for _, child := range el.Children {
		switch t := child.(type) {
		case *ast.ElementNode:
			if !isStaticSubtree(t) {
				return false
			}
		case *ast.TextCallNode:
			if !contentIsStatic(t.Content) {
				return false
			}
		case *ast.TextNode, *ast.CommentNode:
			// always static
		default:
			return false
		}
	}
	return true
}

func contentIsStatic(content ast.Node) bool {
	switch t := content.(type) {
	case *ast.TextNode:
		return true
	case *ast.InterpolationNode:
		return exprIsStatic(t.Content)
	case *ast.CompoundExpressionNode:
		for _, c := range t.Children {
			if !contentIsStatic(c) {
				return false
			}
		}
		return true
	case ast.ExpressionNode:
		return exprIsStatic(t)
	default:
		return false
	}
}

func exprIsStatic(exp ast.ExpressionNode) bool {
	simple, ok := exp.(*ast.SimpleExpressionNode)
	return ok && simple.Const >= ast.CanStringify
}

// runLists stringifies every sibling list bottom-up, tracking slot depth so
// slot content is left alone
func runLists(children *[]ast.Node, cx *stringify.Context) error {
	for _, child := range *children {
		switch t := child.(type) {
		case *ast.ElementNode:
			inSlot := hasSlotDirective(t)
			if inSlot {
				cx.SlotDepth++
			}
			err := runLists(&t.Children, cx)
			if inSlot {
				cx.SlotDepth--
			}
			if err != nil {
				return err
			}
		case *ast.IfNode:
			if err := runLists(&t.Children, cx); err != nil {
				return err
			}
			if err := runLists(&t.Else, cx); err != nil {
				return err
			}
		case *ast.ForNode:
			if err := runLists(&t.Children, cx); err != nil {
				return err
			}
		}
	}
	return stringify.Run(children, cx, false)
}

func hasSlotDirective(el *ast.ElementNode) bool {
	for _, p := range el.Props {
		if d, ok := p.(*ast.DirectiveNode); ok && d.Name == "slot" {
			return true
		}
	}
	return false
}

func collectChunks(children []ast.Node, cached []*ast.CacheExpression) []*ast.StaticChunkCall {
	var chunks []*ast.StaticChunkCall
	seen := map[*ast.StaticChunkCall]bool{}

	add := func(call *ast.StaticChunkCall) {
		if !seen[call] {
			seen[call] = true
			chunks = append(chunks, call)
		}
	}

	for _, c := range cached {
		if call, ok := c.Value.(*ast.StaticChunkCall); ok {
			add(call)
		}
	}

	var walk func(nodes []ast.Node)
	walk = func(nodes []ast.Node) {
		for _, n := range nodes {
			switch t := n.(type) {
			case *ast.StaticChunkCall:
				add(t)
			case *ast.ElementNode:
				walk(t.Children)
			case *ast.IfNode:
				walk(t.Children)
				walk(t.Else)
			case *ast.ForNode:
				walk(t.Children)
			}
		}
	}
	walk(children)
	return chunks
}
