// Package ast defines the template AST shared by the compiler passes.
package ast

// Kind discriminates the node variants
type Kind int

const (
	KindText Kind = iota
	KindComment
	KindElement
	KindInterpolation
	KindSimpleExpr
	KindCompoundExpr
	KindTextCall
	KindAttribute
	KindDirective
	KindIf
	KindFor
	KindCacheExpr
	KindStaticChunk
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindElement:
		return "Element"
	case KindInterpolation:
		return "Interpolation"
	case KindSimpleExpr:
		return "SimpleExpression"
	case KindCompoundExpr:
		return "CompoundExpression"
	case KindTextCall:
		return "TextCall"
	case KindAttribute:
		return "Attribute"
	case KindDirective:
		return "Directive"
	case KindIf:
		return "If"
	case KindFor:
		return "For"
	case KindCacheExpr:
		return "CacheExpression"
	case KindStaticChunk:
		return "StaticChunkCall"
	default:
		return "Unknown"
	}
}

// Node is implemented by every AST node
type Node interface {
	Kind() Kind
}

// Namespace identifies the markup namespace of an element
type Namespace int

const (
	NamespaceHTML Namespace = iota
	NamespaceSVG
	NamespaceMathML
)

// ConstType is the constant-classification level assigned to an expression
// by upstream analysis. Levels are ordered: a higher level implies every
// guarantee of the lower ones.
type ConstType int

const (
	// NotConstant marks an expression that may change between renders
	NotConstant ConstType = iota
	// CanSkipPatch marks an expression that never needs re-patching
	CanSkipPatch
	// CanCache marks an expression whose value can be cached across renders
	CanCache
	// CanStringify marks a side-effect-free literal that is safe to
	// evaluate at compile time and embed in markup
	CanStringify
)

// ExpressionNode is implemented by SimpleExpressionNode and
// CompoundExpressionNode
type ExpressionNode interface {
	Node
	exprNode()
}

// Property is implemented by AttributeNode and DirectiveNode
type Property interface {
	Node
	propNode()
}

// TextNode is literal text. It also serves as the raw-text fragment kind
// inside a CompoundExpressionNode.
type TextNode struct {
	Content string
}

func (*TextNode) Kind() Kind { return KindText }

// CommentNode is a markup comment
type CommentNode struct {
	Content string
}

func (*CommentNode) Kind() Kind { return KindComment }

// InterpolationNode is a {{ expression }} text binding
type InterpolationNode struct {
	Content ExpressionNode
}

func (*InterpolationNode) Kind() Kind { return KindInterpolation }

// SimpleExpressionNode is a single expression with its raw source text and
// the constant-classification level assigned upstream
type SimpleExpressionNode struct {
	Content  string
	IsStatic bool
	Const    ConstType
}

func (*SimpleExpressionNode) Kind() Kind { return KindSimpleExpr }
func (*SimpleExpressionNode) exprNode()  {}

// CompoundExpressionNode is an ordered list of fragments: *TextNode for raw
// text, *InterpolationNode or ExpressionNode for nested bindings
type CompoundExpressionNode struct {
	Children []Node
}

func (*CompoundExpressionNode) Kind() Kind { return KindCompoundExpr }
func (*CompoundExpressionNode) exprNode()  {}

// AttributeNode is a literal attribute; Value is nil for bare attributes
type AttributeNode struct {
	Name  string
	Value *TextNode
}

func (*AttributeNode) Kind() Kind { return KindAttribute }
func (*AttributeNode) propNode()  {}

// DirectiveNode is a directive property such as bind, html or text.
// Arg is the directive argument (the attribute being bound), Exp its value;
// either may be nil.
type DirectiveNode struct {
	Name string
	Arg  ExpressionNode
	Exp  ExpressionNode
}

func (*DirectiveNode) Kind() Kind { return KindDirective }
func (*DirectiveNode) propNode()  {}

// ElementNode is an element with its properties and children. Codegen holds
// the compiled-code reference attached by later passes; for a cached subtree
// it is a *CacheExpression.
type ElementNode struct {
	Tag      string
	NS       Namespace
	Props    []Property
	Children []Node
	Codegen  Node
}

func (*ElementNode) Kind() Kind { return KindElement }

// TextCallNode wraps adjacent text and interpolation children merged into a
// single text-producing call. Content is a *TextNode, *InterpolationNode or
// *CompoundExpressionNode.
type TextCallNode struct {
	Content Node
	Codegen Node
}

func (*TextCallNode) Kind() Kind { return KindTextCall }

// IfNode is a conditional branch; it can never appear inside a static run
type IfNode struct {
	Condition ExpressionNode
	Children  []Node
	Else      []Node
}

func (*IfNode) Kind() Kind { return KindIf }

// ForNode is a list-rendering node; it can never appear inside a static run
type ForNode struct {
	Source   ExpressionNode
	Children []Node
}

func (*ForNode) Kind() Kind { return KindFor }

// CacheExpression wraps a hoisted value and its slot index into the
// compilation-wide cache list. Index is the slot; the cache list is ordered
// by it.
type CacheExpression struct {
	Index int
	Value Node
}

func (*CacheExpression) Kind() Kind { return KindCacheExpr }

// StaticChunkCall is the merge artifact: pre-rendered markup for a contiguous
// run of siblings plus the number of immediate siblings it replaces
type StaticChunkCall struct {
	Content   string
	NodeCount int
}

func (*StaticChunkCall) Kind() Kind { return KindStaticChunk }

// CachedNode returns the CacheExpression attached to n's compiled-code
// reference, or nil when n is not a cached element or text call
func CachedNode(n Node) *CacheExpression {
	switch t := n.(type) {
	case *ElementNode:
		if c, ok := t.Codegen.(*CacheExpression); ok {
			return c
		}
	case *TextCallNode:
		if c, ok := t.Codegen.(*CacheExpression); ok {
			return c
		}
	}
	return nil
}
