package literal

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"github.com/Tomxuetao/vtc/internal/ast"
)

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable expression parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}
		return parser
	},
}

func acquireParser() *sitter.Parser {
	p := parserPool.Get().(*sitter.Parser)
	p.Reset()
	return p
}

func releaseParser(p *sitter.Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Evaluate parses src as a single bounded literal expression and returns its
// value. Accepted forms: number, string, boolean, null/undefined, unary
// minus on a number, array and object literals of accepted forms, and a
// parenthesized accepted form. Anything else returns an error; by the
// upstream classification contract this never happens for expressions
// tagged as stringifiable, so callers treat it as a compiler defect.
func Evaluate(src string) (Value, error) {
	expr, source, closeTree, err := parseExpression(src)
	if err != nil {
		return nil, err
	}
	defer closeTree()
	return convert(expr, source)
}

// IsStringLiteral reports whether src is exactly one string literal,
// optionally parenthesized
func IsStringLiteral(src string) bool {
	expr, _, closeTree, err := parseExpression(src)
	if err != nil {
		return false
	}
	defer closeTree()
	for expr.Kind() == "parenthesized_expression" {
		inner := firstMeaningfulChild(expr)
		if inner == nil {
			return false
		}
		expr = inner
	}
	return expr.Kind() == "string"
}

// CanEvaluate reports whether src is an accepted bounded literal
func CanEvaluate(src string) bool {
	_, err := Evaluate(src)
	return err == nil
}

// EvaluateExpression evaluates a simple or compound expression node
func EvaluateExpression(exp ast.ExpressionNode) (Value, error) {
	switch t := exp.(type) {
	case *ast.SimpleExpressionNode:
		return Evaluate(t.Content)
	case *ast.CompoundExpressionNode:
		s, err := EvaluateCompound(t)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	default:
		return nil, fmt.Errorf("literal: cannot evaluate %s node", exp.Kind())
	}
}

// EvaluateCompound concatenates the fragments of a compound expression: raw
// text fragments pass through verbatim, nested interpolations and
// expressions contribute their display-formatted constant value
func EvaluateCompound(exp *ast.CompoundExpressionNode) (string, error) {
	var sb strings.Builder
	for _, child := range exp.Children {
		switch c := child.(type) {
		case *ast.TextNode:
			sb.WriteString(c.Content)
		case *ast.InterpolationNode:
			v, err := EvaluateExpression(c.Content)
			if err != nil {
				return "", err
			}
			sb.WriteString(v.Display())
		case ast.ExpressionNode:
			v, err := EvaluateExpression(c)
			if err != nil {
				return "", err
			}
			sb.WriteString(v.Display())
		default:
			return "", fmt.Errorf("literal: unexpected %s fragment in compound expression", child.Kind())
		}
	}
	return sb.String(), nil
}

// parseExpression parses src and returns the root expression node. The
// returned closer must be called once the node is no longer needed.
func parseExpression(src string) (*sitter.Node, []byte, func(), error) {
	p := acquireParser()
	defer releaseParser(p)

	// Wrap in parentheses to force expression context; a bare object
	// literal at statement position would parse as a block.
	source := []byte("(" + src + ")")
	tree := p.Parse(source, nil)
	if tree == nil {
		return nil, nil, nil, fmt.Errorf("literal: failed to parse %q", src)
	}

	root := tree.RootNode()
	if root.HasError() {
		tree.Close()
		return nil, nil, nil, fmt.Errorf("literal: %q is not a literal expression", src)
	}
	var stmt *sitter.Node
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child.Kind() == "comment" {
			continue
		}
		if child.Kind() != "expression_statement" || stmt != nil {
			tree.Close()
			return nil, nil, nil, fmt.Errorf("literal: %q is not a single literal expression", src)
		}
		stmt = child
	}
	if stmt == nil {
		tree.Close()
		return nil, nil, nil, fmt.Errorf("literal: %q is empty", src)
	}

	expr := firstMeaningfulChild(stmt)
	if expr == nil {
		tree.Close()
		return nil, nil, nil, fmt.Errorf("literal: %q is empty", src)
	}
	return expr, source, func() { tree.Close() }, nil
}

// punctuation and separator kinds skipped while walking literal trees
var skipKinds = map[string]bool{
	"(": true, ")": true, "[": true, "]": true, "{": true, "}": true,
	",": true, ":": true, ";": true, "\"": true, "'": true, "comment": true,
}

func firstMeaningfulChild(node *sitter.Node) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !skipKinds[child.Kind()] {
			return child
		}
	}
	return nil
}

func meaningfulChildren(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !skipKinds[child.Kind()] {
			out = append(out, child)
		}
	}
	return out
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// convert maps a parsed literal subtree to a Value
func convert(node *sitter.Node, source []byte) (Value, error) {
	switch node.Kind() {
	case "number":
		f, err := parseNumber(nodeText(node, source))
		if err != nil {
			return nil, err
		}
		return Number(f), nil

	case "string":
		s, err := unquoteString(node, source)
		if err != nil {
			return nil, err
		}
		return String(s), nil

	case "true":
		return Bool(true), nil

	case "false":
		return Bool(false), nil

	case "null", "undefined":
		return Null{}, nil

	case "unary_expression":
		text := nodeText(node, source)
		operand := node.Child(node.ChildCount() - 1)
		if operand == nil {
			return nil, fmt.Errorf("literal: malformed unary expression %q", text)
		}
		v, err := convert(operand, source)
		if err != nil {
			return nil, err
		}
		n, ok := v.(Number)
		if !ok {
			return nil, fmt.Errorf("literal: unary operator on non-number %q", text)
		}
		switch {
		case strings.HasPrefix(text, "-"):
			return Number(-float64(n)), nil
		case strings.HasPrefix(text, "+"):
			return n, nil
		default:
			return nil, fmt.Errorf("literal: unsupported unary operator in %q", text)
		}

	case "array":
		var arr Array = Array{}
		for _, child := range meaningfulChildren(node) {
			v, err := convert(child, source)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil

	case "object":
		var obj Object = Object{}
		for _, child := range meaningfulChildren(node) {
			if child.Kind() != "pair" {
				return nil, fmt.Errorf("literal: unsupported object member %q", nodeText(child, source))
			}
			members := meaningfulChildren(child)
			if len(members) != 2 {
				return nil, fmt.Errorf("literal: malformed object pair %q", nodeText(child, source))
			}
			key, err := objectKey(members[0], source)
			if err != nil {
				return nil, err
			}
			val, err := convert(members[1], source)
			if err != nil {
				return nil, err
			}
			obj = append(obj, Field{Key: key, Val: val})
		}
		return obj, nil

	case "parenthesized_expression":
		inner := firstMeaningfulChild(node)
		if inner == nil {
			return nil, fmt.Errorf("literal: empty parentheses")
		}
		return convert(inner, source)

	default:
		return nil, fmt.Errorf("literal: unsupported expression kind %q in %q", node.Kind(), nodeText(node, source))
	}
}

func objectKey(node *sitter.Node, source []byte) (string, error) {
	switch node.Kind() {
	case "property_identifier":
		return nodeText(node, source), nil
	case "string":
		return unquoteString(node, source)
	case "number":
		f, err := parseNumber(nodeText(node, source))
		if err != nil {
			return "", err
		}
		return FormatNumber(f), nil
	default:
		return "", fmt.Errorf("literal: unsupported object key %q", nodeText(node, source))
	}
}

// parseNumber handles decimal, hex, octal and binary numeric literals,
// including numeric separators
func parseNumber(text string) (float64, error) {
	text = strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		n, err := strconv.ParseInt(lower[2:], prefixBase(lower), 64)
		if err != nil {
			return 0, fmt.Errorf("literal: invalid numeric literal %q", text)
		}
		return float64(n), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("literal: invalid numeric literal %q", text)
	}
	return f, nil
}

func prefixBase(lower string) int {
	switch lower[1] {
	case 'x':
		return 16
	case 'o':
		return 8
	default:
		return 2
	}
}

// unquoteString decodes a string literal from its fragment and
// escape-sequence children
func unquoteString(node *sitter.Node, source []byte) (string, error) {
	var sb strings.Builder
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "string_fragment":
			sb.WriteString(nodeText(child, source))
		case "escape_sequence":
			decoded, err := decodeEscape(nodeText(child, source))
			if err != nil {
				return "", err
			}
			sb.WriteString(decoded)
		}
	}
	return sb.String(), nil
}

func decodeEscape(seq string) (string, error) {
	if len(seq) < 2 || seq[0] != '\\' {
		return "", fmt.Errorf("literal: malformed escape %q", seq)
	}
	switch seq[1] {
	case 'n':
		return "\n", nil
	case 't':
		return "\t", nil
	case 'r':
		return "\r", nil
	case 'b':
		return "\b", nil
	case 'f':
		return "\f", nil
	case 'v':
		return "\v", nil
	case '0':
		return "\x00", nil
	case 'x':
		return decodeHex(seq[2:], seq)
	case 'u':
		if strings.HasPrefix(seq, `\u{`) && strings.HasSuffix(seq, "}") {
			return decodeHex(seq[3:len(seq)-1], seq)
		}
		return decodeHex(seq[2:], seq)
	default:
		// \' \" \\ \/ and friends decode to the escaped character
		return seq[1:], nil
	}
}

func decodeHex(digits, seq string) (string, error) {
	n, err := strconv.ParseInt(digits, 16, 32)
	if err != nil {
		return "", fmt.Errorf("literal: malformed escape %q", seq)
	}
	return string(rune(n)), nil
}
