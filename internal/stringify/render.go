package stringify

import (
	"fmt"
	"html"
	"strings"

	"github.com/Tomxuetao/vtc/internal/ast"
	"github.com/Tomxuetao/vtc/internal/attrs"
	"github.com/Tomxuetao/vtc/internal/literal"
	"github.com/Tomxuetao/vtc/internal/style"
)

// Markers wrapping a symbolic constant reference inside chunk markup. The
// codegen step later unescapes them back into live string concatenation;
// the referenced constants (e.g. imported asset URLs) only resolve at
// module load time, not at compile time.
const (
	ExpMarkerStart = "__VTC_EXP_START__"
	ExpMarkerEnd   = "__VTC_EXP_END__"
)

// stringifyNode serializes one node of an eligible run to markup
func stringifyNode(node ast.Node, cx *Context) (string, error) {
	switch t := node.(type) {
	case *ast.ElementNode:
		return stringifyElement(t, cx)
	case *ast.TextNode:
		return html.EscapeString(t.Content), nil
	case *ast.CommentNode:
		return "<!--" + html.EscapeString(t.Content) + "-->", nil
	case *ast.InterpolationNode:
		v, err := literal.EvaluateExpression(t.Content)
		if err != nil {
			return "", err
		}
		return html.EscapeString(v.Display()), nil
	case *ast.CompoundExpressionNode:
		s, err := literal.EvaluateCompound(t)
		if err != nil {
			return "", err
		}
		return html.EscapeString(s), nil
	case *ast.TextCallNode:
		return stringifyNode(t.Content, cx)
	default:
		// control-flow kinds cannot appear in an eligible run
		return "", nil
	}
}

func stringifyElement(el *ast.ElementNode, cx *Context) (string, error) {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(el.Tag)

	innerHTML := ""

	for _, p := range el.Props {
		switch prop := p.(type) {
		case *ast.AttributeNode:
			sb.WriteString(" ")
			sb.WriteString(prop.Name)
			if prop.Value != nil {
				sb.WriteString(`="`)
				sb.WriteString(html.EscapeString(prop.Value.Content))
				sb.WriteString(`"`)
			}

		case *ast.DirectiveNode:
			switch prop.Name {
			case "bind":
				if prop.Exp == nil {
					continue
				}
				exp, ok := prop.Exp.(*ast.SimpleExpressionNode)
				if !ok {
					return "", fmt.Errorf("stringify: compound bind expression survived analysis on <%s>", el.Tag)
				}
				arg, err := bindArg(prop, el)
				if err != nil {
					return "", err
				}

				if strings.HasPrefix(exp.Content, "_") {
					// symbolic constant reference, resolved at module load
					// time; leave a marker for the codegen unescape step
					sb.WriteString(" ")
					sb.WriteString(arg)
					sb.WriteString(`="`)
					sb.WriteString(ExpMarkerStart)
					sb.WriteString(exp.Content)
					sb.WriteString(ExpMarkerEnd)
					sb.WriteString(`"`)
					continue
				}

				v, err := literal.Evaluate(exp.Content)
				if err != nil {
					return "", err
				}
				if _, isNull := v.(literal.Null); isNull {
					continue
				}
				if v == literal.Bool(false) && attrs.IsBooleanAttr(arg) {
					continue
				}

				rendered := ""
				switch arg {
				case "class":
					rendered = style.NormalizeClass(v)
				case "style":
					rendered = style.Stringify(style.NormalizeStyle(v))
				default:
					rendered = v.Display()
				}
				sb.WriteString(" ")
				sb.WriteString(arg)
				sb.WriteString(`="`)
				sb.WriteString(html.EscapeString(rendered))
				sb.WriteString(`"`)

			case "html":
				if prop.Exp == nil {
					continue
				}
				v, err := literal.EvaluateExpression(prop.Exp)
				if err != nil {
					return "", err
				}
				// raw by contract, replaces children wholesale
				innerHTML = v.Display()

			case "text":
				if prop.Exp == nil {
					continue
				}
				v, err := literal.EvaluateExpression(prop.Exp)
				if err != nil {
					return "", err
				}
				innerHTML = html.EscapeString(v.Display())
			}
		}
	}

	if cx.ScopeID != "" {
		sb.WriteString(" ")
		sb.WriteString(cx.ScopeID)
	}
	sb.WriteString(">")

	if innerHTML != "" {
		sb.WriteString(innerHTML)
	} else {
		for _, child := range el.Children {
			s, err := stringifyNode(child, cx)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
	}

	if !attrs.IsVoidTag(el.Tag) {
		sb.WriteString("</")
		sb.WriteString(el.Tag)
		sb.WriteString(">")
	}
	return sb.String(), nil
}

func bindArg(prop *ast.DirectiveNode, el *ast.ElementNode) (string, error) {
	arg, ok := prop.Arg.(*ast.SimpleExpressionNode)
	if !ok || arg == nil {
		return "", fmt.Errorf("stringify: bind without a static argument survived analysis on <%s>", el.Tag)
	}
	return arg.Content, nil
}
