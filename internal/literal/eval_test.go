package literal_test

import (
	"testing"

	"github.com/Tomxuetao/vtc/internal/ast"
	"github.com/Tomxuetao/vtc/internal/literal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateScalars(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want literal.Value
	}{
		{"integer", "42", literal.Number(42)},
		{"float", "1.5", literal.Number(1.5)},
		{"negative", "-7", literal.Number(-7)},
		{"unary plus", "+3", literal.Number(3)},
		{"hex", "0xff", literal.Number(255)},
		{"binary", "0b101", literal.Number(5)},
		{"octal", "0o17", literal.Number(15)},
		{"separators", "1_000_000", literal.Number(1000000)},
		{"double quoted string", `"hello"`, literal.String("hello")},
		{"single quoted string", `'hello'`, literal.String("hello")},
		{"string with escape", `"a\nb"`, literal.String("a\nb")},
		{"string with unicode escape", `"é"`, literal.String("é")},
		{"escaped quote", `'it\'s'`, literal.String("it's")},
		{"true", "true", literal.Bool(true)},
		{"false", "false", literal.Bool(false)},
		{"null", "null", literal.Null{}},
		{"undefined", "undefined", literal.Null{}},
		{"parenthesized", "(42)", literal.Number(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := literal.Evaluate(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateComposites(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		got, err := literal.Evaluate(`[1, "two", true]`)
		require.NoError(t, err)
		assert.Equal(t, literal.Array{literal.Number(1), literal.String("two"), literal.Bool(true)}, got)
	})

	t.Run("empty array", func(t *testing.T) {
		got, err := literal.Evaluate(`[]`)
		require.NoError(t, err)
		assert.Equal(t, literal.Array{}, got)
	})

	t.Run("object preserves key order", func(t *testing.T) {
		got, err := literal.Evaluate(`{ zebra: 1, alpha: 2 }`)
		require.NoError(t, err)
		obj, ok := got.(literal.Object)
		require.True(t, ok)
		require.Len(t, obj, 2)
		assert.Equal(t, "zebra", obj[0].Key)
		assert.Equal(t, "alpha", obj[1].Key)
	})

	t.Run("object with string and numeric keys", func(t *testing.T) {
		got, err := literal.Evaluate(`{ "a-b": 1, 2: "x" }`)
		require.NoError(t, err)
		assert.Equal(t, literal.Object{
			{Key: "a-b", Val: literal.Number(1)},
			{Key: "2", Val: literal.String("x")},
		}, got)
	})

	t.Run("nested", func(t *testing.T) {
		got, err := literal.Evaluate(`{ list: [1, { deep: null }] }`)
		require.NoError(t, err)
		assert.Equal(t, literal.Object{
			{Key: "list", Val: literal.Array{
				literal.Number(1),
				literal.Object{{Key: "deep", Val: literal.Null{}}},
			}},
		}, got)
	})
}

func TestEvaluateRejections(t *testing.T) {
	// upstream classification never tags these as stringifiable; an error
	// here is the broken-invariant signal, not a bail
	rejected := []string{
		"foo()",
		"a + b",
		"window.location",
		"ident",
		"[1, foo()]",
		"{ a: bar }",
		"{ ...spread }",
		"() => 1",
		"1; 2",
		"",
		"new Date()",
		"`template`",
	}
	for _, src := range rejected {
		t.Run(src, func(t *testing.T) {
			_, err := literal.Evaluate(src)
			assert.Error(t, err)
		})
	}
}

func TestCanEvaluate(t *testing.T) {
	assert.True(t, literal.CanEvaluate("1"))
	assert.True(t, literal.CanEvaluate(`{ a: [1, 2] }`))
	assert.False(t, literal.CanEvaluate("fn()"))
	assert.False(t, literal.CanEvaluate("a.b"))
}

func TestIsStringLiteral(t *testing.T) {
	assert.True(t, literal.IsStringLiteral(`"abc"`))
	assert.True(t, literal.IsStringLiteral(`'abc'`))
	assert.True(t, literal.IsStringLiteral(`("abc")`))
	assert.False(t, literal.IsStringLiteral(`123`))
	assert.False(t, literal.IsStringLiteral(`true`))
	assert.False(t, literal.IsStringLiteral(`"a" + "b"`))
	assert.False(t, literal.IsStringLiteral(`ident`))
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name string
		val  literal.Value
		want string
	}{
		{"null is empty", literal.Null{}, ""},
		{"string verbatim", literal.String("a b"), "a b"},
		{"integer number", literal.Number(20), "20"},
		{"fractional number", literal.Number(1.5), "1.5"},
		{"true", literal.Bool(true), "true"},
		{"false", literal.Bool(false), "false"},
		{"empty array", literal.Array{}, "[]"},
		{"empty object", literal.Object{}, "{}"},
		{
			"array json",
			literal.Array{literal.Number(1), literal.String("x")},
			"[\n  1,\n  \"x\"\n]",
		},
		{
			"object json keeps order and indents",
			literal.Object{
				{Key: "zebra", Val: literal.Number(1)},
				{Key: "alpha", Val: literal.Object{{Key: "inner", Val: literal.Bool(false)}}},
			},
			"{\n  \"zebra\": 1,\n  \"alpha\": {\n    \"inner\": false\n  }\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.val.Display())
		})
	}
}

func TestEvaluateExpression(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		got, err := literal.EvaluateExpression(&ast.SimpleExpressionNode{Content: "42"})
		require.NoError(t, err)
		assert.Equal(t, literal.Number(42), got)
	})

	t.Run("compound", func(t *testing.T) {
		exp := &ast.CompoundExpressionNode{Children: []ast.Node{
			&ast.TextNode{Content: "count: "},
			&ast.InterpolationNode{Content: &ast.SimpleExpressionNode{Content: "2"}},
			&ast.TextNode{Content: " of "},
			&ast.SimpleExpressionNode{Content: `"ten"`},
		}}
		got, err := literal.EvaluateExpression(exp)
		require.NoError(t, err)
		assert.Equal(t, literal.String("count: 2 of ten"), got)
	})

	t.Run("compound propagates failure", func(t *testing.T) {
		exp := &ast.CompoundExpressionNode{Children: []ast.Node{
			&ast.InterpolationNode{Content: &ast.SimpleExpressionNode{Content: "call()"}},
		}}
		_, err := literal.EvaluateExpression(exp)
		assert.Error(t, err)
	})
}
