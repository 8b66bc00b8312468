// Package literal evaluates pre-classified constant expressions to literal
// values. Inputs are expressions the upstream constant classification already
// proved side-effect-free and literalizable; anything else is rejected with
// an error, which callers treat as a compiler defect rather than user input.
package literal

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is the closed variant of literal values the evaluator can produce:
// numbers, strings, booleans, null, arrays and plain objects. Keeping the
// variant closed is what makes the injection-safety invariant structural
// rather than documented.
type Value interface {
	// Display formats the value the way it appears in rendered text:
	// null renders empty, strings render verbatim, numbers render with
	// minimal digits, arrays and objects render as 2-space-indented JSON
	// preserving key order.
	Display() string

	isValue()
}

// Number is a numeric literal
type Number float64

// String is a string literal
type String string

// Bool is a boolean literal
type Bool bool

// Null covers both null and undefined
type Null struct{}

// Array is an array literal
type Array []Value

// Field is one key/value entry of an Object, in source order
type Field struct {
	Key string
	Val Value
}

// Object is an object literal with insertion-ordered fields
type Object []Field

func (Number) isValue() {}
func (String) isValue() {}
func (Bool) isValue()   {}
func (Null) isValue()   {}
func (Array) isValue()  {}
func (Object) isValue() {}

// Truthy reports the boolean coercion of a value: false for null, false,
// zero and the empty string, true otherwise (arrays and objects are always
// truthy)
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(t)
	case Number:
		return t != 0
	case String:
		return t != ""
	default:
		return true
	}
}

// FormatNumber renders a float with the fewest digits that round-trip
func FormatNumber(f float64) string {
	if math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Display implements Value
func (n Number) Display() string { return FormatNumber(float64(n)) }

// Display implements Value
func (s String) Display() string { return string(s) }

// Display implements Value
func (b Bool) Display() string {
	if b {
		return "true"
	}
	return "false"
}

// Display implements Value
func (Null) Display() string { return "" }

// Display implements Value
func (a Array) Display() string {
	var sb strings.Builder
	writeJSON(&sb, a, 0)
	return sb.String()
}

// Display implements Value
func (o Object) Display() string {
	var sb strings.Builder
	writeJSON(&sb, o, 0)
	return sb.String()
}

// writeJSON renders a value as indented JSON. Object fields keep their
// source order, which encoding/json maps cannot do.
func writeJSON(sb *strings.Builder, v Value, depth int) {
	switch t := v.(type) {
	case Null:
		sb.WriteString("null")
	case Bool:
		if t {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Number:
		sb.WriteString(FormatNumber(float64(t)))
	case String:
		sb.WriteString(quoteJSON(string(t)))
	case Array:
		if len(t) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteString("[\n")
		for i, el := range t {
			writeIndent(sb, depth+1)
			writeJSON(sb, el, depth+1)
			if i < len(t)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		writeIndent(sb, depth)
		sb.WriteString("]")
	case Object:
		if len(t) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{\n")
		for i, f := range t {
			writeIndent(sb, depth+1)
			sb.WriteString(quoteJSON(f.Key))
			sb.WriteString(": ")
			writeJSON(sb, f.Val, depth+1)
			if i < len(t)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		writeIndent(sb, depth)
		sb.WriteString("}")
	}
}

func writeIndent(sb *strings.Builder, depth int) {
	for range depth {
		sb.WriteString("  ")
	}
}

func quoteJSON(s string) string {
	raw, err := json.Marshal(s)
	if err != nil {
		// strings always marshal
		return strconv.Quote(s)
	}
	return string(raw)
}
