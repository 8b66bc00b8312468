// Package codegen renders static chunks into their final code form.
package codegen

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/Tomxuetao/vtc/internal/stringify"
)

var expMarkerRE = regexp.MustCompile(
	regexp.QuoteMeta(stringify.ExpMarkerStart) +
		`(.*?)` +
		regexp.QuoteMeta(stringify.ExpMarkerEnd))

// QuoteStatic returns chunk markup as a double-quoted JS string literal.
// Symbolic constant markers left by the renderer become live string
// concatenation, so references that only resolve at module load time
// (e.g. imported asset URLs) re-enter the expression.
func QuoteStatic(content string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// markup must stay readable; no < for angle brackets
	enc.SetEscapeHTML(false)
	if err := enc.Encode(content); err != nil {
		return `""`
	}
	quoted := strings.TrimSuffix(buf.String(), "\n")
	return expMarkerRE.ReplaceAllString(quoted, `" + $1 + "`)
}
