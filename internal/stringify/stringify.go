// Package stringify merges contiguous runs of cached static siblings into
// single pre-rendered markup chunks. It runs after the cache pass has
// attached CacheExpressions to static subtrees; merged runs collapse into
// one StaticChunkCall and their now-redundant cache slots are renumbered
// away in the same step.
package stringify

import (
	"strings"

	"github.com/Tomxuetao/vtc/internal/ast"
)

// Merging only pays off past a minimum run size: below these counts the
// fixed cost of building and later re-parsing a markup blob exceeds the cost
// of keeping the siblings individually compiled.
const (
	minNodeCount       = 20
	minBindingElements = 5
)

// Context carries the compilation-wide state the pass reads and mutates
type Context struct {
	// Cached is the compilation-wide cache list, ordered by slot index
	Cached *[]*ast.CacheExpression
	// ScopeID is the style-scoping token appended to emitted elements,
	// empty when the compilation unit is unscoped
	ScopeID string
	// SlotDepth is non-zero inside slot content, which is rendered
	// per-instance and must never collapse into shared literal markup
	SlotDepth int
}

// Run scans one sibling list and replaces every maximal eligible run that
// meets the merge thresholds with a StaticChunkCall, splicing the sibling
// list and the cache list together in place. listCached indicates the whole
// sibling list is itself the value of one enclosing CacheExpression, in
// which case every sibling is a merge candidate and no per-node cache
// bookkeeping applies.
func Run(children *[]ast.Node, cx *Context, listCached bool) error {
	if cx.SlotDepth > 0 {
		return nil
	}

	nc := 0
	ec := 0
	var chunk []ast.Node

	// flush merges the buffered run ending just before index i and returns
	// how many siblings were removed from the list
	flush := func(i int) (int, error) {
		if nc < minNodeCount && ec < minBindingElements {
			return 0, nil
		}

		var sb strings.Builder
		for _, n := range chunk {
			s, err := stringifyNode(n, cx)
			if err != nil {
				return 0, err
			}
			sb.WriteString(s)
		}
		call := &ast.StaticChunkCall{Content: sb.String(), NodeCount: len(chunk)}
		deleteCount := len(chunk) - 1

		if listCached {
			// the CacheExpression belongs to the whole list; swap the run
			// for the chunk call directly
			list := *children
			start := i - len(chunk)
			rest := append([]ast.Node{call}, list[i:]...)
			*children = append(list[:start], rest...)
			return deleteCount, nil
		}

		// the first node of the run owns the cache slot that survives
		first := ast.CachedNode(chunk[0])
		first.Value = call

		if deleteCount > 0 {
			list := *children
			*children = append(list[:i-deleteCount], list[i:]...)

			// renumber and splice the cache list in the same step, keeping
			// slot order consistent with the shortened sibling list
			last := ast.CachedNode(chunk[len(chunk)-1])
			cached := *cx.Cached
			pos := cacheIndexOf(cached, last)
			if pos > -1 {
				for j := pos; j < len(cached); j++ {
					cached[j].Index -= deleteCount
				}
				*cx.Cached = append(cached[:pos-deleteCount+1], cached[pos+1:]...)
			}
		}
		return deleteCount, nil
	}

	i := 0
	for ; i < len(*children); i++ {
		child := (*children)[i]
		if listCached || ast.CachedNode(child) != nil {
			if cn, cb, ok := analyzeNode(child); ok {
				nc += cn
				ec += cb
				chunk = append(chunk, child)
				continue
			}
		}
		// hit a node that cannot join the run: close it out
		d, err := flush(i)
		if err != nil {
			return err
		}
		i -= d
		nc, ec, chunk = 0, 0, chunk[:0]
	}

	// the list may have ended mid-run
	_, err := flush(i)
	return err
}

func cacheIndexOf(cached []*ast.CacheExpression, target *ast.CacheExpression) int {
	for i, c := range cached {
		if c == target {
			return i
		}
	}
	return -1
}
