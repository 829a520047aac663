// Package export renders an instance sequence into the two Markdown
// documents the tool produces: the test itself and its answer key.
package export

import (
	"fmt"
	"strings"

	"github.com/testgen-lite/testgen/internal/assemble"
	"github.com/testgen-lite/testgen/internal/bank"
)

// unavailable stands in for a question whose resolution failed. A single
// malformed definition must not abort the whole export.
const unavailable = "_unavailable_"

// RenderTest writes the numbered test document. Instances whose definition
// is no longer in the bank are skipped; numbering counts only rendered
// entries. Content is resolved fresh on every call.
func RenderTest(store *bank.Store, seq assemble.Sequence) string {
	var b strings.Builder
	b.WriteString("# Test\n\n")
	n := 0
	for _, inst := range seq {
		q, ok := store.Lookup(inst.QID)
		if !ok {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. (%d pts) %s\n\n", n, q.Points, resolvedText(q, inst))
	}
	return b.String()
}

// RenderKey writes the answer key: the same numbering as RenderTest with the
// solution beneath each entry.
func RenderKey(store *bank.Store, seq assemble.Sequence) string {
	var b strings.Builder
	b.WriteString("# Answer Key\n\n")
	n := 0
	for _, inst := range seq {
		q, ok := store.Lookup(inst.QID)
		if !ok {
			continue
		}
		n++
		text, solution := unavailable, unavailable
		if r, err := assemble.Resolve(q, inst); err == nil {
			text, solution = r.Text, r.Solution
		}
		fmt.Fprintf(&b, "%d. (%d pts) %s\n\n", n, q.Points, text)
		fmt.Fprintf(&b, "**Solution:** %s\n\n", solution)
	}
	return b.String()
}

func resolvedText(q bank.QuestionDefinition, inst assemble.Instance) string {
	r, err := assemble.Resolve(q, inst)
	if err != nil {
		return unavailable
	}
	return r.Text
}
