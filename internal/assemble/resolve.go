package assemble

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/testgen-lite/testgen/internal/bank"
)

// ErrUnresolvedPlaceholder marks a template placeholder with no generated
// parameter behind it.
var ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")

// ResolvedQuestion is the concrete text/solution pair for one instance. It
// is derived on every render and never stored, so it always reflects the
// instance's current randomness.
type ResolvedQuestion struct {
	Text     string `json:"text"`
	Solution string `json:"solution"`
}

var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Resolve computes the concrete content for inst. Pure and idempotent: the
// same (question, instance) pair always yields identical output.
//
// Precedence: the question's own text/solution is the base; a stored
// in-bounds variant index overrides it field by field; generated params plus
// a template override that. Missing everything resolves to empty strings.
func Resolve(q bank.QuestionDefinition, inst Instance) (ResolvedQuestion, error) {
	text, solution := q.Text, q.Solution

	if !q.Static && len(q.Variants) > 0 && inst.VariantIndex != nil {
		if i := *inst.VariantIndex; i >= 0 && i < len(q.Variants) {
			v := q.Variants[i]
			if v.Text != "" {
				text = v.Text
			}
			if v.Solution != "" {
				solution = v.Solution
			}
		}
	}

	if !q.Static && len(inst.Params) > 0 {
		if q.TextTemplate != "" {
			t, err := renderTemplate(q.TextTemplate, inst.Params)
			if err != nil {
				return ResolvedQuestion{}, fmt.Errorf("question %s: text: %w", q.ID, err)
			}
			text = t
		}
		if q.SolutionTemplate != "" {
			s, err := renderTemplate(q.SolutionTemplate, inst.Params)
			if err != nil {
				return ResolvedQuestion{}, fmt.Errorf("question %s: solution: %w", q.ID, err)
			}
			solution = s
		}
	}

	return ResolvedQuestion{Text: text, Solution: solution}, nil
}

// renderTemplate substitutes each {name} placeholder with the parameter's
// string form.
func renderTemplate(tpl string, params ParamValues) (string, error) {
	var missing string
	out := placeholderRe.ReplaceAllStringFunc(tpl, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := params[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return formatValue(v)
	})
	if missing != "" {
		return "", fmt.Errorf("%w: {%s}", ErrUnresolvedPlaceholder, missing)
	}
	return out, nil
}

// formatValue renders a parameter for substitution. Integral floats (the
// result of a JSON round trip) print without a decimal point.
func formatValue(v interface{}) string {
	switch t := v.(type) {
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
