package assemble

import (
	"fmt"
	"math/rand"

	"github.com/testgen-lite/testgen/internal/bank"
	"github.com/testgen-lite/testgen/internal/expr"
)

// ParamValues is the concrete parameter set generated for one instance.
// Values are int64 for range and expression rules; literal rules may carry
// any JSON value. A JSON round trip may widen int64 to float64, which the
// renderer tolerates.
type ParamValues map[string]interface{}

// Instance is one placement of a question into a test. The same question id
// may appear in several instances, each with independently drawn randomness.
// VariantIndex and Params are fixed at creation and change only through
// Regenerate (variants only).
type Instance struct {
	QID          string      `json:"qid"`
	VariantIndex *int        `json:"variant_index,omitempty"`
	Params       ParamValues `json:"params,omitempty"`
}

// Generate draws the randomness for a fresh instance of q. The rng is the
// only source of randomness, so a fixed seed reproduces the result exactly.
// Variant selection and parameter generation are independent; a question may
// need either, both, or neither.
func Generate(q bank.QuestionDefinition, rng *rand.Rand) (Instance, error) {
	inst := Instance{QID: q.ID}
	if !q.Static && len(q.Variants) > 0 {
		idx := rng.Intn(len(q.Variants))
		inst.VariantIndex = &idx
	}
	if len(q.Params) > 0 {
		vals, err := GenerateParams(q.Params, rng)
		if err != nil {
			return Instance{QID: q.ID}, err
		}
		inst.Params = vals
	}
	return inst, nil
}

// GenerateParams resolves rules in declaration order. Expression rules see
// only the numeric values generated earlier in the same pass.
func GenerateParams(rules bank.ParamRules, rng *rand.Rand) (ParamValues, error) {
	vals := make(ParamValues, len(rules))
	nums := make(map[string]int64, len(rules))
	for _, r := range rules {
		switch {
		case r.IsRange:
			// Max >= Min is checked at parse time, so a non-positive span
			// means the width overflowed int64.
			span := r.Max - r.Min + 1
			if span <= 0 {
				return nil, fmt.Errorf("param %s: range [%d, %d] is too wide", r.Name, r.Min, r.Max)
			}
			v := r.Min + rng.Int63n(span)
			vals[r.Name] = v
			nums[r.Name] = v
		case r.Expr != "":
			v, err := expr.Eval(r.Expr, nums)
			if err != nil {
				return nil, fmt.Errorf("param %s: %w", r.Name, err)
			}
			vals[r.Name] = v
			nums[r.Name] = v
		default:
			vals[r.Name] = r.Literal
			if n, ok := asInt64(r.Literal); ok {
				nums[r.Name] = n
			}
		}
	}
	return vals, nil
}

// Regenerate redraws the variant index uniformly among the indices other
// than the current one. With fewer than two variants (or a static question)
// it is a no-op. Parameter sets are never regenerated.
func Regenerate(q bank.QuestionDefinition, inst *Instance, rng *rand.Rand) {
	if q.Static || len(q.Variants) < 2 {
		return
	}
	cur := -1
	if inst.VariantIndex != nil {
		cur = *inst.VariantIndex
	}
	if cur < 0 || cur >= len(q.Variants) {
		idx := rng.Intn(len(q.Variants))
		inst.VariantIndex = &idx
		return
	}
	// Draw from the n-1 other indices, shifting past the current one.
	idx := rng.Intn(len(q.Variants) - 1)
	if idx >= cur {
		idx++
	}
	inst.VariantIndex = &idx
}

func asInt64(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
	}
	return 0, false
}
