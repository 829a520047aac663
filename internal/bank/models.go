package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind labels used by filters and API responses. A question is static unless
// the bank says otherwise; static questions always render their own text and
// solution, dynamic ones render a variant or a parameter template.
const (
	KindStatic  = "static"
	KindDynamic = "dynamic"
)

// UntitledTopic is the display label for questions with no topic.
const UntitledTopic = "Untitled"

// Variant is a pre-authored alternate text/solution pair for a dynamic
// question. Missing fields fall back to the question's own text/solution.
type Variant struct {
	Text     string `json:"text,omitempty"`
	Solution string `json:"solution,omitempty"`
}

// ParamRule is one named generation rule. Exactly one form applies:
// a range rule draws a uniform integer in [Min, Max], an expression rule
// evaluates Expr over parameters generated earlier in the same pass, and
// anything else is a literal copied verbatim.
type ParamRule struct {
	Name    string
	IsRange bool
	Min     int64
	Max     int64
	Expr    string
	Literal interface{}
}

// ParamRules preserves the JSON object's declaration order. Order is load
// bearing: expression rules may reference any parameter declared before them
// and nothing after.
type ParamRules []ParamRule

func (p *ParamRules) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("params: expected object, got %v", tok)
	}

	rules := ParamRules{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("params: bad key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		rule, err := parseParamRule(name, raw)
		if err != nil {
			return err
		}
		rules = append(rules, rule)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return err
	}
	*p = rules
	return nil
}

// MarshalJSON writes rules back as an object in declaration order.
func (p ParamRules) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		var val interface{}
		switch {
		case r.IsRange:
			val = map[string]int64{"min": r.Min, "max": r.Max}
		case r.Expr != "":
			val = map[string]string{"expr": r.Expr}
		default:
			val = r.Literal
		}
		vb, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func parseParamRule(name string, raw json.RawMessage) (ParamRule, error) {
	rule := ParamRule{Name: name}

	var obj struct {
		Min  *json.Number `json:"min"`
		Max  *json.Number `json:"max"`
		Expr *string      `json:"expr"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Min != nil && obj.Max != nil {
			lo, errLo := obj.Min.Int64()
			hi, errHi := obj.Max.Int64()
			if errLo != nil || errHi != nil {
				return rule, fmt.Errorf("params: %s: min/max must be integers", name)
			}
			if hi < lo {
				return rule, fmt.Errorf("params: %s: max %d below min %d", name, hi, lo)
			}
			rule.IsRange = true
			rule.Min, rule.Max = lo, hi
			return rule, nil
		}
		if obj.Expr != nil {
			rule.Expr = *obj.Expr
			return rule, nil
		}
	}

	// Anything else is a literal, copied verbatim.
	var lit interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&lit); err != nil {
		return rule, err
	}
	rule.Literal = normalizeLiteral(lit)
	return rule, nil
}

// normalizeLiteral turns json.Number into int64 where possible so literals
// behave like generated integers in expressions and templates.
func normalizeLiteral(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []interface{}:
		for i := range t {
			t[i] = normalizeLiteral(t[i])
		}
		return t
	case map[string]interface{}:
		for k := range t {
			t[k] = normalizeLiteral(t[k])
		}
		return t
	default:
		return v
	}
}

// QuestionDefinition is one bank entry. Definitions are immutable after load.
type QuestionDefinition struct {
	ID               string     `json:"id"`
	Text             string     `json:"text,omitempty"`
	Solution         string     `json:"solution,omitempty"`
	TextTemplate     string     `json:"text_template,omitempty"`
	SolutionTemplate string     `json:"solution_template,omitempty"`
	Topics           []string   `json:"topics,omitempty"`
	Courses          []string   `json:"courses,omitempty"`
	QTypes           []string   `json:"qtypes,omitempty"`
	Static           bool       `json:"static"`
	Variants         []Variant  `json:"variants,omitempty"`
	Params           ParamRules `json:"params,omitempty"`
	Points           int        `json:"points,omitempty"`
}

func (q *QuestionDefinition) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID               string     `json:"id"`
		Text             string     `json:"text"`
		Solution         string     `json:"solution"`
		TextTemplate     string     `json:"text_template"`
		SolutionTemplate string     `json:"solution_template"`
		Topic            string     `json:"topic"` // legacy singular form
		Topics           []string   `json:"topics"`
		Courses          []string   `json:"courses"`
		QTypes           []string   `json:"qtypes"`
		Static           *bool      `json:"static"`
		Variants         []Variant  `json:"variants"`
		Params           ParamRules `json:"params"`
		Points           int        `json:"points"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	q.ID = raw.ID
	q.Text = raw.Text
	q.Solution = raw.Solution
	q.TextTemplate = raw.TextTemplate
	q.SolutionTemplate = raw.SolutionTemplate
	q.Topics = raw.Topics
	if len(q.Topics) == 0 && raw.Topic != "" {
		q.Topics = []string{raw.Topic}
	}
	q.Courses = raw.Courses
	q.QTypes = raw.QTypes
	q.Static = raw.Static == nil || *raw.Static
	q.Variants = raw.Variants
	q.Params = raw.Params
	q.Points = raw.Points
	return nil
}

// Kind returns the filter label for the static flag.
func (q QuestionDefinition) Kind() string {
	if q.Static {
		return KindStatic
	}
	return KindDynamic
}

// TopicLabel is the display topic, "Untitled" when none is set.
func (q QuestionDefinition) TopicLabel() string {
	if len(q.Topics) == 0 {
		return UntitledTopic
	}
	return q.Topics[0]
}
