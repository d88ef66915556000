package dendrite

import "strings"

// Value is a reconstructed command selection for schemas that have no Go
// type behind them
type Value struct {
	Type    string `json:"type"`
	Variant string `json:"variant,omitempty"`
	Payload *Value `json:"payload,omitempty"`
}

// Variants returns the chain of selected member identifiers
func (v *Value) Variants() []string {
	var out []string
	for cur := v; cur != nil && cur.Variant != ""; cur = cur.Payload {
		out = append(out, cur.Variant)
	}
	return out
}

// String renders the value as Type::Variant(Payload)
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(v.Type)
	if v.Variant != "" {
		b.WriteString("::")
		b.WriteString(v.Variant)
		if v.Payload != nil {
			b.WriteString("(")
			b.WriteString(v.Payload.String())
			b.WriteString(")")
		}
	}
	return b.String()
}
