package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindDocument
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDocument:
		return "document"
	case KindSequence:
		return "sequence"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a data model node: null, string, number, bool, document or sequence.
// The zero Value is null. Values are immutable once built.
type Value struct {
	kind Kind
	str  string // string contents or the number's literal text
	b    bool
	doc  map[string]Value
	seq  []Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps s.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps f, formatted without exponent or trailing zeros. NaN and the
// infinities have no JSON form and become null.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, str: strconv.FormatFloat(f, 'f', -1, 64)}
}

// NumberLiteral keeps the literal text of a number exactly as supplied, e.g. "12.50".
func NumberLiteral(lit string) Value { return Value{kind: KindNumber, str: lit} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Document builds a document from fields. The map is copied.
func Document(fields map[string]Value) Value {
	doc := make(map[string]Value, len(fields))
	for k, v := range fields {
		doc[k] = v
	}
	return Value{kind: KindDocument, doc: doc}
}

// Sequence builds a sequence from items. The slice is copied.
func Sequence(items ...Value) Value {
	seq := make([]Value, len(items))
	copy(seq, items)
	return Value{kind: KindSequence, seq: seq}
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// Field returns the named field of a document. Any other kind has no fields.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindDocument {
		return Value{}, false
	}
	f, ok := v.doc[name]
	return f, ok
}

// Len is the number of elements of a sequence or fields of a document.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindDocument:
		return len(v.doc)
	default:
		return 0
	}
}

// Index returns the i-th element of a sequence, or null when out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return Value{}
	}
	return v.seq[i]
}

// Text is the interpolated form of the value. Null, documents and sequences
// interpolate as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindString, KindNumber:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// truthy decides whether a section renders.
func (v Value) truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindSequence:
		return len(v.seq) > 0
	default:
		return true
	}
}

// FromAny converts decoded JSON/YAML style Go data into a Value.
// Unknown types are formatted with fmt and treated as strings.
func FromAny(in any) Value {
	switch x := in.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case json.Number:
		return NumberLiteral(x.String())
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return NumberLiteral(strconv.FormatInt(int64(x), 10))
	case int32:
		return NumberLiteral(strconv.FormatInt(int64(x), 10))
	case int64:
		return NumberLiteral(strconv.FormatInt(x, 10))
	case uint:
		return NumberLiteral(strconv.FormatUint(uint64(x), 10))
	case uint64:
		return NumberLiteral(strconv.FormatUint(x, 10))
	case map[string]any:
		doc := make(map[string]Value, len(x))
		for k, v := range x {
			doc[k] = FromAny(v)
		}
		return Value{kind: KindDocument, doc: doc}
	case map[string]string:
		doc := make(map[string]Value, len(x))
		for k, v := range x {
			doc[k] = String(v)
		}
		return Value{kind: KindDocument, doc: doc}
	case []any:
		seq := make([]Value, len(x))
		for i, v := range x {
			seq[i] = FromAny(v)
		}
		return Value{kind: KindSequence, seq: seq}
	case []string:
		seq := make([]Value, len(x))
		for i, v := range x {
			seq[i] = String(v)
		}
		return Value{kind: KindSequence, seq: seq}
	case []map[string]any:
		seq := make([]Value, len(x))
		for i, v := range x {
			seq[i] = FromAny(v)
		}
		return Value{kind: KindSequence, seq: seq}
	default:
		return String(fmt.Sprint(x))
	}
}

// ParseJSON decodes a JSON document into a Value. Empty input yields null.
// Numbers keep their literal text.
func ParseJSON(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("render: decode model: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("render: decode model: trailing data after document")
	}
	return FromAny(raw), nil
}

// UnmarshalJSON lets request payloads carry a Value directly.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON encodes the value back to JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if !json.Valid([]byte(v.str)) {
			return nil, fmt.Errorf("render: number literal %q is not valid JSON", v.str)
		}
		return []byte(v.str), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindDocument:
		return json.Marshal(v.doc)
	case KindSequence:
		return json.Marshal(v.seq)
	default:
		return []byte("null"), nil
	}
}
