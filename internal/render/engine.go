// Package render compiles and executes logic-less, Mustache-style templates
// against a Value data model.
//
// Supported tags: {{name}} (escaped), {{{name}}} and {{&name}} (raw),
// {{#name}}...{{/name}} sections, {{^name}}...{{/name}} inverted sections and
// {{!comment}}. Names are dot separated paths; "." is the current context.
// A path that does not resolve renders as the empty string.
package render

import (
	"fmt"
	"html"
	"strings"
)

// Escape selects how interpolated values are escaped.
type Escape int

const (
	EscapeHTML Escape = iota
	EscapeNone
)

// ParseEscape maps a configuration string ("html" or "none") to an Escape.
func ParseEscape(s string) (Escape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html":
		return EscapeHTML, nil
	case "none", "raw":
		return EscapeNone, nil
	default:
		return EscapeHTML, fmt.Errorf("render: unknown escape mode %q", s)
	}
}

func (e Escape) String() string {
	if e == EscapeNone {
		return "none"
	}
	return "html"
}

// Engine renders template bodies. It holds no state besides its options and
// is safe for concurrent use.
type Engine struct {
	Escape Escape
}

// NewEngine returns an engine with the given escaping.
func NewEngine(escape Escape) *Engine {
	return &Engine{Escape: escape}
}

// Compile parses body into an executable program.
func (e *Engine) Compile(body string) (*Program, error) {
	p := &parser{src: body}
	nodes, err := p.parse("", 0)
	if err != nil {
		return nil, err
	}
	return &Program{nodes: nodes, escape: e.Escape}, nil
}

// Render compiles body and executes it against model. Nothing is cached
// between calls.
func (e *Engine) Render(body string, model Value) (string, error) {
	prog, err := e.Compile(body)
	if err != nil {
		return "", err
	}
	return prog.Execute(model), nil
}

var defaultEngine = Engine{Escape: EscapeHTML}

// Compile parses body with HTML escaping.
func Compile(body string) (*Program, error) { return defaultEngine.Compile(body) }

// Render renders body against model with HTML escaping.
func Render(body string, model Value) (string, error) { return defaultEngine.Render(body, model) }

// Program is a compiled template. It is immutable; Execute may be called
// concurrently with different models.
type Program struct {
	nodes  []node
	escape Escape
}

// Execute renders the program against model.
func (p *Program) Execute(model Value) string {
	var b strings.Builder
	p.exec(&b, p.nodes, []Value{model})
	return b.String()
}

func (p *Program) exec(b *strings.Builder, nodes []node, stack []Value) {
	for _, n := range nodes {
		switch n.kind {
		case textNode:
			b.WriteString(n.text)
		case varNode:
			v, _ := lookup(stack, n.path)
			text := v.Text()
			if !n.raw && p.escape == EscapeHTML {
				text = html.EscapeString(text)
			}
			b.WriteString(text)
		case sectionNode:
			v, ok := lookup(stack, n.path)
			if !ok || !v.truthy() {
				continue
			}
			if v.kind == KindSequence {
				for _, item := range v.seq {
					p.exec(b, n.children, append(stack, item))
				}
				continue
			}
			p.exec(b, n.children, append(stack, v))
		case invertedNode:
			v, ok := lookup(stack, n.path)
			if !ok || !v.truthy() {
				p.exec(b, n.children, stack)
			}
		}
	}
}

// lookup resolves path against the context stack. The first segment is
// searched from the innermost context outward; the rest descend from there.
func lookup(stack []Value, path []string) (Value, bool) {
	if len(path) == 0 {
		return stack[len(stack)-1], true
	}
	for i := len(stack) - 1; i >= 0; i-- {
		v, ok := stack[i].Field(path[0])
		if !ok {
			continue
		}
		for _, seg := range path[1:] {
			if v, ok = v.Field(seg); !ok {
				return Value{}, false
			}
		}
		return v, true
	}
	return Value{}, false
}
