package render

import (
	"errors"
	"fmt"
	"strings"
)

const (
	openDelim       = "{{"
	closeDelim      = "}}"
	openTripleDelim = "{{{"
	closeTriple     = "}}}"
)

// ErrSyntax is matched by every compile failure.
var ErrSyntax = errors.New("render: template syntax error")

// SyntaxError locates a compile failure in the template body.
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("render: syntax error at offset %d: %s", e.Offset, e.Reason)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

type nodeKind uint8

const (
	textNode nodeKind = iota
	varNode
	sectionNode
	invertedNode
)

type node struct {
	kind     nodeKind
	text     string
	path     []string // nil addresses the current context
	raw      bool
	children []node
}

type tag struct {
	sigil  byte
	name   string
	raw    bool
	offset int
}

type parser struct {
	src string
	pos int
}

// parse consumes nodes until the closing tag for section (or EOF at top level).
func (p *parser) parse(section string, sectionOffset int) ([]node, error) {
	var nodes []node
	for {
		idx := strings.Index(p.src[p.pos:], openDelim)
		if idx < 0 {
			if p.pos < len(p.src) {
				nodes = append(nodes, node{kind: textNode, text: p.src[p.pos:]})
			}
			p.pos = len(p.src)
			if section != "" {
				return nil, &SyntaxError{Offset: sectionOffset, Reason: fmt.Sprintf("unclosed section %q", section)}
			}
			return nodes, nil
		}
		start := p.pos + idx
		if start > p.pos {
			nodes = append(nodes, node{kind: textNode, text: p.src[p.pos:start]})
		}

		t, err := p.readTag(start)
		if err != nil {
			return nil, err
		}

		switch t.sigil {
		case '!':
			continue
		case '>':
			return nil, &SyntaxError{Offset: t.offset, Reason: "partials are not supported"}
		case '=':
			return nil, &SyntaxError{Offset: t.offset, Reason: "delimiter changes are not supported"}
		case '/':
			if section == "" {
				return nil, &SyntaxError{Offset: t.offset, Reason: fmt.Sprintf("unexpected closing tag %q", t.name)}
			}
			if t.name != section {
				return nil, &SyntaxError{Offset: t.offset, Reason: fmt.Sprintf("closing tag %q does not match section %q", t.name, section)}
			}
			return nodes, nil
		case '#', '^':
			path, err := parsePath(t)
			if err != nil {
				return nil, err
			}
			children, err := p.parse(t.name, t.offset)
			if err != nil {
				return nil, err
			}
			kind := sectionNode
			if t.sigil == '^' {
				kind = invertedNode
			}
			nodes = append(nodes, node{kind: kind, path: path, children: children})
		default:
			path, err := parsePath(t)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node{kind: varNode, path: path, raw: t.raw})
		}
	}
}

// readTag reads the tag starting at start and advances past it.
func (p *parser) readTag(start int) (tag, error) {
	if strings.HasPrefix(p.src[start:], openTripleDelim) {
		bodyStart := start + len(openTripleDelim)
		end := strings.Index(p.src[bodyStart:], closeTriple)
		if end < 0 {
			return tag{}, &SyntaxError{Offset: start, Reason: "unterminated tag"}
		}
		p.pos = bodyStart + end + len(closeTriple)
		return tag{sigil: '&', name: strings.TrimSpace(p.src[bodyStart : bodyStart+end]), raw: true, offset: start}, nil
	}

	bodyStart := start + len(openDelim)
	end := strings.Index(p.src[bodyStart:], closeDelim)
	if end < 0 {
		return tag{}, &SyntaxError{Offset: start, Reason: "unterminated tag"}
	}
	p.pos = bodyStart + end + len(closeDelim)

	content := strings.TrimSpace(p.src[bodyStart : bodyStart+end])
	if content == "" {
		return tag{}, &SyntaxError{Offset: start, Reason: "empty tag"}
	}
	switch content[0] {
	case '#', '^', '/', '!', '>', '=':
		return tag{sigil: content[0], name: strings.TrimSpace(content[1:]), offset: start}, nil
	case '&':
		return tag{sigil: '&', name: strings.TrimSpace(content[1:]), raw: true, offset: start}, nil
	default:
		return tag{name: content, offset: start}, nil
	}
}

func parsePath(t tag) ([]string, error) {
	if t.name == "." {
		return nil, nil
	}
	if t.name == "" {
		return nil, &SyntaxError{Offset: t.offset, Reason: "missing name"}
	}
	parts := strings.Split(t.name, ".")
	for _, part := range parts {
		if part == "" {
			return nil, &SyntaxError{Offset: t.offset, Reason: fmt.Sprintf("invalid path %q", t.name)}
		}
	}
	return parts, nil
}
