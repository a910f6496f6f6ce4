package typesystem

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseType parses a nominal type expression such as
// "List<Map<String, Integer>>[]" or "Comparable<? super T>".
// Names are resolved with r; unknown single upper-case letters become type
// variables and other unknown names become unresolved placeholders.
// Union and least-upper-bound types are never produced.
func ParseType(r Resolver, text string) (*Nominal, error) {
	p := &typeParser{r: r, src: text}
	p.next()
	n, err := p.parseNominal()
	if err != nil {
		return nil, err
	}
	if p.tok != "" {
		return nil, p.errorf("unexpected %q", p.tok)
	}
	return n, nil
}

type typeParser struct {
	r   Resolver
	src string
	pos int
	tok string
}

func (p *typeParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("parse type %q at %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

// next advances to the next token: an identifier, or one of < > , [ ] ? &.
func (p *typeParser) next() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
	if p.pos >= len(p.src) {
		p.tok = ""
		return
	}
	start := p.pos
	c := rune(p.src[p.pos])
	if strings.ContainsRune("<>,[]?&", c) {
		p.pos++
		p.tok = p.src[start:p.pos]
		return
	}
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '.' || c == '$') {
			break
		}
		p.pos++
	}
	if p.pos == start {
		p.pos++
	}
	p.tok = p.src[start:p.pos]
}

func (p *typeParser) expect(tok string) error {
	if p.tok != tok {
		return p.errorf("expected %q, got %q", tok, p.tok)
	}
	p.next()
	return nil
}

func (p *typeParser) parseNominal() (*Nominal, error) {
	name := p.tok
	if name == "" || strings.ContainsAny(name, "<>,[]?&") {
		return nil, p.errorf("expected type name, got %q", name)
	}
	p.next()
	n := p.resolve(name)
	if p.tok == "<" {
		p.next()
		var args []*GenericParam
		for {
			arg, err := p.parseGeneric()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok != "," {
				break
			}
			p.next()
		}
		if err := p.expect(">"); err != nil {
			return nil, err
		}
		n = Parameterize(n, args...)
	}
	for p.tok == "[" {
		p.next()
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		n = ArrayOf(n)
	}
	return n, nil
}

func (p *typeParser) parseGeneric() (*GenericParam, error) {
	if p.tok == "?" {
		p.next()
		g := &GenericParam{Type: ObjectType, Wildcard: true}
		switch p.tok {
		case "extends":
			p.next()
			bounds, err := p.parseBounds()
			if err != nil {
				return nil, err
			}
			g.Upper = bounds
		case "super":
			p.next()
			lower, err := p.parseNominal()
			if err != nil {
				return nil, err
			}
			g.Lower = lower
		}
		return g, nil
	}
	t, err := p.parseNominal()
	if err != nil {
		return nil, err
	}
	g := &GenericParam{Type: t, Placeholder: t.Placeholder}
	if t.Placeholder && p.tok == "extends" {
		p.next()
		bounds, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		g.Upper = bounds
	}
	return g, nil
}

func (p *typeParser) parseBounds() ([]Type, error) {
	var bounds []Type
	for {
		b, err := p.parseNominal()
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, b)
		if p.tok != "&" {
			return bounds, nil
		}
		p.next()
	}
}

func (p *typeParser) resolve(name string) *Nominal {
	if code, ok := primitiveCodes[name]; ok {
		return primitivesByCode[code]
	}
	if p.r != nil {
		if n, ok := p.r.Resolve(name); ok {
			return n
		}
	}
	if len(name) == 1 && unicode.IsUpper(rune(name[0])) {
		return TypeVar(name)
	}
	return Unresolved(name)
}
