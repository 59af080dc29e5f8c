package ast

import "strings"

// ParseTypeRef parses a type written in Java syntax, e.g.
// "Class<? extends Throwable>[]" or "java.util.Map<K, V>". Spans are left
// empty. It returns nil for an empty string.
func ParseTypeRef(s string) *TypeRef {
	p := typeRefParser{src: strings.TrimSpace(s)}
	if p.src == "" {
		return nil
	}
	return p.parse()
}

type typeRefParser struct {
	src string
	pos int
}

func (p *typeRefParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeRefParser) peek() byte {
	p.skipSpace()
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *typeRefParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '<' || c == '>' || c == ',' || c == '[' || c == ']' || c == ' ' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeRefParser) keyword(kw string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], kw+" ") {
		p.pos += len(kw)
		return true
	}
	return false
}

func (p *typeRefParser) parse() *TypeRef {
	ref := &TypeRef{}
	if p.peek() == '?' {
		p.pos++
		ref.Name = "?"
		switch {
		case p.keyword("extends"):
			ref.Upper = true
			ref.Bound = p.parse()
		case p.keyword("super"):
			ref.Bound = p.parse()
		}
		return ref
	}
	ref.Name = p.ident()
	if p.peek() == '<' {
		p.pos++
		if p.peek() == '>' {
			ref.Diamond = true
		}
		for p.peek() != '>' && p.peek() != 0 {
			ref.Args = append(ref.Args, p.parse())
			if p.peek() == ',' {
				p.pos++
			}
		}
		if p.peek() == '>' {
			p.pos++
		}
	}
	for p.peek() == '[' {
		p.pos++
		if p.peek() == ']' {
			p.pos++
		}
		ref.Dims++
	}
	return ref
}
