package suppress

import "annocheck/internal/source"

// Token is one string written in a @SuppressWarnings value.
type Token struct {
	Text string
	Span source.Span
}

// Unused is a token of a left frame that silenced nothing.
type Unused struct {
	Token
	Irritants IrritantSet
	// UnderAll is set when an enclosing frame declares "all".
	UnderAll bool
}

// Frame is one @SuppressWarnings scope.
type Frame struct {
	own      IrritantSet
	resolved IrritantSet
	found    IrritantSet
	tokens   []frameToken
	all      bool
}

type frameToken struct {
	Token
	set IrritantSet
}

// Own returns the irritants contributed by the frame's own tokens.
func (f *Frame) Own() IrritantSet { return f.own }

// Resolved returns own plus every enclosing frame's irritants.
func (f *Frame) Resolved() IrritantSet { return f.resolved }

// Stack holds the active frames of one declaration walk.
type Stack struct {
	frames []*Frame
}

func NewStack() *Stack {
	return &Stack{}
}

// Depth returns the number of active frames.
func (s *Stack) Depth() int { return len(s.frames) }

// Enter pushes a frame for tokens and returns the unsupported ones.
// A declaration without @SuppressWarnings still enters an empty frame so
// Enter/Leave stay paired with the walk.
func (s *Stack) Enter(tokens []Token) []Token {
	f := &Frame{}
	if n := len(s.frames); n > 0 {
		f.resolved = s.frames[n-1].resolved
	}
	var unsupported []Token
	for _, tok := range tokens {
		set, ok := TokenIrritants(tok.Text)
		if !ok {
			unsupported = append(unsupported, tok)
			continue
		}
		if tok.Text == TokenAll {
			f.all = true
		}
		f.own = f.own.Union(set)
		f.tokens = append(f.tokens, frameToken{Token: tok, set: set})
	}
	f.resolved = f.resolved.Union(f.own)
	s.frames = append(s.frames, f)
	return unsupported
}

// IsSuppressed reports whether irritant is in the innermost resolved set.
func (s *Stack) IsSuppressed(i Irritant) bool {
	n := len(s.frames)
	if n == 0 || i == NoIrritant {
		return false
	}
	return s.frames[n-1].resolved.Has(i)
}

// Record credits the outermost frame whose own tokens name i. It returns
// false when no active frame suppresses i.
func (s *Stack) Record(i Irritant) bool {
	for _, f := range s.frames {
		if f.own.Has(i) {
			f.found = f.found.With(i)
			return true
		}
	}
	return false
}

// Suppress is IsSuppressed followed by Record.
func (s *Stack) Suppress(i Irritant) bool {
	if !s.IsSuppressed(i) {
		return false
	}
	return s.Record(i)
}

// Leave pops the innermost frame and returns its tokens that suppressed
// nothing while it was active. "all" is never returned.
func (s *Stack) Leave() []Unused {
	n := len(s.frames)
	if n == 0 {
		return nil
	}
	f := s.frames[n-1]
	s.frames = s.frames[:n-1]

	underAll := false
	for _, anc := range s.frames {
		if anc.all {
			underAll = true
			break
		}
	}

	var unused []Unused
	for _, tok := range f.tokens {
		if tok.Text == TokenAll {
			continue
		}
		if tok.set.Intersects(f.found) {
			continue
		}
		unused = append(unused, Unused{Token: tok.Token, Irritants: tok.set, UnderAll: underAll})
	}
	return unused
}
