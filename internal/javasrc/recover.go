package javasrc

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"annocheck/internal/ast"
	"annocheck/internal/source"
)

// The grammar has no rule for an @interface that extends or implements
// types, declares type parameters or a constructor, or has attributes
// with parameters or type parameters. The compiler reports each of those
// as a dedicated problem, so recoverAnnotationTypes lifts them out of the
// text before parsing and typeDecl reattaches them to the declaration.
// Lifted bytes become spaces so every offset stays valid.

type recoveredType struct {
	superclass *ast.TypeRef
	interfaces []*ast.TypeRef
	typeParams []*ast.TypeParam
	ctors      []*ast.MethodDecl
	// members is keyed by the start offset of the attribute name.
	members map[uint32]*recoveredMember
}

type recoveredMember struct {
	params     []*ast.Param
	typeParams []*ast.TypeParam
}

type token struct {
	text       string
	start, end int
}

func (t token) ident() bool {
	r, _ := utf8.DecodeRuneInString(t.text)
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

// lexJava splits src into identifiers, numbers and punctuation. Comments,
// string, char and text block literals are dropped.
func lexJava(src []byte) []token {
	var out []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			i++
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := indexFrom(src, i+2, "*/")
			i = end + 2
		case c == '"' && strings.HasPrefix(string(src[i:min(i+3, len(src))]), `"""`):
			end := indexFrom(src, i+3, `"""`)
			i = end + 3
		case c == '"' || c == '\'':
			i = skipQuoted(src, i)
		case c >= '0' && c <= '9':
			start := i
			for i < len(src) && (isWordByte(src[i]) || src[i] == '.') {
				i++
			}
			out = append(out, token{string(src[start:i]), start, i})
		case c == '.' && i+2 < len(src) && src[i+1] == '.' && src[i+2] == '.':
			out = append(out, token{"...", i, i + 3})
			i += 3
		default:
			r, size := utf8.DecodeRune(src[i:])
			if r == '_' || r == '$' || unicode.IsLetter(r) {
				start := i
				for i < len(src) {
					r, size := utf8.DecodeRune(src[i:])
					if r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
						break
					}
					i += size
				}
				out = append(out, token{string(src[start:i]), start, i})
				continue
			}
			out = append(out, token{string(src[i : i+size]), i, i + size})
			i += size
		}
	}
	return out
}

func indexFrom(src []byte, from int, sep string) int {
	if from > len(src) {
		return len(src)
	}
	if j := strings.Index(string(src[from:]), sep); j >= 0 {
		return from + j
	}
	return len(src)
}

func skipQuoted(src []byte, i int) int {
	quote := src[i]
	for i++; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote, '\n':
			return i + 1
		}
	}
	return len(src)
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// recoverAnnotationTypes returns src with the unparseable parts of every
// @interface blanked, and what was lifted keyed by the name offset of the
// annotation type. src itself is not modified.
func (c *converter) recoverAnnotationTypes(src []byte) ([]byte, map[uint32]*recoveredType) {
	toks := lexJava(src)
	r := &recovery{c: c, toks: toks}
	for i := 0; i+2 < len(toks); i++ {
		if toks[i].text == "@" && toks[i+1].text == "interface" && toks[i].end == toks[i+1].start && toks[i+2].ident() {
			r.annotationType(i + 2)
		}
	}
	if len(r.found) == 0 {
		return src, nil
	}
	out := make([]byte, len(src))
	copy(out, src)
	for _, b := range r.blanks {
		for j := b[0]; j < b[1]; j++ {
			if out[j] != '\n' && out[j] != '\r' {
				out[j] = ' '
			}
		}
	}
	return out, r.found
}

type recovery struct {
	c      *converter
	toks   []token
	blanks [][2]int
	found  map[uint32]*recoveredType
}

func (r *recovery) span(start, end int) source.Span {
	// offsets come from a file whose length fits uint32
	return source.Span{File: r.c.file.ID, Start: uint32(start), End: uint32(end)} // #nosec G115
}

func (r *recovery) blank(from, to int) {
	r.blanks = append(r.blanks, [2]int{r.toks[from].start, r.toks[to].end})
}

func (r *recovery) text(from, to int) string {
	return strings.Join(strings.Fields(string(r.c.src[r.toks[from].start:r.toks[to].end])), " ")
}

func (r *recovery) typeRef(from, to int) *ast.TypeRef {
	ref := ast.ParseTypeRef(r.text(from, to))
	if ref != nil {
		ref.Span = r.span(r.toks[from].start, r.toks[to].end)
	}
	return ref
}

func (r *recovery) annotationType(name int) {
	toks := r.toks
	rt := &recoveredType{members: make(map[uint32]*recoveredMember)}
	lifted := false
	i := name + 1
	if i < len(toks) && toks[i].text == "<" {
		end := r.match(i, "<", ">")
		rt.typeParams = r.typeParams(i+1, end)
		r.blank(i, end)
		lifted = true
		i = end + 1
	}
	for i < len(toks) && (toks[i].text == "extends" || toks[i].text == "implements") {
		kw := i
		j := i + 1
		for j < len(toks) && toks[j].text != "{" && toks[j].text != "extends" && toks[j].text != "implements" {
			j++
		}
		refs := r.typeList(kw+1, j)
		if toks[kw].text == "extends" && len(refs) > 0 {
			rt.superclass = refs[0]
		} else {
			rt.interfaces = append(rt.interfaces, refs...)
		}
		if j > kw+1 {
			r.blank(kw, j-1)
		} else {
			r.blank(kw, kw)
		}
		lifted = true
		i = j
	}
	if i < len(toks) && toks[i].text == "{" {
		if r.body(toks[name].text, i, rt) {
			lifted = true
		}
	}
	if !lifted {
		return
	}
	if r.found == nil {
		r.found = make(map[uint32]*recoveredType)
	}
	r.found[uint32(toks[name].start)] = rt // #nosec G115
}

// body walks the member declarations between open and its closing brace.
func (r *recovery) body(typeName string, open int, rt *recoveredType) bool {
	toks := r.toks
	lifted := false
	i := open + 1
	for i < len(toks) && toks[i].text != "}" {
		end := r.memberEnd(i)
		if r.member(typeName, i, end, rt) {
			lifted = true
		}
		i = end + 1
	}
	return lifted
}

// memberEnd returns the index of the token closing the declaration that
// starts at i: its semicolon, or the brace closing its body.
func (r *recovery) memberEnd(i int) int {
	toks := r.toks
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].text {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case "{":
			if depth == 0 && (j == i || !initializerBrace(toks[j-1].text)) {
				return r.match(j, "{", "}")
			}
			depth++
		case "}":
			if depth == 0 {
				return j - 1
			}
			depth--
		case ";":
			if depth == 0 {
				return j
			}
		}
	}
	return len(toks) - 1
}

func initializerBrace(prev string) bool {
	switch prev {
	case "=", "default", ",", "(", "{":
		return true
	}
	return false
}

var memberModifiers = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"abstract": true, "final": true, "native": true, "synchronized": true,
	"transient": true, "volatile": true, "strictfp": true, "default": true,
}

// member lifts a constructor, attribute parameters and attribute type
// parameters from the declaration toks[from..to].
func (r *recovery) member(typeName string, from, to int, rt *recoveredType) bool {
	toks := r.toks
	k := r.skipAnnotations(from, to)
	if k > to || toks[k].text == "@" {
		return false
	}
	for k <= to && memberModifiers[toks[k].text] {
		k++
	}
	if k > to {
		return false
	}
	switch toks[k].text {
	case "class", "interface", "enum", "record":
		return false
	}

	tpFrom, tpTo := -1, -1
	if toks[k].text == "<" {
		tpFrom, tpTo = k, r.match(k, "<", ">")
		k = tpTo + 1
	}
	if k+1 <= to && toks[k].text == typeName && toks[k+1].text == "(" {
		ctor := &ast.MethodDecl{
			Name:        typeName,
			Constructor: true,
			Span:        r.span(toks[from].start, toks[to].end),
			NameSpan:    r.span(toks[k].start, toks[k].end),
		}
		rt.ctors = append(rt.ctors, ctor)
		r.blank(from, to)
		return true
	}

	open := -1
	for j := k; j <= to; j++ {
		if toks[j].text == "=" {
			return false
		}
		if toks[j].text == "(" {
			open = j
			break
		}
	}
	if open <= k || !toks[open-1].ident() {
		return false
	}
	nameTok := toks[open-1]
	closing := r.match(open, "(", ")")
	rm := &recoveredMember{}
	if closing > open+1 {
		if rm.params = r.params(open+1, closing-1); rm.params != nil {
			r.blank(open+1, closing-1)
		}
	}
	if tpFrom >= 0 {
		if rm.typeParams = r.typeParams(tpFrom+1, tpTo); rm.typeParams != nil {
			r.blank(tpFrom, tpTo)
		}
	}
	if rm.params == nil && rm.typeParams == nil {
		return false
	}
	rt.members[uint32(nameTok.start)] = rm // #nosec G115
	return true
}

// skipAnnotations returns the index of the first token in [i, to] that
// is not part of an annotation. @interface is not skipped.
func (r *recovery) skipAnnotations(i, to int) int {
	toks := r.toks
	for i+1 <= to && toks[i].text == "@" && toks[i+1].text != "interface" {
		i += 2
		for i+1 <= to && toks[i].text == "." && toks[i+1].ident() {
			i += 2
		}
		if i <= to && toks[i].text == "(" {
			i = r.match(i, "(", ")") + 1
		}
	}
	return i
}

// match returns the index of the token closing the bracket at open.
// Tokens past the end of the file close everything.
func (r *recovery) match(open int, left, right string) int {
	depth := 0
	for j := open; j < len(r.toks); j++ {
		switch r.toks[j].text {
		case left:
			depth++
		case right:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return len(r.toks) - 1
}

// split cuts [from, to] at top level commas.
func (r *recovery) split(from, to int) [][2]int {
	var out [][2]int
	depth := 0
	start := from
	for j := from; j <= to; j++ {
		switch r.toks[j].text {
		case "<", "(", "[":
			depth++
		case ">", ")", "]":
			depth--
		case ",":
			if depth == 0 {
				out = append(out, [2]int{start, j - 1})
				start = j + 1
			}
		}
	}
	if start <= to {
		out = append(out, [2]int{start, to})
	}
	return out
}

func (r *recovery) typeList(from, end int) []*ast.TypeRef {
	var out []*ast.TypeRef
	if end <= from {
		return nil
	}
	for _, part := range r.split(from, end-1) {
		if part[1] < part[0] {
			continue
		}
		if ref := r.typeRef(part[0], part[1]); ref != nil {
			out = append(out, ref)
		}
	}
	return out
}

// typeParams converts the type parameters between the angle brackets;
// to is the closing bracket.
func (r *recovery) typeParams(from, to int) []*ast.TypeParam {
	var out []*ast.TypeParam
	for _, part := range r.split(from, to-1) {
		k := r.skipAnnotations(part[0], part[1])
		if k > part[1] || !r.toks[k].ident() {
			continue
		}
		out = append(out, &ast.TypeParam{
			Name: norm.NFC.String(r.toks[k].text),
			Span: r.span(r.toks[part[0]].start, r.toks[part[1]].end),
		})
	}
	return out
}

func (r *recovery) params(from, to int) []*ast.Param {
	var out []*ast.Param
	for _, part := range r.split(from, to) {
		k := r.skipAnnotations(part[0], part[1])
		for k <= part[1] && r.toks[k].text == "final" {
			k++
		}
		last := part[1]
		if k >= last || !r.toks[last].ident() {
			continue
		}
		p := &ast.Param{
			Name: norm.NFC.String(r.toks[last].text),
			Span: r.span(r.toks[part[0]].start, r.toks[last].end),
		}
		typeEnd := last - 1
		if r.toks[typeEnd].text == "..." {
			p.Varargs = true
			typeEnd--
		}
		if typeEnd < k {
			continue
		}
		p.Type = r.typeRef(k, typeEnd)
		if p.Type != nil && p.Varargs {
			p.Type.Dims++
		}
		out = append(out, p)
	}
	return out
}

// attach copies what was lifted for decl back onto it.
func (rt *recoveredType) attach(decl *ast.TypeDecl) {
	if rt.superclass != nil {
		decl.Superclass = rt.superclass
	}
	decl.Interfaces = append(decl.Interfaces, rt.interfaces...)
	decl.TypeParams = append(decl.TypeParams, rt.typeParams...)
	for _, m := range decl.Methods {
		rm, ok := rt.members[m.NameSpan.Start]
		if !ok {
			continue
		}
		m.Params = append(m.Params, rm.params...)
		m.TypeParams = append(m.TypeParams, rm.typeParams...)
	}
	decl.Methods = append(decl.Methods, rt.ctors...)
}
