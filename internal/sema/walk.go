package sema

import (
	"strconv"

	"annocheck/internal/ast"
	"annocheck/internal/consteval"
	"annocheck/internal/diag"
	"annocheck/internal/source"
	"annocheck/internal/suppress"
	"annocheck/internal/symbols"
	"annocheck/internal/types"
)

// Result is what checking one unit produces.
type Result struct {
	Unit        *ast.CompilationUnit
	Diagnostics *diag.Bag
	// Annotations are the CLASS and RUNTIME annotations of the unit's
	// declarations, in walk order.
	Annotations []*ResolvedAnnotation
	// MandatoryErrors is set when the unit has problems that cannot be
	// configured away; its unused @SuppressWarnings tokens are then not
	// reported.
	MandatoryErrors bool
}

// walker visits the declarations of one unit. Every declaration that may
// carry @SuppressWarnings gets a frame on stack for the whole of its walk.
type walker struct {
	c     *Checker
	unit  *ast.CompilationUnit
	stack *suppress.Stack
	ev    *consteval.Evaluator
	// quiet folds @SuppressWarnings values before the frame they open is
	// entered; its problems are reported by ev later.
	quiet *consteval.Evaluator
	bag   *diag.Bag

	mandatory bool
	unused    []suppress.Unused
	retained  []*ResolvedAnnotation
	literals  []bool
}

// Check validates every declaration and annotation of u. Distinct units
// may be checked concurrently once registration is complete.
func (c *Checker) Check(u *ast.CompilationUnit) *Result {
	w := &walker{
		c:         c,
		unit:      u,
		stack:     suppress.NewStack(),
		quiet:     consteval.New(c.table, nil),
		bag:       diag.NewBag(0),
		mandatory: u.SyntaxErrors > 0,
		literals:  make([]bool, len(u.Literals)),
	}
	w.ev = consteval.New(c.table, w.nestedAnnotation)

	w.unitLevel()
	for _, decl := range u.Types {
		w.typeDecl(decl)
	}
	w.literalsIn(u.Span, true)
	w.finish()

	return &Result{
		Unit:            u,
		Diagnostics:     w.bag,
		Annotations:     w.retained,
		MandatoryErrors: w.mandatory,
	}
}

// report runs one problem through the severity pipeline: configured
// severity, then @SuppressWarnings, then the bag.
func (w *walker) report(code diag.Code, span source.Span, args ...string) {
	w.reportNotes(code, span, nil, args...)
}

// reportNotes is report with related locations attached.
func (w *walker) reportNotes(code diag.Code, span source.Span, notes []diag.Note, args ...string) {
	opts := w.c.opts
	sev := opts.SeverityOf(code)
	if sev == diag.SevIgnore {
		return
	}
	if opts.CanSuppress(code, sev) && w.stack.Suppress(code.Irritant()) {
		return
	}
	if code.Mandatory() {
		w.mandatory = true
	}
	d := diag.New(sev, code, span, args...)
	d.Notes = notes
	w.bag.Add(d)
}

func (w *walker) problems(ps []consteval.Problem) {
	for _, p := range ps {
		w.report(p.Code, p.Span, p.Args...)
	}
}

func (w *walker) enter(tokens []suppress.Token) {
	if !w.c.opts.SuppressWarnings {
		tokens = nil
	}
	for _, tok := range w.stack.Enter(tokens) {
		w.report(diag.UnhandledWarningToken, tok.Span, tok.Text)
	}
}

// leave reports the literals of span not claimed by an inner declaration,
// then pops the frame.
func (w *walker) leave(span source.Span) {
	w.literalsIn(span, false)
	w.unused = append(w.unused, w.stack.Leave()...)
}

// finish reports the tokens that silenced nothing. They are withheld
// when the unit has mandatory errors: the problems a token was meant for
// may not have been reached.
func (w *walker) finish() {
	if w.mandatory {
		return
	}
	opts := w.c.opts
	tokenSev := opts.SeverityOf(diag.UnusedWarningToken)
	for _, u := range w.unused {
		if w.allIgnored(u.Irritants) {
			w.report(diag.ProblemNotAnalysed, u.Span, u.Text)
			continue
		}
		if u.UnderAll && tokenSev == diag.SevWarning {
			continue
		}
		w.report(diag.UnusedWarningToken, u.Span, u.Text)
	}
}

func (w *walker) allIgnored(set suppress.IrritantSet) bool {
	for _, irr := range set.Slice() {
		if w.c.opts.Severity(irr) != diag.SevIgnore {
			return false
		}
	}
	return true
}

func (w *walker) unitLevel() {
	u := w.unit
	ctx := consteval.Context{Scope: symbols.Scope{Unit: u}}
	w.annotations(u.PackageAnnotations, Site{Kind: types.ElemPackage, Name: u.Package}, ctx)
	for _, imp := range u.Imports {
		if !imp.OnDemand && !imp.Used {
			w.report(diag.UnusedImport, imp.Span, imp.Path)
		}
	}
}

func (w *walker) typeDecl(decl *ast.TypeDecl) {
	typ := w.c.table.Of(decl)
	if typ == nil {
		return
	}
	kind := types.ElemType
	if decl.IsAnnotation() {
		kind = types.ElemAnnotationType
	}
	ctx := consteval.Context{Scope: outerScope(typ)}
	w.enter(w.tokens(decl.Annotations, ctx))
	anns := w.annotations(decl.Annotations, Site{Kind: kind, Name: typ.QName}, ctx)

	inner := consteval.Context{Scope: memberScope(typ)}
	w.typeParams(decl.TypeParams, typ.QName, inner)
	if decl.IsAnnotation() {
		if at := w.c.reg.Lookup(typ.QName); at != nil && at.Type == typ {
			w.checkAnnotationTypeDecl(at)
		}
	} else {
		w.checkSupertypes(typ)
		w.checkSerial(typ)
	}
	if decl.Deprecated && !hasAnnotation(anns, qDeprecated) {
		w.report(diag.TypeMissingDeprecatedAnnotation, decl.NameSpan, typ.Display())
	}

	for _, c := range decl.Constants {
		w.enumConstant(typ, c)
	}
	for _, f := range decl.Fields {
		w.field(typ, f)
	}
	for _, m := range decl.Methods {
		w.method(typ, m)
	}
	for _, nested := range decl.Types {
		w.typeDecl(nested)
	}
	w.leave(decl.Span)
}

func (w *walker) typeParams(tps []*ast.TypeParam, owner string, ctx consteval.Context) {
	for _, tp := range tps {
		w.annotations(tp.Annotations, Site{Kind: types.ElemTypeParameter, Name: owner + "<" + tp.Name + ">"}, ctx)
	}
}

func (w *walker) enumConstant(typ *symbols.Type, c *ast.EnumConstant) {
	ctx := consteval.Context{Scope: memberScope(typ)}
	w.enter(w.tokens(c.Annotations, ctx))
	w.annotations(c.Annotations, Site{Kind: types.ElemField, Name: typ.QName + "." + c.Name}, ctx)
	w.leave(c.Span)
}

func (w *walker) field(typ *symbols.Type, f *ast.FieldDecl) {
	ctx := consteval.Context{Scope: memberScope(typ), Field: fieldOf(typ, f)}
	w.enter(w.tokens(f.Annotations, ctx))
	anns := w.annotations(f.Annotations, Site{Kind: types.ElemField, Name: typ.QName + "." + f.Name}, ctx)
	w.rawTypes(ctx.Scope, f.Type)
	if typ.IsAnnotation() {
		w.checkAnnotationField(typ, f)
	}
	w.checkUnusedField(typ, f)
	if f.Deprecated && !hasAnnotation(anns, qDeprecated) {
		w.report(diag.FieldMissingDeprecatedAnnotation, f.NameSpan, typ.Display(), f.Name)
	}
	w.leave(f.Span)
}

func (w *walker) method(typ *symbols.Type, m *ast.MethodDecl) {
	ctx := consteval.Context{Scope: w.methodScope(typ, m)}
	kind := types.ElemMethod
	if m.Constructor {
		kind = types.ElemConstructor
	}
	site := typ.QName + "#" + m.Signature()
	w.enter(w.tokens(m.Annotations, ctx))
	anns := w.annotations(m.Annotations, Site{Kind: kind, Name: site}, ctx)
	w.typeParams(m.TypeParams, site, ctx)
	w.rawTypes(ctx.Scope, m.Result)
	if typ.IsAnnotation() {
		if at := w.c.reg.Lookup(typ.QName); at != nil && at.Type == typ {
			w.checkAttribute(at, m)
		}
	} else {
		w.checkOverride(typ, m, anns)
	}
	if m.Deprecated && !hasAnnotation(anns, qDeprecated) {
		w.report(diag.MethodMissingDeprecatedAnnotation, m.NameSpan, m.Signature(), typ.Display())
	}

	for _, p := range m.Params {
		w.param(site, p, ctx)
	}
	for _, local := range m.LocalTypes {
		w.typeDecl(local)
	}
	for i := range m.Locals {
		w.local(site, m, i, ctx)
	}
	w.leave(m.Span)
}

func (w *walker) methodScope(typ *symbols.Type, m *ast.MethodDecl) symbols.Scope {
	s := memberScope(typ)
	for _, tp := range m.TypeParams {
		s.TypeParams = append(s.TypeParams, tp.Name)
	}
	for _, local := range m.LocalTypes {
		if lt := w.c.table.Of(local); lt != nil {
			s.LocalTypes = append(s.LocalTypes, lt)
		}
	}
	return s
}

func (w *walker) param(site string, p *ast.Param, ctx consteval.Context) {
	w.enter(w.tokens(p.Annotations, ctx))
	w.annotations(p.Annotations, Site{Kind: types.ElemParameter, Name: site + "/" + p.Name}, ctx)
	w.rawTypes(ctx.Scope, p.Type)
	w.leave(p.Span)
}

func (w *walker) local(site string, m *ast.MethodDecl, i int, ctx consteval.Context) {
	l := m.Locals[i]
	ctx.Locals = m.Locals[:i+1]
	w.enter(w.tokens(l.Annotations, ctx))
	w.annotations(l.Annotations, Site{Kind: types.ElemLocalVariable, Name: site + "/" + l.Name}, ctx)
	w.rawTypes(ctx.Scope, l.Type)
	if !l.Used {
		w.report(diag.LocalVariableIsNeverUsed, l.NameSpan, l.Name)
	}
	w.leave(l.Span)
}

// literalsIn reports the unclaimed string literals inside span. Literals
// carrying their //$NON-NLS-n$ tag are claimed silently.
func (w *walker) literalsIn(span source.Span, all bool) {
	if w.c.opts.SeverityOf(diag.NonExternalizedStringLiteral) == diag.SevIgnore {
		return
	}
	for i, lit := range w.unit.Literals {
		if w.literals[i] || !all && !span.Contains(lit.Span) {
			continue
		}
		w.literals[i] = true
		if !lit.Tagged {
			w.report(diag.NonExternalizedStringLiteral, lit.Span, strconv.Itoa(lit.Index))
		}
	}
}

// tokens extracts the @SuppressWarnings strings of anns without
// reporting anything.
func (w *walker) tokens(anns []*ast.Annotation, ctx consteval.Context) []suppress.Token {
	var out []suppress.Token
	for _, ann := range anns {
		res := w.c.table.ResolveType(ctx.Scope, ann.Name)
		if res.Type == nil || res.Type.QName != qSuppressWarnings {
			continue
		}
		for _, p := range ann.Pairs {
			if p.Name != "value" || p.Value == nil {
				continue
			}
			elems := []*ast.Expr{p.Value}
			if e := p.Value.Unparen(); e.Kind == ast.ExprArrayInit {
				elems = e.Elems
			}
			for _, el := range elems {
				v, ok, _ := w.quiet.Fold(ctx, el)
				if ok && v.Kind == types.ValString {
					out = append(out, suppress.Token{Text: v.Str, Span: el.Span})
				}
			}
		}
	}
	return out
}

func fieldOf(typ *symbols.Type, decl *ast.FieldDecl) *symbols.Field {
	for _, f := range typ.Fields {
		if f.Decl == decl {
			return f
		}
	}
	return nil
}
