package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"annocheck/internal/diag"
	"annocheck/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders bag.Items() in order (sort the bag first). Each
// diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source lines with a ^~~~ underline under the span, and
// then its notes in the same form.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(fs, d.Primary, opts.PathMode),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message,
	)
	snippet(w, fs, d.Primary, opts, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("fix:"), f.Title)
			for _, e := range f.Edits {
				fmt.Fprintf(w, "    %s: replace with %q\n", location(fs, e.Span, opts.PathMode), e.NewText)
			}
		}
	}
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	path := formatPath(fs, span.File, mode)
	if path == builtinPath {
		return path
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// snippet prints the primary line with Context lines around it and
// underlines the span on the primary line.
func snippet(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts, pal palette) {
	if fs == nil || span.File == source.NoFileID {
		return
	}
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}

	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	gutterWidth := len(fmt.Sprint(last))

	for line := first; line <= last; line++ {
		text, ok := lineText(f, line)
		if !ok || line > start.Line && text == "" && int(line) == len(f.LineIdx)+1 {
			break
		}
		shown := expandTabs(text)
		if opts.Width > 0 && runewidth.StringWidth(shown) > int(opts.Width) {
			shown = runewidth.Truncate(shown, int(opts.Width), "...")
		}
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, line), shown)
		if line != start.Line {
			continue
		}

		// terminal columns, not bytes
		prefix := expandTabs(text[:min(int(start.Col-1), len(text))])
		endCol := len(text) + 1
		if end.Line == start.Line {
			endCol = min(int(end.Col), len(text)+1)
		}
		marked := ""
		if int(start.Col-1) < endCol-1 {
			marked = expandTabs(text[start.Col-1 : endCol-1])
		}
		width := max(runewidth.StringWidth(marked), 1)
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s%s\n",
			pal.gutter.Sprintf("%*s |", gutterWidth, ""),
			strings.Repeat(" ", runewidth.StringWidth(prefix)),
			pal.caret.Sprint(underline),
		)
	}
}

func lineText(f *source.File, line uint32) (string, bool) {
	if line == 0 || int(line) > len(f.LineIdx)+1 {
		return "", false
	}
	return f.GetLine(line), true
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}
