package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"annocheck/internal/ast"
	"annocheck/internal/diag"
	"annocheck/internal/emit"
	"annocheck/internal/javasrc"
	"annocheck/internal/observ"
	"annocheck/internal/options"
	"annocheck/internal/registry"
	"annocheck/internal/sema"
	"annocheck/internal/source"
	"annocheck/internal/symbols"
	"annocheck/internal/trace"
)

// Options configures one check run.
type Options struct {
	// Compiler is the problem configuration; nil means options.Default().
	Compiler *options.Options
	// MaxDiagnostics caps the merged result; 0 falls back to
	// Compiler.MaxDiagnostics.
	MaxDiagnostics int
	// MaxSyntaxErrors caps syntax diagnostics per file; 0 is unbounded.
	MaxSyntaxErrors uint
	// Jobs bounds parse and check parallelism; <= 0 uses GOMAXPROCS.
	Jobs           int
	IgnoreWarnings bool
	EnableTimings  bool
	// BaseDir is the directory paths are rendered relative to.
	BaseDir  string
	Observer PhaseObserver
	Progress ProgressSink
}

// UnitResult is the outcome for one input file.
type UnitResult struct {
	Path   string
	FileID source.FileID
	Unit   *ast.CompilationUnit
	Sema   *sema.Result
}

// Result is the outcome of one check run.
type Result struct {
	FileSet *source.FileSet
	Units   []UnitResult
	// Bag holds every unit's diagnostics sorted by position, after
	// filtering and the MaxDiagnostics cap.
	Bag *diag.Bag
	// Dropped counts diagnostics cut by MaxDiagnostics.
	Dropped  int
	Payloads []emit.Payload
	Registry *registry.Registry
	Timing   *observ.Report
}

// Source is an in-memory compilation unit.
type Source struct {
	Name    string
	Content []byte
}

// Check loads every *.java file under paths and checks them as one
// compile run. Files that cannot be read fail the run together: the
// returned error lists all of them.
func Check(ctx context.Context, paths []string, opts Options) (*Result, error) {
	files, err := ListInputs(paths)
	if err != nil {
		return nil, err
	}

	fileSet := source.NewFileSet()
	if opts.BaseDir != "" {
		fileSet = source.NewFileSetWithBase(opts.BaseDir)
	}
	var (
		loadErr *multierror.Error
		inputs  = make([]input, 0, len(files))
	)
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErr = multierror.Append(loadErr, fmt.Errorf("load %s: %w", path, err))
			continue
		}
		inputs = append(inputs, input{path: path, id: id})
	}
	if err := loadErr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return newRunner(ctx, fileSet, opts).run(ctx, inputs)
}

// CheckSources checks in-memory sources as one compile run.
func CheckSources(ctx context.Context, sources []Source, opts Options) (*Result, error) {
	fileSet := source.NewFileSet()
	inputs := make([]input, 0, len(sources))
	for _, src := range sources {
		inputs = append(inputs, input{path: src.Name, id: fileSet.AddVirtual(src.Name, src.Content)})
	}
	return newRunner(ctx, fileSet, opts).run(ctx, inputs)
}

type input struct {
	path string
	id   source.FileID
}

type runner struct {
	opts     Options
	compiler *options.Options
	fs       *source.FileSet
	tracer   trace.Tracer
	root     *trace.Span
	timer    *observ.Timer
	jobs     int
}

func newRunner(ctx context.Context, fs *source.FileSet, opts Options) *runner {
	compiler := opts.Compiler
	if compiler == nil {
		def := options.Default()
		compiler = &def
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	r := &runner{
		opts:     opts,
		compiler: compiler,
		fs:       fs,
		tracer:   trace.FromContext(ctx),
		jobs:     jobs,
	}
	if opts.EnableTimings {
		r.timer = observ.NewTimer()
	}
	return r
}

// phase opens a pass: a trace span, a timer phase and an observer event.
// The returned func closes all three.
func (r *runner) phase(name string) (parent uint64, end func(note string)) {
	span := trace.Begin(r.tracer, trace.ScopePass, name, r.root.ID())
	idx := -1
	if r.timer != nil {
		idx = r.timer.Begin(name)
	}
	if r.opts.Observer != nil {
		r.opts.Observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	start := time.Now()
	return span.ID(), func(note string) {
		span.End(note)
		if r.timer != nil {
			r.timer.End(idx, note)
		}
		if r.opts.Observer != nil {
			r.opts.Observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(start)})
		}
	}
}

func (r *runner) run(ctx context.Context, inputs []input) (*Result, error) {
	r.root = trace.Begin(r.tracer, trace.ScopeDriver, "check", 0)
	defer r.root.End(fmt.Sprintf("files=%d", len(inputs)))

	for _, in := range inputs {
		notify(r.opts.Progress, Event{File: in.path, Stage: StageParse, Status: StatusQueued})
	}

	units, parseBags, err := r.parse(ctx, inputs)
	if err != nil {
		return nil, err
	}

	_, end := r.phase("register")
	notify(r.opts.Progress, Event{Stage: StageRegister, Status: StatusWorking})
	table := symbols.NewTable()
	asts := make([]*ast.CompilationUnit, len(units))
	for i := range units {
		asts[i] = units[i].Unit
		table.AddUnit(asts[i])
	}
	table.Link()
	reg := registry.New()
	checker := sema.New(table, reg, r.compiler)
	registered := checker.RegisterAnnotationTypes(asts)
	end(fmt.Sprintf("annotation_types=%d", len(registered)))

	results, err := r.check(ctx, checker, units)
	if err != nil {
		return nil, err
	}

	_, end = r.phase("emit")
	notify(r.opts.Progress, Event{Stage: StageEmit, Status: StatusWorking})
	payloads := emit.BuildAll(results)
	end(fmt.Sprintf("payloads=%d", len(payloads)))

	bag, dropped := r.merge(parseBags, results)
	for i, in := range inputs {
		status := StatusDone
		if parseBags[i].HasErrors() || results[i].Diagnostics.HasErrors() {
			status = StatusError
		}
		notify(r.opts.Progress, Event{File: in.path, Stage: StageEmit, Status: status})
	}

	res := &Result{
		FileSet:  r.fs,
		Units:    units,
		Bag:      bag,
		Dropped:  dropped,
		Payloads: payloads,
		Registry: reg,
	}
	if r.timer != nil {
		report := r.timer.Report()
		res.Timing = &report
	}
	return res, nil
}

// parse converts every input in parallel. Each file reports into its own
// bag; results are stored by index so no locking is needed.
func (r *runner) parse(ctx context.Context, inputs []input) ([]UnitResult, []*diag.Bag, error) {
	parent, end := r.phase("parse")
	units := make([]UnitResult, len(inputs))
	bags := make([]*diag.Bag, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(r.jobs, len(inputs))))
	for i, in := range inputs {
		g.Go(func() error {
			// a failed sibling cancels the rest
			if err := gctx.Err(); err != nil {
				return err
			}
			notify(r.opts.Progress, Event{File: in.path, Stage: StageParse, Status: StatusWorking})
			span := trace.Begin(r.tracer, trace.ScopeUnit, "parse", parent).WithExtra("file", in.path)
			start := time.Now()

			bag := diag.NewBag(0)
			u, err := javasrc.ParseFile(r.fs, in.id, javasrc.Options{
				MaxErrors: r.opts.MaxSyntaxErrors,
				Reporter:  diag.BagReporter{Bag: bag},
			})
			span.End("")
			if err != nil {
				notify(r.opts.Progress, Event{File: in.path, Stage: StageParse, Status: StatusError, Err: err})
				return err
			}
			units[i] = UnitResult{Path: in.path, FileID: in.id, Unit: u}
			bags[i] = bag
			notify(r.opts.Progress, Event{File: in.path, Stage: StageParse, Status: StatusWorking, Elapsed: time.Since(start)})
			return nil
		})
	}
	err := g.Wait()
	end(fmt.Sprintf("units=%d", len(inputs)))
	if err != nil {
		return nil, nil, err
	}
	return units, bags, nil
}

// check walks the units in parallel. Registration is complete at this
// point, so the registry and table are only read.
func (r *runner) check(ctx context.Context, checker *sema.Checker, units []UnitResult) ([]*sema.Result, error) {
	parent, end := r.phase("check")
	results := make([]*sema.Result, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(r.jobs, len(units))))
	for i := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := units[i].Path
			notify(r.opts.Progress, Event{File: path, Stage: StageCheck, Status: StatusWorking})
			span := trace.Begin(r.tracer, trace.ScopeUnit, "check", parent).WithExtra("file", path)
			res := checker.Check(units[i].Unit)
			span.WithExtra("diagnostics", fmt.Sprint(res.Diagnostics.Len())).End("")

			results[i] = res
			units[i].Sema = res
			status := StatusWorking
			if res.Diagnostics.HasErrors() {
				status = StatusError
			}
			notify(r.opts.Progress, Event{File: path, Stage: StageCheck, Status: status})
			return nil
		})
	}
	err := g.Wait()
	end(fmt.Sprintf("units=%d", len(units)))
	if err != nil {
		return nil, err
	}
	return results, nil
}

// merge collects the per-unit bags into one sorted bag and applies the
// warning filter and the diagnostics cap.
func (r *runner) merge(parseBags []*diag.Bag, results []*sema.Result) (*diag.Bag, int) {
	all := diag.NewBag(0)
	for i := range results {
		all.Merge(parseBags[i])
		all.Merge(results[i].Diagnostics)
	}
	if r.opts.IgnoreWarnings {
		all.Filter(func(d diag.Diagnostic) bool {
			return d.Severity >= diag.SevError
		})
	}
	all.Sort()

	limit := r.opts.MaxDiagnostics
	if limit == 0 {
		limit = r.compiler.MaxDiagnostics
	}
	if limit <= 0 || all.Len() <= limit {
		return all, 0
	}
	capped := diag.NewBag(limit)
	for _, d := range all.Items() {
		capped.Add(d)
	}
	return capped, all.Len() - limit
}
