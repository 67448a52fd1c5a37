package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"lintel/internal/diag"
	"lintel/internal/lang"
	"lintel/internal/lint"
	"lintel/internal/observ"
	"lintel/internal/source"
	"lintel/internal/trace"
)

// DescLoadError reports files that could not be read or parsed.
var DescLoadError = diag.MustDescriptor("LINT0004", "Source file could not be analyzed", "%s", diag.CategoryInternal, diag.SevError)

// Request describes one analysis run.
type Request struct {
	Files    []string
	Registry *lang.Registry
	Session  *lint.Session
	// Jobs bounds the files analyzed in parallel; <= 0 means GOMAXPROCS.
	Jobs           int
	MaxDiagnostics int
	BaseDir        string
	// Cache is optional. Fingerprint and ToolVersion become part of every
	// cache key.
	Cache       *DiskCache
	Fingerprint string
	ToolVersion string
	Progress    ProgressSink
	// Sort orders each file's diagnostics by location instead of keeping
	// production order. Cache entries always keep production order.
	Sort bool
}

// FileResult holds the outcome of one file. Bag keeps the diagnostics in
// production order.
type FileResult struct {
	Path    string
	Lang    string
	FileID  source.FileID
	Bag     *diag.Bag
	Cached  bool
	LoadErr error
	Timing  observ.Report
}

// Result is the outcome of Analyze; Files follows Request.Files.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	// SetupErrors are session errors raised before the run.
	SetupErrors []*lint.EngineError
	Timing      observ.Report
}

// Diagnostics returns every diagnostic, file by file.
func (r *Result) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range r.Files {
		if r.Files[i].Bag != nil {
			out = append(out, r.Files[i].Bag.Items()...)
		}
	}
	return out
}

// HasErrors reports whether any file has a user-facing error.
func (r *Result) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag != nil && r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any file has a user-facing warning or error.
func (r *Result) HasWarnings() bool {
	for i := range r.Files {
		if r.Files[i].Bag != nil && r.Files[i].Bag.HasWarnings() {
			return true
		}
	}
	return false
}

// LoadErrors counts files that could not be analyzed.
func (r *Result) LoadErrors() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].LoadErr != nil {
			n++
		}
	}
	return n
}

// Dropped counts diagnostics refused by the per-file limit.
func (r *Result) Dropped() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Bag != nil {
			n += r.Files[i].Bag.Dropped()
		}
	}
	return n
}

// Analyze parses and analyzes req.Files in parallel. Every file gets its
// own bag; load failures become LINT0004 internal diagnostics and engine
// errors of a file are appended to its bag. The only error returned is
// context cancellation (or a malformed request).
func Analyze(ctx context.Context, req Request) (*Result, error) {
	if req.Registry == nil || req.Session == nil {
		return nil, errors.New("driver: registry and session are required")
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "analyze", trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	timer := observ.NewTimer()
	fileSet := source.NewFileSetWithBase(req.BaseDir)
	errs := req.Session.Errors()
	a := &analysis{
		req:      req,
		tracer:   tracer,
		spanID:   span.ID(),
		fileSet:  fileSet,
		ids:      make([]source.FileID, len(req.Files)),
		loadErrs: make([]error, len(req.Files)),
		descs:    descriptorIndex(req.Session),
		rulesKey: ruleSetKey(req.Session),
		errBase:  len(errs),
		res: &Result{
			FileSet:     fileSet,
			Files:       make([]FileResult, len(req.Files)),
			SetupErrors: errs,
		},
	}
	emitQueued(req.Progress, req.Files)

	loadIdx := timer.Begin("load")
	for i, path := range req.Files {
		id, err := fileSet.Load(path)
		if err != nil {
			a.loadErrs[i] = err
			continue
		}
		a.ids[i] = id
	}
	timer.End(loadIdx, fmt.Sprintf("%d files", len(req.Files)))

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	analyzeIdx := timer.Begin("analyze")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(req.Files))))
	for i := range req.Files {
		g.Go(func() error { return a.file(gctx, i) })
	}
	err := g.Wait()
	timer.End(analyzeIdx, fmt.Sprintf("jobs=%d", jobs))

	a.res.Timing = timer.Report()
	span.WithExtra("files", fmt.Sprint(len(req.Files))).End(errString(err))
	if err != nil {
		return a.res, err
	}
	return a.res, nil
}

type analysis struct {
	req      Request
	tracer   trace.Tracer
	spanID   uint64
	fileSet  *source.FileSet
	ids      []source.FileID
	loadErrs []error
	descs    map[string]*diag.Descriptor
	rulesKey string
	errBase  int
	res      *Result
}

// file analyzes one entry of req.Files. Results are written to a slot owned
// by this index only.
func (a *analysis) file(ctx context.Context, i int) error {
	path := a.req.Files[i]
	fr := &a.res.Files[i]
	fr.Path = path
	fr.Bag = diag.NewBag(a.req.MaxDiagnostics)
	if err := ctx.Err(); err != nil {
		return err
	}
	started := time.Now()
	timer := observ.NewTimer()
	defer func() {
		if a.req.Sort {
			fr.Bag.Sort()
		}
		fr.Timing = timer.Report()
	}()

	if err := a.loadErrs[i]; err != nil {
		a.loadFailed(fr, nil, StageLoad, err, started)
		return nil
	}
	file := a.fileSet.Get(a.ids[i])
	fr.FileID = file.ID
	facade, ok := a.req.Registry.ForPath(path)
	if !ok {
		a.loadFailed(fr, file, StageLoad, fmt.Errorf("no language registered for %q", path), started)
		return nil
	}
	fr.Lang = facade.Language()
	parser, ok := a.req.Registry.ParserFor(fr.Lang)
	if !ok {
		a.loadFailed(fr, file, StageLoad, fmt.Errorf("language %s cannot parse sources", fr.Lang), started)
		return nil
	}

	var key Digest
	if a.req.Cache != nil {
		key = CacheKey(file, a.req.Fingerprint, a.rulesKey, a.req.ToolVersion)
		if a.fromCache(fr, file, key) {
			trace.Point(a.tracer, trace.ScopeFile, "cache-hit", path, a.spanID)
			emit(a.req.Progress, path, StageAnalyze, StatusCached, nil, time.Since(started))
			return nil
		}
	}

	emit(a.req.Progress, path, StageParse, StatusWorking, nil, 0)
	parseIdx := timer.Begin("parse")
	tree, model, err := parser.Parse(ctx, file)
	timer.End(parseIdx, "")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		a.loadFailed(fr, file, StageParse, err, started)
		return nil
	}

	emit(a.req.Progress, path, StageAnalyze, StatusWorking, nil, 0)
	analyzeIdx := timer.Begin("analyze")
	err = a.req.Session.Analyze(ctx, lint.Unit{Tree: tree, Model: model}, diag.NewDedupSink(fr.Bag))
	timer.End(analyzeIdx, fmt.Sprintf("%d diagnostics", fr.Bag.Len()))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		a.loadFailed(fr, file, StageAnalyze, err, started)
		return nil
	}

	failed := a.attachEngineErrors(fr, file)
	if a.req.Cache != nil && !failed {
		if err := a.req.Cache.Put(key, toPayload(file, fr.Bag)); err != nil {
			trace.Point(a.tracer, trace.ScopeFile, "cache-write-failed", err.Error(), a.spanID)
		}
	}
	status := StatusDone
	if failed {
		status = StatusError
	}
	emit(a.req.Progress, path, StageAnalyze, status, nil, time.Since(started))
	return nil
}

func (a *analysis) fromCache(fr *FileResult, file *source.File, key Digest) bool {
	var payload DiskPayload
	hit, err := a.req.Cache.Get(key, &payload)
	if err != nil {
		trace.Point(a.tracer, trace.ScopeFile, "cache-read-failed", err.Error(), a.spanID)
		return false
	}
	if !hit || !fromPayload(&payload, file, a.descs, fr.Bag) {
		return false
	}
	fr.Cached = true
	return true
}

// attachEngineErrors appends the engine errors raised for file during this
// run and reports whether there were any.
func (a *analysis) attachEngineErrors(fr *FileResult, file *source.File) bool {
	errs := a.req.Session.Errors()
	if len(errs) <= a.errBase {
		return false
	}
	found := false
	for _, ee := range errs[a.errBase:] {
		if ee.Path != file.Path {
			continue
		}
		fr.Bag.Add(ee.Diagnostic(file))
		found = true
	}
	return found
}

func (a *analysis) loadFailed(fr *FileResult, file *source.File, stage Stage, err error, started time.Time) {
	fr.LoadErr = err
	d := diag.Diagnostic{
		Descriptor: DescLoadError,
		Severity:   DescLoadError.DefaultSeverity(),
		Path:       fr.Path,
		Args:       []any{err.Error()},
		Message:    err.Error(),
		Internal:   true,
	}
	if file != nil {
		d.Path = file.Path
		d.Span = source.At(file.ID, 0)
		d.Start = file.Position(0)
		d.End = d.Start
	}
	fr.Bag.Add(d)
	trace.Point(a.tracer, trace.ScopeFile, "load-error", err.Error(), a.spanID)
	emit(a.req.Progress, fr.Path, stage, StatusError, err, time.Since(started))
}

func descriptorIndex(s *lint.Session) map[string]*diag.Descriptor {
	out := map[string]*diag.Descriptor{
		lint.DescConfiguration.ID(): lint.DescConfiguration,
		lint.DescExecution.ID():     lint.DescExecution,
		lint.DescReporting.ID():     lint.DescReporting,
		DescLoadError.ID():          DescLoadError,
	}
	for _, d := range s.Descriptors() {
		out[d.ID()] = d
	}
	return out
}

func ruleSetKey(s *lint.Session) string {
	descs := s.Descriptors()
	ids := make([]string, 0, len(descs))
	for _, d := range descs {
		ids = append(ids, d.ID()+"="+d.MessageFormat())
	}
	sort.Strings(ids)
	return strings.Join(ids, "\n")
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
