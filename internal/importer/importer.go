package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/datsun80zx/stockdesk/internal/models"
	"github.com/datsun80zx/stockdesk/internal/parser"
	"github.com/datsun80zx/stockdesk/internal/schema"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrImportInProgress is returned when the same file is already being imported
var ErrImportInProgress = errors.New("an import of this file is already in progress")

// Backend issues the per-row create calls. *apiclient.Client satisfies it.
type Backend interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	CreateCustomer(ctx context.Context, c *models.Customer) error
	CreateVendor(ctx context.Context, v *models.Vendor) error
	CreateReceipt(ctx context.Context, r *models.Receipt) (*models.Receipt, error)
}

// Recorder persists completed runs
type Recorder interface {
	RecordRun(ctx context.Context, result *Result) error
}

// ProgressFunc is called after every row with round(100*processed/total)
type ProgressFunc func(percent int, stats Stats)

// Stats counts row outcomes. Success+Failed always equals rows processed.
type Stats struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// Summary returns at most limit errors, followed by "+N more" when some
// were left out
func (s Stats) Summary(limit int) []string {
	if limit < 0 || len(s.Errors) <= limit {
		return append([]string(nil), s.Errors...)
	}
	out := append([]string(nil), s.Errors[:limit]...)
	return append(out, fmt.Sprintf("+%d more", len(s.Errors)-limit))
}

// Result contains the results of an import run
type Result struct {
	RunID     string        `json:"runId"`
	Kind      schema.Kind   `json:"kind"`
	FileName  string        `json:"fileName"`
	FileHash  string        `json:"fileHash"`
	TotalRows int           `json:"totalRows"`
	Stats     Stats         `json:"stats"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// Succeeded is true only when no row failed. Partial success is not an error.
func (r *Result) Succeeded() bool {
	return r.Stats.Failed == 0
}

// Message is the one-line outcome shown to the user
func (r *Result) Message() string {
	return fmt.Sprintf("Import completed! Success: %d, Failed: %d", r.Stats.Success, r.Stats.Failed)
}

// Progress describes a run still in flight
type Progress struct {
	RunID     string      `json:"runId"`
	Kind      schema.Kind `json:"kind"`
	FileName  string      `json:"fileName"`
	TotalRows int         `json:"totalRows"`
	Processed int         `json:"processed"`
	Percent   int         `json:"percent"`
	StartedAt time.Time   `json:"startedAt"`
}

// Importer runs CSV imports against the backend, one row at a time
type Importer struct {
	backend  Backend
	lock     Locker
	recorder Recorder
	limiter  *rate.Limiter
	log      *zap.Logger
	runs     *runTable
}

// runTable tracks in-flight runs; importers derived with WithBackend share it
type runTable struct {
	mu   sync.Mutex
	runs map[string]*Progress
}

// Option configures an Importer
type Option func(*Importer)

// WithLocker replaces the in-process guard, e.g. with a RedisLock
func WithLocker(l Locker) Option {
	return func(i *Importer) { i.lock = l }
}

// WithRecorder stores every completed run
func WithRecorder(r Recorder) Option {
	return func(i *Importer) { i.recorder = r }
}

// WithRateLimit caps create calls per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(i *Importer) {
		if perSecond > 0 {
			i.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewImporter creates a new importer instance
func NewImporter(backend Backend, log *zap.Logger, opts ...Option) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	i := &Importer{
		backend: backend,
		lock:    NewMemoryLock(),
		log:     log,
		runs:    &runTable{runs: make(map[string]*Progress)},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// WithBackend returns an importer sharing this one's guard, recorder,
// limiter and active-run table but issuing calls through backend
func (i *Importer) WithBackend(backend Backend) *Importer {
	return &Importer{
		backend:  backend,
		lock:     i.lock,
		recorder: i.recorder,
		limiter:  i.limiter,
		log:      i.log,
		runs:     i.runs,
	}
}

// Run imports file as entities of kind. Fatal problems (no file, bad file,
// structural CSV error, no data rows, run already in flight) return an error
// before any row is submitted. Row failures are collected in the result.
// If ctx is cancelled the loop stops before the next row and the partial
// result is returned together with ctx's error.
func (i *Importer) Run(ctx context.Context, file *File, kind schema.Kind, progress ProgressFunc) (*Result, error) {
	if err := SelectFile(file); err != nil {
		return nil, err
	}
	if _, err := schema.For(kind); err != nil {
		return nil, err
	}

	content, err := file.readAll()
	if err != nil {
		return nil, err
	}

	hash, err := CalculateHash(content)
	if err != nil {
		return nil, err
	}

	acquired, err := i.lock.Acquire(ctx, hash)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrImportInProgress
	}
	defer func() {
		// release even when ctx was cancelled
		if err := i.lock.Release(context.WithoutCancel(ctx), hash); err != nil {
			i.log.Warn("Failed to release import lock", zap.String("file_hash", hash), zap.Error(err))
		}
	}()

	table, err := parser.NewCSVParser().Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Kind:      kind,
		FileName:  file.Name,
		FileHash:  hash,
		TotalRows: len(table.Rows),
		Stats:     Stats{Errors: []string{}},
		StartedAt: time.Now(),
	}

	log := i.log.With(
		zap.String("run_id", result.RunID),
		zap.String("kind", string(kind)),
		zap.String("file", file.Name),
	)
	log.Info("Import started", zap.Int("rows", result.TotalRows))

	i.track(result)
	defer i.untrack(result.RunID)

	var runErr error
	for n, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		if err := i.processRow(ctx, kind, row); err != nil {
			if ctx.Err() != nil {
				// the row was interrupted, not rejected
				runErr = ctx.Err()
				break
			}
			var rowErr *schema.RowError
			if !errors.As(err, &rowErr) {
				rowErr = &schema.RowError{Row: row.Index, Reason: err.Error()}
			}
			result.Stats.Failed++
			result.Stats.Errors = append(result.Stats.Errors, rowErr.Error())
			log.Warn("Row failed", zap.Int("row", row.Index), zap.String("reason", rowErr.Reason))
		} else {
			result.Stats.Success++
		}

		if err := i.lock.Refresh(ctx, hash); err != nil && ctx.Err() == nil {
			log.Warn("Failed to refresh import lock", zap.Int("row", row.Index), zap.Error(err))
		}

		processed := n + 1
		percent := int(math.Round(100 * float64(processed) / float64(result.TotalRows)))
		i.advance(result.RunID, processed, percent)
		if progress != nil {
			progress(percent, result.Stats)
		}
	}

	result.Duration = time.Since(result.StartedAt)

	log.Info("Import finished",
		zap.Int("success", result.Stats.Success),
		zap.Int("failed", result.Stats.Failed),
		zap.Duration("duration", result.Duration),
		zap.Bool("interrupted", runErr != nil),
	)

	if runErr == nil && i.recorder != nil {
		if err := i.recorder.RecordRun(context.WithoutCancel(ctx), result); err != nil {
			log.Error("Failed to record import run", zap.Error(err))
		}
	}

	return result, runErr
}

// processRow transforms one row and submits it. Transform failures come
// back as *schema.RowError; backend failures are wrapped by the caller.
func (i *Importer) processRow(ctx context.Context, kind schema.Kind, row parser.Row) error {
	entity, err := schema.Transform(kind, row)
	if err != nil {
		return err
	}

	if i.limiter != nil {
		if err := i.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	switch e := entity.(type) {
	case *models.Product:
		return i.backend.CreateProduct(ctx, e)
	case *models.Customer:
		return i.backend.CreateCustomer(ctx, e)
	case *models.Vendor:
		return i.backend.CreateVendor(ctx, e)
	case *models.Receipt:
		_, err := i.backend.CreateReceipt(ctx, e)
		return err
	default:
		return fmt.Errorf("unsupported entity %T", entity)
	}
}

// Active lists the runs currently in flight, oldest first
func (i *Importer) Active() []Progress {
	t := i.runs
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Progress, 0, len(t.runs))
	for _, p := range t.runs {
		out = append(out, *p)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].StartedAt.Before(out[b].StartedAt) })
	return out
}

func (i *Importer) track(r *Result) {
	t := i.runs
	t.mu.Lock()
	t.runs[r.RunID] = &Progress{
		RunID:     r.RunID,
		Kind:      r.Kind,
		FileName:  r.FileName,
		TotalRows: r.TotalRows,
		StartedAt: r.StartedAt,
	}
	t.mu.Unlock()
}

func (i *Importer) advance(runID string, processed, percent int) {
	t := i.runs
	t.mu.Lock()
	if p, ok := t.runs[runID]; ok {
		p.Processed = processed
		p.Percent = percent
	}
	t.mu.Unlock()
}

func (i *Importer) untrack(runID string) {
	t := i.runs
	t.mu.Lock()
	delete(t.runs, runID)
	t.mu.Unlock()
}
