// Package verify checks every registered model identifier against a remote
// catalog and reports which ones resolve.
package verify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/modelreg/pkg/constants"
	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/hub"
	"github.com/agentstation/modelreg/pkg/logging"
	"github.com/agentstation/modelreg/pkg/registry"
)

// Catalog looks up a model by its org/name identifier. A missing model must
// be reported with an error for which errors.IsNotFound is true.
type Catalog interface {
	ModelInfo(ctx context.Context, id string) (*hub.ModelInfo, error)
}

// Status is the outcome of one lookup.
type Status int

const (
	// OK means the identifier resolved.
	OK Status = iota
	// Missing means the catalog reported the identifier as not found.
	Missing
	// Error means the lookup failed for another reason.
	Error
)

var statusNames = [...]string{OK: "ok", Missing: "missing", Error: "error"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so exported reports can
// be read back.
func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if string(b) == name {
			*s = Status(i)
			return nil
		}
	}
	return errors.NewValidationError("status", string(b), "unknown verification status")
}

// Result is the outcome for one registered model.
type Result struct {
	ID           string             `json:"id" yaml:"id"`
	Model        registry.ModelInfo `json:"model" yaml:"model"`
	Status       Status             `json:"status" yaml:"status"`
	LastModified time.Time          `json:"last_modified,omitzero" yaml:"last_modified,omitempty"`
	Error        string             `json:"error,omitempty" yaml:"error,omitempty"`
	Duration     time.Duration      `json:"duration" yaml:"duration"`
}

// Report collects results in registry order.
type Report struct {
	Results  []Result  `json:"results" yaml:"results"`
	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished" yaml:"finished"`
}

// Total returns the number of checked models.
func (r *Report) Total() int { return len(r.Results) }

// Passed returns the number of identifiers that resolved.
func (r *Report) Passed() int { return r.count(OK) }

// Missing returns the number of identifiers the catalog does not know.
func (r *Report) Missing() int { return r.count(Missing) }

// Errored returns the number of lookups that failed.
func (r *Report) Errored() int { return r.count(Error) }

// Failed returns every result that did not pass.
func (r *Report) Failed() int { return r.Total() - r.Passed() }

// OK reports whether every identifier resolved.
func (r *Report) OK() bool { return r.Failed() == 0 }

// Filter returns the results with status s.
func (r *Report) Filter(s Status) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == s {
			out = append(out, res)
		}
	}
	return out
}

func (r *Report) count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Verifier runs lookups against a catalog.
type Verifier struct {
	catalog     Catalog
	concurrency int
	logger      *zerolog.Logger
	observer    func(Result)
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithConcurrency sets how many lookups run at once. Values below one mean
// sequential; values above constants.MaxConcurrency are capped.
func WithConcurrency(n int) Option {
	return func(v *Verifier) {
		v.concurrency = min(max(n, 1), constants.MaxConcurrency)
	}
}

// WithLogger sets the logger. Without it the context logger is used.
func WithLogger(logger *zerolog.Logger) Option {
	return func(v *Verifier) { v.logger = logger }
}

// WithObserver registers fn to receive each result as it completes. Calls
// are serialized but, with concurrency above one, not in registry order.
func WithObserver(fn func(Result)) Option {
	return func(v *Verifier) { v.observer = fn }
}

// New creates a verifier for catalog.
func New(catalog Catalog, opts ...Option) *Verifier {
	v := &Verifier{catalog: catalog, concurrency: constants.DefaultConcurrency}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run looks up every model registered in r at call time, exactly once each,
// and never stops early on a failed lookup. Once ctx is done the remaining
// models are reported as errors without a lookup. The registry is not
// modified.
func (v *Verifier) Run(ctx context.Context, r *registry.Registry) *Report {
	logger := v.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	models := r.List()
	report := &Report{Results: make([]Result, len(models)), Started: time.Now()}

	var mu sync.Mutex
	record := func(i int, res Result) {
		report.Results[i] = res
		observe(res)

		event := logger.Debug().Str("model_id", res.ID).Stringer("status", res.Status)
		if res.Error != "" {
			event = event.Str("error", res.Error)
		}
		event.Msg("Verified model")

		if v.observer != nil {
			mu.Lock()
			v.observer(res)
			mu.Unlock()
		}
	}

	if v.concurrency <= 1 {
		for i, m := range models {
			record(i, v.check(ctx, m))
		}
	} else {
		var g errgroup.Group
		g.SetLimit(v.concurrency)
		for i, m := range models {
			g.Go(func() error {
				record(i, v.check(ctx, m))
				return nil
			})
		}
		_ = g.Wait() // failures are carried in the results
	}

	report.Finished = time.Now()
	logger.Info().
		Int("total", report.Total()).
		Int("passed", report.Passed()).
		Int("missing", report.Missing()).
		Int("errored", report.Errored()).
		Dur("elapsed", report.Finished.Sub(report.Started)).
		Msg("Verification finished")
	return report
}

func (v *Verifier) check(ctx context.Context, m registry.ModelInfo) Result {
	res := Result{ID: m.Path(), Model: m}
	if err := ctx.Err(); err != nil {
		res.Status = Error
		res.Error = err.Error()
		return res
	}

	start := time.Now()
	info, err := v.catalog.ModelInfo(ctx, res.ID)
	res.Duration = time.Since(start)

	switch {
	case err == nil:
		res.Status = OK
		if info != nil {
			res.LastModified = info.LastModified
		}
	case errors.IsNotFound(err):
		res.Status = Missing
	default:
		res.Status = Error
		res.Error = strings.TrimSpace(err.Error())
	}
	return res
}
