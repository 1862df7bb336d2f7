package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jalad-shrimali/cdr-analyst/carrier"
	"github.com/jalad-shrimali/cdr-analyst/cdr"
	"github.com/jalad-shrimali/cdr-analyst/metrics"
	"github.com/jalad-shrimali/cdr-analyst/normalize"
	"github.com/jalad-shrimali/cdr-analyst/sheet"
)

// DefaultSampleSize is how many normalized records a frequency result
// carries as its raw sample.
const DefaultSampleSize = 100

// FrequencyResult is the answer to a frequent-contacts query.
type FrequencyResult struct {
	TopContacts []cdr.ContactFrequency `json:"top_10_contactos"`
	RawSample   []cdr.Record           `json:"datos_crudos"`
}

// Report bundles both analyses over one export.
type Report struct {
	Carrier     carrier.ID
	Sheet       string
	Target      string
	Records     int
	BTS         []cdr.BTSMatch
	Locations   []LocationStay
	TopContacts []cdr.ContactFrequency
	RawSample   []cdr.Record
}

// Service loads exports through a sheet.Source and runs the analyses on
// them. Normalized batches are cached per file version, carrier and, where
// the normalization depends on it, target.
type Service struct {
	src        sheet.Source
	cells      normalize.CellDirectory
	batches    *cache.Cache
	metrics    *metrics.Metrics
	logger     *slog.Logger
	isoDates   bool
	sampleSize int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCells enables address enrichment from a cell directory.
func WithCells(cells normalize.CellDirectory) Option {
	return func(s *Service) {
		s.cells = cells
	}
}

// WithISODates rewrites dates as YYYY-MM-DD before aggregation.
func WithISODates(on bool) Option {
	return func(s *Service) {
		s.isoDates = on
	}
}

func WithSampleSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sampleSize = n
		}
	}
}

// WithCacheTTL sets how long a normalized batch is kept. Zero or less
// disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl <= 0 {
			s.batches = nil
			return
		}
		s.batches = cache.New(ttl, 2*ttl)
	}
}

// NewService constructs a Service reading exports through src.
func NewService(src sheet.Source, opts ...Option) *Service {
	s := &Service{
		src:        src,
		batches:    cache.New(5*time.Minute, 10*time.Minute),
		logger:     slog.New(slog.DiscardHandler),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeBTS returns the records locating target as callee in the export at
// path. An empty slice means no location evidence was found.
func (s *Service) AnalyzeBTS(ctx context.Context, path, target, carrierName string) ([]cdr.BTSMatch, error) {
	b, err := s.load(ctx, path, carrierName, target)
	if err != nil {
		s.metrics.IncrementAnalysis("bts", "error")
		return nil, err
	}
	matches := FindByCallee(b.All(), target)
	s.logger.InfoContext(ctx, "bts analysis finished",
		"carrier", b.Carrier, "target", target, "records", b.Len(), "matches", len(matches))
	s.metrics.IncrementAnalysis("bts", outcome(len(matches)))
	return matches, nil
}

// AnalyzeFrequency ranks target's top k counterparts in the export at path
// and returns the head of the normalized records alongside.
func (s *Service) AnalyzeFrequency(ctx context.Context, path, target, carrierName string, k int) (*FrequencyResult, error) {
	b, err := s.load(ctx, path, carrierName, target)
	if err != nil {
		s.metrics.IncrementAnalysis("contacts", "error")
		return nil, err
	}
	res := &FrequencyResult{
		TopContacts: TopContacts(b.All(), target, k),
		RawSample:   b.Head(s.sampleSize),
	}
	s.logger.InfoContext(ctx, "frequency analysis finished",
		"carrier", b.Carrier, "target", target, "records", b.Len(), "counterparts", len(res.TopContacts))
	s.metrics.IncrementAnalysis("contacts", outcome(len(res.TopContacts)))
	return res, nil
}

// Analyze runs both analyses over one load of the export.
func (s *Service) Analyze(ctx context.Context, path, target, carrierName string, k int) (*Report, error) {
	b, err := s.load(ctx, path, carrierName, target)
	if err != nil {
		s.metrics.IncrementAnalysis("report", "error")
		return nil, err
	}
	matches := FindByCallee(b.All(), target)
	rep := &Report{
		Carrier:     b.Carrier,
		Sheet:       b.Sheet,
		Target:      cdr.CleanNumber(target),
		Records:     b.Len(),
		BTS:         matches,
		Locations:   SummarizeLocations(matches),
		TopContacts: TopContacts(b.All(), target, k),
		RawSample:   b.Head(s.sampleSize),
	}
	s.metrics.IncrementAnalysis("report", outcome(rep.Records))
	return rep, nil
}

func (s *Service) load(ctx context.Context, path, carrierName, target string) (*normalize.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := carrier.Resolve(carrierName)
	if err != nil {
		return nil, err
	}

	key, cacheable := s.cacheKey(path, p, target)
	if cacheable {
		if v, ok := s.batches.Get(key); ok {
			s.metrics.IncrementCache(true)
			return v.(*normalize.Batch), nil
		}
		s.metrics.IncrementCache(false)
	}

	start := time.Now()
	b, err := normalize.Load(s.src, path, p, normalize.Options{
		Target:   target,
		Cells:    s.cells,
		ISODates: s.isoDates,
		Logger:   s.logger,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "export load failed", "carrier", p.ID, "path", path, "error", err)
		return nil, err
	}
	s.metrics.ObserveLoad(string(p.ID), time.Since(start), b.Len())
	s.logger.DebugContext(ctx, "export loaded",
		"carrier", p.ID, "sheet", b.Sheet, "records", b.Len(), "unresolved_columns", b.Missing)

	if cacheable {
		s.batches.SetDefault(key, b)
	}
	return b, nil
}

// cacheKey identifies one version of a file. Files that cannot be stat'ed
// are not cached; the load reports why.
func (s *Service) cacheKey(path string, p carrier.Profile, target string) (string, bool) {
	if s.batches == nil {
		return "", false
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	key := fmt.Sprintf("%s|%d|%d|%s", path, fi.ModTime().UnixNano(), fi.Size(), p.ID)
	if p.NeedsTarget() {
		key += "|" + cdr.CleanNumber(target)
	}
	return key, true
}

func outcome(n int) string {
	if n == 0 {
		return "empty"
	}
	return "ok"
}
