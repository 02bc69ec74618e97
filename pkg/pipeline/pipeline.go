// Package pipeline runs one site through the whole generation flow: schema
// validation, projection into the local plan, footprint generation and
// GeoJSON encoding. Results are cached by a hash of the site and policy.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb/geojson"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/analytics"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/cache"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/geo"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/massing"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/validation"
)

// ErrInvalidSite is returned when schema validation rejects a site. The
// accompanying Result still carries the report.
var ErrInvalidSite = errors.New("invalid site")

// Result is the outcome of one run.
type Result struct {
	Site       string                     `json:"site"`
	Typology   spec.Typology              `json:"typology"`
	Seed       uint64                     `json:"seed"`
	Footprints *geojson.FeatureCollection `json:"footprints"`
	Metrics    *analytics.Metrics         `json:"metrics,omitempty"`
	Report     *validation.Report         `json:"report"`
	// Cached is set when the result came from the cache.
	Cached bool `json:"-"`
}

// Options override values of the site file.
type Options struct {
	Seed *uint64
}

// Runner executes sites. It is safe for concurrent use when its cache is.
type Runner struct {
	Engine *massing.Engine
	Cache  cache.Cache
	Logger *log.Logger
	TTL    time.Duration
}

// New returns a runner. A nil cache disables caching and a nil logger
// discards output.
func New(engine *massing.Engine, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Engine: engine, Cache: c, Logger: logger, TTL: cache.DefaultTTL}
}

// RunBytes parses a YAML or JSON site and runs it.
func (r *Runner) RunBytes(ctx context.Context, data []byte, opts Options) (*Result, error) {
	site, err := spec.Parse(data)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, site, opts)
}

// Run generates footprints for a site.
func (r *Runner) Run(ctx context.Context, site *spec.Site, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Seed != nil && site.Params != nil {
		s := *site
		s.Params = spec.CloneParams(site.Params)
		s.Params.Base().Seed = *opts.Seed
		site = &s
	}

	report := validation.ValidateSite(site)
	res := &Result{Site: site.Name, Typology: site.Typology, Report: report}
	if site.Params != nil {
		res.Seed = site.Params.Base().Seed
	}
	if !report.Valid {
		return res, fmt.Errorf("%w: %v", ErrInvalidSite, report.Err())
	}

	key := cache.Key("generate", site, r.Engine.Policy())
	var cached Result
	switch err := cache.Lookup(ctx, r.Cache, key, &cached); {
	case err == nil:
		cached.Cached = true
		r.Logger.Debug("cache hit", "site", site.Name, "key", key[:17])
		return &cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		r.Logger.Warn("cache lookup failed", "err", err)
	}

	frame, req, err := Project(site)
	if err != nil {
		return res, err
	}
	r.Logger.Debug("projected", "site", site.Name, "geographic", frame.Geographic(),
		"plot_area", fmt.Sprintf("%.1f", req.Plot.Area()))

	fps, genReport := r.Engine.Generate(req)
	report.Merge(genReport)
	if buildable, ok := r.Engine.Buildable(req); ok {
		metrics, metricsReport := analytics.Measure(req.Plot, buildable, fps, site.Params)
		report.Merge(metricsReport)
		res.Metrics = metrics
	}
	res.Footprints = massing.FeatureCollection(fps, frame)
	r.Logger.Info("generated", "site", site.Name, "typology", site.Typology,
		"footprints", len(fps), "elapsed", time.Since(start).Round(time.Millisecond))

	if err := cache.Store(ctx, r.Cache, key, res, r.TTL); err != nil {
		r.Logger.Warn("cache store failed", "err", err)
	}
	return res, nil
}

// Project converts a site into a generation request in the local plan and
// returns the frame used, so that results can be mapped back.
func Project(site *spec.Site) (geo.Frame, massing.Request, error) {
	frame := geo.LocalFrame()
	if site.Frame != spec.FrameLocal {
		frame = geo.FrameFor(site.Plot.Geometry)
	}

	plot, err := frame.Region(site.Plot.Geometry)
	if err != nil {
		return frame, massing.Request{}, fmt.Errorf("plot: %w", err)
	}
	req := massing.Request{
		Plot:      plot,
		Setback:   site.Setback,
		Clearance: site.Clearance.Width(),
		Params:    site.Params,
	}
	for i, o := range site.Obstacles {
		region, err := frame.Region(o.Geometry)
		if err != nil {
			return frame, massing.Request{}, fmt.Errorf("obstacles[%d]: %w", i, err)
		}
		req.Obstacles = append(req.Obstacles, region)
	}
	for i, e := range site.Existing {
		region, err := frame.Region(e.Geometry)
		if err != nil {
			return frame, massing.Request{}, fmt.Errorf("existing[%d]: %w", i, err)
		}
		req.Existing = append(req.Existing, region)
	}
	if site.Params != nil {
		if pt, ok := site.Params.Base().TargetPoint(); ok {
			target := frame.ToPlan(pt)
			req.Target = &target
		}
	}
	return frame, req, nil
}
