package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mohammedazif/keystone-map3d-sub002/internal/config"
	"github.com/Mohammedazif/keystone-map3d-sub002/internal/logging"
	"github.com/Mohammedazif/keystone-map3d-sub002/internal/server"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/cache"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/massing"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/pipeline"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/validation"
)

type generateOptions struct {
	out       string
	seedValue uint64
	seed      *uint64
	geojson   bool
	summary   bool
	noCache   bool
}

// newRunner wires the engine, cache and logger described by cfg.
func newRunner(ctx context.Context, cfg config.Config, useCache bool) (*pipeline.Runner, error) {
	logger := logging.FromContext(ctx)
	var c cache.Cache = cache.NewNullCache()
	if useCache {
		opened, err := cfg.Cache.Open(ctx)
		if err != nil {
			logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "err", err)
		} else {
			c = opened
		}
	}
	ttl, err := cfg.Cache.Expiry()
	if err != nil {
		return nil, err
	}
	runner := pipeline.New(massing.NewEngine(cfg.Policy, logger), c, logger)
	runner.TTL = ttl
	return runner, nil
}

func runGenerate(ctx context.Context, cfg config.Config, path string, opts generateOptions) error {
	site, err := spec.Load(path)
	if err != nil {
		return fmt.Errorf("loading site: %w", err)
	}
	runner, err := newRunner(ctx, cfg, !opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	res, err := runner.Run(ctx, site, pipeline.Options{Seed: opts.seed})
	if err != nil {
		if res != nil && res.Report != nil {
			printValidationReport(os.Stderr, res.Report)
		}
		return err
	}
	if opts.summary {
		printSummary(os.Stderr, res)
	}

	var out io.Writer = os.Stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	var v any = res
	if opts.geojson {
		v = res.Footprints
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runValidate(w io.Writer, path string) error {
	site, err := spec.Load(path)
	if err != nil {
		return fmt.Errorf("loading site: %w", err)
	}
	report := validation.ValidateSite(site)
	printValidationReport(w, report)
	if !report.Valid {
		return fmt.Errorf("site has validation errors")
	}
	return nil
}

func runServe(ctx context.Context, cfg config.Config) error {
	runner, err := newRunner(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(cfg.Server.Address(), runner, logging.FromContext(ctx)).Start(ctx)
}
