// Package engine orchestrates a full viability run: irradiation
// acquisition, quality assessment, generation modeling, sizing and the
// financial simulation, in that order.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/helioplan/helioplan/pkg/finance"
	"github.com/helioplan/helioplan/pkg/generation"
	"github.com/helioplan/helioplan/pkg/irradiance"
	"github.com/helioplan/helioplan/pkg/log"
	"github.com/helioplan/helioplan/pkg/types"
)

// Request is one viability computation. Sizing and Financial are optional;
// when absent the corresponding result sections are nil.
type Request struct {
	Coordinates types.Coordinates             `json:"coordinates" yaml:"coordinates"`
	System      types.SystemParameters        `json:"system" yaml:"system"`
	Sizing      *types.SizingParameters       `json:"sizing,omitempty" yaml:"sizing"`
	Financial   *types.FinancialConfiguration `json:"financial,omitempty" yaml:"financial"`

	// Losses overrides the modeled loss breakdown when set. The geometric
	// orientation loss is still computed and wins over a zero Orientation.
	Losses *types.LossBreakdown `json:"losses,omitempty" yaml:"losses"`

	// PreferredSource reorders the provider chain; empty keeps the default
	// priority order.
	PreferredSource types.IrradiationSource `json:"preferredSource,omitempty" yaml:"preferredSource"`

	// UseCache controls whether the irradiation fetch goes through the
	// engine's cache. Callers decoding requests from files should default
	// this to true before decoding.
	UseCache bool `json:"useCache" yaml:"useCache"`
}

// Validate fails fast before any upstream call happens.
func (r Request) Validate() error {
	if err := r.Coordinates.Validate(); err != nil {
		return err
	}
	if err := r.System.Validate(); err != nil {
		return err
	}
	if r.Sizing != nil {
		if err := r.Sizing.Validate(); err != nil {
			return err
		}
	}
	if r.Financial != nil {
		if err := r.Financial.Normalized().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Result is the full output of one run. Sizing and Financial mirror the
// optional request sections. RunID identifies the invocation and is the
// only field not determined by the inputs; everything else is
// deterministic for fixed inputs and cache state.
type Result struct {
	RunID                string                   `json:"runID"`
	Irradiation          types.IrradiationDataset `json:"irradiation"`
	Quality              types.DataQuality        `json:"quality"`
	Losses               types.LossBreakdown      `json:"losses"`
	MonthlyGenerationKWH [12]float64              `json:"monthlyGenerationKWH"`
	AnnualGenerationKWH  float64                  `json:"annualGenerationKWH"`
	Sizing               *types.SizingResult      `json:"sizing,omitempty"`
	Financial            *types.FinancialResult   `json:"financial,omitempty"`
}

// Engine runs viability computations. It is safe for concurrent use; the
// cache is the only shared mutable state.
type Engine struct {
	chain  *irradiance.Chain
	cache  *irradiance.Cache
	tracer log.Tracer

	// newRunID is replaceable so runs are fully reproducible in tests
	newRunID func() string
}

// New creates an engine with the given chain, cache and tracer. A nil
// tracer disables tracing.
func New(chain *irradiance.Chain, cache *irradiance.Cache, tracer log.Tracer) *Engine {
	if tracer == nil {
		tracer = log.NopTracer{}
	}
	return &Engine{chain: chain, cache: cache, tracer: tracer, newRunID: uuid.NewString}
}

// Configured sets up an engine with the flag-configured provider chain, a
// default cache, and debug-level tracing.
func Configured() *Engine {
	return New(irradiance.Configured(), irradiance.NewCache(0, 0), log.SlogTracer{})
}

// ComputeViability runs the pipeline for one request. The result is
// deterministic for fixed inputs and cache state.
func (e *Engine) ComputeViability(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := e.newRunID()
	ctx = log.With(ctx, log.Ctx(ctx).With(slog.String("runID", runID)))

	e.tracer.Stage(ctx, "fetch", "fetching irradiation",
		slog.Float64("latitude", req.Coordinates.LatitudeDeg),
		slog.Float64("longitude", req.Coordinates.LongitudeDeg),
		slog.String("preferredSource", string(req.PreferredSource)),
		slog.Bool("useCache", req.UseCache),
	)

	fetch := func(ctx context.Context) (types.IrradiationDataset, error) {
		return e.chain.Fetch(ctx, req.Coordinates, req.System.TiltDeg, req.System.AzimuthDeg, req.PreferredSource)
	}
	var dataset types.IrradiationDataset
	var err error
	if req.UseCache && e.cache != nil {
		key := irradiance.CacheKey(req.Coordinates, req.System.TiltDeg, req.System.AzimuthDeg, req.PreferredSource)
		dataset, err = e.cache.GetOrFetch(ctx, key, fetch)
	} else {
		dataset, err = fetch(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching irradiation: %w", err)
	}

	quality := irradiance.AssessQuality(dataset)
	e.tracer.Stage(ctx, "quality", "assessed dataset quality",
		slog.String("source", string(dataset.Source)),
		slog.Int("confidence", quality.ConfidenceScore),
		slog.Bool("valid", quality.IsValid),
	)
	if !quality.IsValid {
		log.Ctx(ctx).WarnContext(ctx, "low-confidence irradiation dataset",
			slog.String("source", string(dataset.Source)),
			slog.Int("confidence", quality.ConfidenceScore),
			slog.Any("warnings", quality.Warnings),
		)
	}

	losses := generation.DefaultLosses(req.System, req.Coordinates)
	if req.Losses != nil {
		override := *req.Losses
		if override.Orientation == 0 {
			override.Orientation = losses.Orientation
		}
		losses = override
	}

	monthly := generation.EstimateMonthly(dataset, req.System, losses, req.Coordinates)
	annual := generation.EstimateAnnual(monthly)
	e.tracer.Stage(ctx, "generation", "estimated generation",
		slog.Float64("annualKWH", annual),
		slog.Float64("totalLoss", losses.Total()),
	)

	result := &Result{
		RunID:                runID,
		Irradiation:          dataset,
		Quality:              quality,
		Losses:               losses,
		MonthlyGenerationKWH: monthly,
		AnnualGenerationKWH:  annual,
	}

	if req.Sizing != nil {
		sizing, err := generation.OptimalModuleCount(*req.Sizing)
		if err != nil {
			return nil, fmt.Errorf("sizing: %w", err)
		}
		sizing.CO2OffsetKgPerYear = generation.CO2OffsetKgPerYear(annual)
		result.Sizing = &sizing
		e.tracer.Stage(ctx, "sizing", "sized module array",
			slog.Int("moduleCount", sizing.ModuleCount),
			slog.String("limitingFactor", string(sizing.LimitingFactor)),
		)
	}

	if req.Financial != nil {
		financial, err := finance.Simulate(*req.Financial, monthly)
		if err != nil {
			return nil, fmt.Errorf("financial simulation: %w", err)
		}
		sensitivity, scenarios, err := finance.Analyze(*req.Financial, monthly)
		if err != nil {
			return nil, fmt.Errorf("financial analysis: %w", err)
		}
		financial.Sensitivity = sensitivity
		financial.Scenarios = scenarios
		result.Financial = financial
		e.tracer.Stage(ctx, "financial", "simulated cash flow",
			slog.Float64("npv", financial.NPV),
		)
	}

	return result, nil
}
