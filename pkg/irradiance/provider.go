// Package irradiance acquires monthly solar irradiation for a coordinate
// from one or more upstream sources, with a fixed fallback order, a bounded
// in-memory cache, and a data-quality assessment of whatever came back.
package irradiance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/helioplan/helioplan/pkg/log"
	"github.com/helioplan/helioplan/pkg/types"
)

// Provider fetches monthly irradiation for a coordinate and orientation.
// Implementations must be pure: the same inputs yield the same dataset
// (modulo GeneratedAt), so results are safe to cache and to overwrite.
type Provider interface {
	// Source identifies the upstream this provider represents.
	Source() types.IrradiationSource

	// Fetch returns the dataset for the coordinate. Coordinates and
	// orientation are validated by the caller before Fetch is invoked.
	Fetch(ctx context.Context, coords types.Coordinates, tiltDeg, azimuthDeg float64) (types.IrradiationDataset, error)
}

// Chain tries providers in a fixed priority order until one succeeds.
// The regional table terminates every chain, so in practice Fetch only
// fails when the chain was constructed without it.
type Chain struct {
	providers []Provider
}

// NewChain creates a chain trying the given providers in order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Configured sets up the default chain: solar atlas, then NASA POWER, then
// the built-in regional table.
func Configured() *Chain {
	return NewChain(configuredSolarAtlas(), configuredNASAPower(), NewRegionalTable())
}

// Fetch validates the inputs and walks the chain, starting at the preferred
// source when one is given. Each source gets at most one retry; the chain
// never retries an individual network error more than that. It returns
// ErrUpstreamUnavailable only if every source in the chain failed.
func (c *Chain) Fetch(ctx context.Context, coords types.Coordinates, tiltDeg, azimuthDeg float64, preferred types.IrradiationSource) (types.IrradiationDataset, error) {
	if err := coords.Validate(); err != nil {
		return types.IrradiationDataset{}, err
	}
	if tiltDeg < 0 || tiltDeg > 90 {
		return types.IrradiationDataset{}, fmt.Errorf("%w: tilt %f out of [0,90]", types.ErrInvalidSystemParameters, tiltDeg)
	}
	if azimuthDeg < -180 || azimuthDeg > 180 {
		return types.IrradiationDataset{}, fmt.Errorf("%w: azimuth %f out of [-180,180]", types.ErrInvalidSystemParameters, azimuthDeg)
	}

	ordered := c.providers
	if preferred != "" {
		ordered = make([]Provider, 0, len(c.providers))
		for _, p := range c.providers {
			if p.Source() == preferred {
				ordered = append(ordered, p)
			}
		}
		for _, p := range c.providers {
			if p.Source() != preferred {
				ordered = append(ordered, p)
			}
		}
	}

	var errs []error
	for _, p := range ordered {
		// initial attempt plus at most one retry per source
		for attempt := 0; attempt < 2; attempt++ {
			if ctx.Err() != nil {
				return types.IrradiationDataset{}, ctx.Err()
			}
			dataset, err := p.Fetch(ctx, coords, tiltDeg, azimuthDeg)
			if err == nil {
				log.Ctx(ctx).DebugContext(
					ctx,
					"fetched irradiation",
					slog.String("source", string(p.Source())),
					slog.Float64("annualKWHPerM2", dataset.AnnualKWHPerM2),
				)
				return dataset, nil
			}
			log.Ctx(ctx).WarnContext(
				ctx,
				"irradiation source failed",
				slog.String("source", string(p.Source())),
				slog.Int("attempt", attempt+1),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", p.Source(), err))
		}
	}

	return types.IrradiationDataset{}, fmt.Errorf("%w: %w", types.ErrUpstreamUnavailable, errors.Join(errs...))
}
