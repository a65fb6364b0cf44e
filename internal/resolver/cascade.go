package resolver

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/phytocore/smiq/pkg/smiles"
)

var tracer = otel.Tracer("resolver")

// Hard caps on sub-requests per attempt, to bound the worst-case cost of
// the indirect strategies.
const (
	maxCIDsPerLookup     = 3
	maxSynonymsPerLookup = 5
)

// Resolver runs the resolution cascade for individual compound names.
// It owns the per-run cache and failure registry; neither outlives the
// Resolver or is shared between instances.
type Resolver struct {
	backend Backend
	cache   *Cache
	failed  *FailureRegistry
	fuzzy   bool
}

// NewResolver creates a Resolver with a cold cache. enableFuzzy controls
// whether the wildcard strategy participates in the cascade.
func NewResolver(backend Backend, enableFuzzy bool) *Resolver {
	return &Resolver{
		backend: backend,
		cache:   NewCache(),
		failed:  NewFailureRegistry(),
		fuzzy:   enableFuzzy,
	}
}

// Cache exposes the per-run cache, mainly for reporting its size.
func (r *Resolver) Cache() *Cache { return r.cache }

// Failures exposes the per-run failure registry.
func (r *Resolver) Failures() *FailureRegistry { return r.failed }

// strategies returns the cascade order: cheapest and most precise first,
// wildcard matching last.
func (r *Resolver) strategies() []Strategy {
	s := []Strategy{StrategyDirect, StrategyCID, StrategySynonym, StrategyFreeText}
	if r.fuzzy {
		s = append(s, StrategyFuzzy)
	}

	return s
}

// Resolve runs the full cascade for one compound name.
//
// Iteration is strategy-major: every variant is tried under the current
// strategy before the next strategy is considered. The first attempt that
// yields a validator-accepted SMILES wins and is cached; if all attempts
// are exhausted the name enters the failure registry. A transport error on
// one (strategy, variant) pair is a miss for that pair only.
func (r *Resolver) Resolve(ctx context.Context, name string) Outcome {
	ctx, span := tracer.Start(ctx, "Resolve",
		trace.WithAttributes(attribute.String("compound.name", name)))
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return Outcome{Name: name, Status: StatusInvalid}
	}

	if s, ok := r.cache.Get(name); ok {
		return Outcome{Name: name, SMILES: s, Strategy: StrategyCached, Status: StatusSuccess}
	}

	if r.failed.Has(name) {
		return Outcome{Name: name, Strategy: StrategySkipped, Status: StatusNotFound}
	}

	variants := Variants(name)

	for _, strategy := range r.strategies() {
		for _, variant := range variants {
			if ctx.Err() != nil {
				// Canceled mid-cascade: the name is not exhausted, so it
				// must not enter the failure registry.
				return Outcome{Name: name, Status: StatusError}
			}

			s, err := r.attempt(ctx, strategy, variant)
			if err != nil {
				slog.Debug("resolver: attempt failed",
					"name", name, "strategy", strategy, "variant", variant, "err", err)

				continue
			}

			if smiles.Valid(s) {
				r.cache.Put(name, s)

				return Outcome{
					Name:     name,
					SMILES:   s,
					Strategy: strategy,
					Variant:  variant,
					Status:   StatusSuccess,
				}
			}
		}
	}

	r.failed.Add(name)

	return Outcome{Name: name, Status: StatusNotFound}
}

// attempt runs one (strategy, variant) pair. It returns "" when the
// backend has no answer and an error only for transport failures.
func (r *Resolver) attempt(ctx context.Context, strategy Strategy, variant string) (string, error) {
	switch strategy {
	case StrategyDirect:
		return r.backend.SMILESByName(ctx, variant)

	case StrategyCID:
		cids, err := r.backend.CIDsByName(ctx, variant)
		if err != nil {
			return "", err
		}

		return r.smilesFromCIDs(ctx, cids)

	case StrategySynonym:
		syns, err := r.backend.SynonymsByName(ctx, variant)
		if err != nil {
			return "", err
		}

		if len(syns) > maxSynonymsPerLookup {
			syns = syns[:maxSynonymsPerLookup]
		}

		for _, syn := range syns {
			s, err := r.backend.SMILESByName(ctx, syn)
			if err != nil {
				return "", err
			}

			if smiles.Valid(s) {
				return s, nil
			}
		}

		return "", nil

	case StrategyFreeText:
		return r.backend.SMILESByRawName(ctx, variant)

	case StrategyFuzzy:
		cids, err := r.backend.CIDsByName(ctx, variant+"*")
		if err != nil {
			return "", err
		}

		return r.smilesFromCIDs(ctx, cids)
	}

	return "", nil
}

// smilesFromCIDs tries the first few candidate CIDs for a usable SMILES.
func (r *Resolver) smilesFromCIDs(ctx context.Context, cids []int) (string, error) {
	if len(cids) > maxCIDsPerLookup {
		cids = cids[:maxCIDsPerLookup]
	}

	for _, cid := range cids {
		s, err := r.backend.SMILESByCID(ctx, cid)
		if err != nil {
			return "", err
		}

		if smiles.Valid(s) {
			return s, nil
		}
	}

	return "", nil
}
