// Package resolver implements the compound identifier resolution engine:
// it takes free-text compound names and resolves each to a canonical
// SMILES string through a prioritized cascade of backend lookup
// strategies, with per-run caching, failure memoization, and bounded
// concurrency.
package resolver

import "context"

// Status classifies the outcome of resolving one compound name.
type Status string

const (
	// StatusSuccess means a validated SMILES was found.
	StatusSuccess Status = "success"
	// StatusNotFound means every strategy/variant combination was
	// exhausted (or the name was already known to be unresolvable).
	StatusNotFound Status = "not_found"
	// StatusInvalid means the input name was empty or whitespace-only
	// and no backend traffic was issued.
	StatusInvalid Status = "invalid"
	// StatusError means the cascade was aborted by cancellation or an
	// internal failure before it could finish.
	StatusError Status = "error"
)

// Strategy identifies one method of turning a query variant into a SMILES.
// Strategies are tried in a fixed priority order; see Resolver.
type Strategy string

const (
	// StrategyDirect queries the name-to-SMILES endpoint.
	StrategyDirect Strategy = "direct"
	// StrategyCID resolves the name to compound IDs, then each ID to SMILES.
	StrategyCID Strategy = "cid"
	// StrategySynonym fetches synonyms for the name and retries the
	// direct lookup on each.
	StrategySynonym Strategy = "synonym"
	// StrategyFreeText submits the name as a request body, for names
	// whose characters do not embed safely in a URL path.
	StrategyFreeText Strategy = "freetext"
	// StrategyFuzzy appends a wildcard to the name and accepts the first
	// plausible match. Most expensive and least precise, always last.
	StrategyFuzzy Strategy = "fuzzy"

	// StrategyCached marks a hit served from the per-run cache.
	StrategyCached Strategy = "cached"
	// StrategySkipped marks a name short-circuited by the failure registry.
	StrategySkipped Strategy = "skipped"
	// StrategyNone marks outcomes with no winning strategy.
	StrategyNone Strategy = ""
)

// Outcome is the result of resolving one compound name. It is produced
// exactly once per name per run; repeats are served from the cache.
type Outcome struct {
	Name     string   `json:"name"`
	SMILES   string   `json:"smiles,omitempty"`
	Strategy Strategy `json:"strategy,omitempty"`
	Variant  string   `json:"variant,omitempty"`
	Status   Status   `json:"status"`
}

// Backend is the lookup surface the cascade runs against. It is satisfied
// by pubchem.Client; tests substitute in-memory fakes.
//
// All methods report "not found" as a zero value with a nil error. Errors
// are reserved for transport failures.
type Backend interface {
	SMILESByName(ctx context.Context, name string) (string, error)
	SMILESByRawName(ctx context.Context, name string) (string, error)
	SMILESByCID(ctx context.Context, cid int) (string, error)
	CIDsByName(ctx context.Context, name string) ([]int, error)
	SynonymsByName(ctx context.Context, name string) ([]string, error)
}

// SMILESMap flattens a set of outcomes into the name-to-SMILES mapping
// handed to the dataset-writing collaborator. Unresolved names map to "".
func SMILESMap(outcomes map[string]Outcome) map[string]string {
	m := make(map[string]string, len(outcomes))
	for name, o := range outcomes {
		m[name] = o.SMILES
	}

	return m
}
