package resolver

import (
	"regexp"
	"strings"
)

// MaxVariants caps the number of query variants derived from one name.
const MaxVariants = 5

var (
	spaceRun      = regexp.MustCompile(`\s+`)
	parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)
	bracketed     = regexp.MustCompile(`\s*\[[^\]]*\]`)
)

// separators commonly glue fragments of phytochemical names together.
var separators = []string{"-", "_", "/", ",", ";"}

// greekToLatin spells out Greek letters the way chemical databases index
// them ("α-pinene" is filed under "alpha-pinene").
var greekToLatin = strings.NewReplacer(
	"α", "alpha", "Α", "alpha",
	"β", "beta", "Β", "beta",
	"γ", "gamma", "Γ", "gamma",
	"δ", "delta", "Δ", "delta",
	"ε", "epsilon", "Ε", "epsilon",
	"ζ", "zeta", "Ζ", "zeta",
	"η", "eta", "Η", "eta",
	"θ", "theta", "Θ", "theta",
	"κ", "kappa", "Κ", "kappa",
	"λ", "lambda", "Λ", "lambda",
	"μ", "mu", "Μ", "mu",
	"ν", "nu", "Ν", "nu",
	"ξ", "xi", "Ξ", "xi",
	"π", "pi", "Π", "pi",
	"ρ", "rho", "Ρ", "rho",
	"σ", "sigma", "ς", "sigma", "Σ", "sigma",
	"τ", "tau", "Τ", "tau",
	"υ", "upsilon", "Υ", "upsilon",
	"φ", "phi", "Φ", "phi",
	"χ", "chi", "Χ", "chi",
	"ψ", "psi", "Ψ", "psi",
	"ω", "omega", "Ω", "omega",
)

// Variants derives the ordered list of backend query candidates for a raw
// compound name. The first variant is the least transformed; later ones
// strip annotations and separators that frequently keep a name from
// matching a database entry.
//
// The list is deduplicated case-insensitively, capped at MaxVariants, and
// deterministic: the same input always yields the same list. Empty and
// whitespace-only names yield nil.
func Variants(name string) []string {
	cleaned := strings.TrimSpace(spaceRun.ReplaceAllString(name, " "))
	if cleaned == "" {
		return nil
	}

	var variants []string

	seen := make(map[string]bool)

	add := func(v string) {
		v = strings.TrimSpace(spaceRun.ReplaceAllString(v, " "))
		if v == "" {
			return
		}

		key := strings.ToLower(v)
		if seen[key] {
			return
		}

		seen[key] = true

		variants = append(variants, v)
	}

	add(cleaned)
	add(parenthetical.ReplaceAllString(cleaned, ""))
	add(bracketed.ReplaceAllString(cleaned, ""))

	for _, sep := range separators {
		if strings.Contains(cleaned, sep) {
			add(strings.ReplaceAll(cleaned, sep, " "))
			add(strings.ReplaceAll(cleaned, sep, ""))
		}
	}

	add(greekToLatin.Replace(cleaned))

	if len(variants) > MaxVariants {
		variants = variants[:MaxVariants]
	}

	return variants
}
