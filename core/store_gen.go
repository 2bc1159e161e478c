package core

import "fmt"

func UniformGenerator(storeKey string, seed uint64, versions int64) ChangesetGenerator {
	return ChangesetGenerator{
		StoreKey:         storeKey,
		Seed:             seed,
		Pattern:          PatternUniform,
		InitialSize:      10_000,
		FinalSize:        50_000,
		Versions:         versions,
		ChangePerVersion: 2_000,
		DeleteFraction:   0.25,
	}
}

// AscendingGenerator creates keys in increasing order, the worst case for
// an unbalanced tree. Sizes are kept small because every insert walks the
// whole chain.
func AscendingGenerator(storeKey string, seed uint64, versions int64) ChangesetGenerator {
	return ChangesetGenerator{
		StoreKey:         storeKey,
		Seed:             seed,
		Pattern:          PatternAscending,
		InitialSize:      500,
		FinalSize:        2_500,
		Versions:         versions,
		ChangePerVersion: 100,
		DeleteFraction:   0.2,
	}
}

func DescendingGenerator(storeKey string, seed uint64, versions int64) ChangesetGenerator {
	gen := AscendingGenerator(storeKey, seed, versions)
	gen.Pattern = PatternDescending
	return gen
}

func SmallGenerators(seed uint64, versions int64) []ChangesetGenerator {
	return []ChangesetGenerator{
		UniformGenerator("bank", seed, versions),
		UniformGenerator("staking", seed+1, versions),
	}
}

func DegenerateGenerators(seed uint64, versions int64) []ChangesetGenerator {
	return []ChangesetGenerator{
		AscendingGenerator("ledger", seed, versions),
		DescendingGenerator("lockup", seed+1, versions),
	}
}

// Profiles names the generator sets selectable from the command line.
var Profiles = map[string]func(seed uint64, versions int64) []ChangesetGenerator{
	"small":      SmallGenerators,
	"degenerate": DegenerateGenerators,
	"mixed": func(seed uint64, versions int64) []ChangesetGenerator {
		return []ChangesetGenerator{
			UniformGenerator("bank", seed, versions),
			AscendingGenerator("ledger", seed+1, versions),
		}
	},
}

func ProfileGenerators(profile string, seed uint64, versions int64) ([]ChangesetGenerator, error) {
	fn, ok := Profiles[profile]
	if !ok {
		return nil, fmt.Errorf("unknown generator profile: %s", profile)
	}
	return fn(seed, versions), nil
}
