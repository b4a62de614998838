package engine

import (
	"github.com/sudslabs/suds/internal/corpus"
)

// fallbackStage enumerates the relaxation ladder. Each rung widens
// the scenario scope; the ladder never relaxes more than one axis at
// a time.
type fallbackStage int

const (
	stageExact fallbackStage = iota
	stageRelaxMethod
	stageRelaxSurface
	stageRelaxContaminant
	stageExhausted
)

func (s fallbackStage) String() string {
	switch s {
	case stageExact:
		return "exact"
	case stageRelaxMethod:
		return "relax_method"
	case stageRelaxSurface:
		return "relax_surface"
	case stageRelaxContaminant:
		return "relax_contaminant"
	default:
		return "exhausted"
	}
}

// relaxedScope is one (surface, dirt) pair the ladder may retry with.
type relaxedScope struct {
	Surface    string
	Dirt       string
	Similarity float64
}

// relaxationScopes selects the scopes for a ladder rung from the
// similar-scenario listing. Surface relaxation keeps the contaminant
// fixed; contaminant relaxation keeps the surface fixed. Scopes keep
// the listing's order (best similarity first) and are deduplicated
// since the listing has one row per method.
func relaxationScopes(similar []corpus.SimilarScenario, sc *scenario, stage fallbackStage) []relaxedScope {
	var scopes []relaxedScope
	seen := map[[2]string]bool{}
	for _, s := range similar {
		switch stage {
		case stageRelaxSurface:
			if s.Dirt != sc.Dirt || s.Surface == sc.Surface {
				continue
			}
		case stageRelaxContaminant:
			if s.Surface != sc.Surface || s.Dirt == sc.Dirt {
				continue
			}
		default:
			continue
		}
		key := [2]string{s.Surface, s.Dirt}
		if seen[key] {
			continue
		}
		seen[key] = true
		scopes = append(scopes, relaxedScope{Surface: s.Surface, Dirt: s.Dirt, Similarity: s.Similarity})
	}
	return scopes
}

const maxSuggestions = 3

// buildSuggestions converts the similar-scenario listing into
// alternatives for a no-match response.
func buildSuggestions(similar []corpus.SimilarScenario) []Suggestion {
	var out []Suggestion
	for _, s := range similar {
		out = append(out, Suggestion{
			Surface:    s.Surface,
			Dirt:       s.Dirt,
			Method:     s.Method,
			Similarity: s.Similarity,
		})
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
