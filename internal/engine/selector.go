package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sudslabs/suds/internal/corpus"
	"github.com/sudslabs/suds/internal/vocab"
)

// methodHints maps each method to query phrases that signal intent
// for it. The first matching hint contributes once.
var methodHints = map[string][]string{
	"spot_clean":      {"stain", "spot", "spill", "remove stain", "treat stain", "wine", "coffee", "ink", "mark", "blot"},
	"steam_clean":     {"deep clean", "deep cleaning", "steam", "sanitize", "disinfect", "thorough", "deep"},
	"vacuum":          {"maintenance", "regular", "routine", "dust", "pet hair", "debris", "vacuum", "suck", "pick up"},
	"hand_wash":       {"hand wash", "handwash", "manual", "by hand", "gentle", "delicate", "careful"},
	"washing_machine": {"machine", "washer", "laundry", "bulk", "load"},
	"dry_clean":       {"dry clean", "dryclean", "professional", "delicate fabric"},
	"wipe":            {"wipe", "clean surface", "quick", "surface clean"},
	"scrub":           {"scrub", "tough", "stubborn", "hard", "difficult"},
}

// stainQueryTerms flag a stain scenario even when the dirt type is
// something else (e.g. "wine spill" normalizing oddly).
var stainQueryTerms = []string{"stain", "spill", "wine", "coffee", "ink", "mark", "blot"}

// stainMethods are the methods that actually treat stains; vacuum and
// the rest are secondary in stain scenarios.
var stainMethods = []string{"spot_clean", "scrub", "wipe", "hand_wash"}

// selection is the outcome of method ranking.
type selection struct {
	Method      string
	Reason      string
	Candidates  []MethodCandidate
	Synthesized bool
}

type scoredMethod struct {
	summary   corpus.MethodSummary
	relevance float64
	combined  float64
}

func isStainScenario(sc *scenario) bool {
	if sc.Dirt == "stain" {
		return true
	}
	q := strings.ToLower(sc.Query)
	for _, term := range stainQueryTerms {
		if strings.Contains(q, term) {
			return true
		}
	}
	return false
}

// methodRelevance scores how well a method fits the scenario from
// intent hints, dirt-type affinity and query context. Result is
// clamped to [0, 1].
func methodRelevance(method string, sc *scenario) float64 {
	score := 0.0
	q := strings.ToLower(sc.Query)

	for _, hint := range methodHints[method] {
		if strings.Contains(q, hint) {
			score += 0.3
			break
		}
	}

	switch sc.Dirt {
	case "stain":
		if method == "spot_clean" {
			score += 0.5
		}
		if method == "vacuum" {
			score -= 0.3
		}
	case "dust":
		if method == "vacuum" {
			score += 0.4
		}
		if method == "spot_clean" {
			score -= 0.2
		}
	case "pet_hair":
		if method == "vacuum" {
			score += 0.4
		}
	case "grease":
		if method == "scrub" || method == "steam_clean" {
			score += 0.3
		}
	case "mold":
		if method == "scrub" || method == "steam_clean" {
			score += 0.3
		}
	}

	if strings.Contains(q, "deep clean") || strings.Contains(q, "deep cleaning") {
		if method == "steam_clean" {
			score += 0.4
		}
		if method == "vacuum" {
			score -= 0.2
		}
	}
	if strings.Contains(q, "maintenance") || strings.Contains(q, "routine") {
		if method == "vacuum" {
			score += 0.3
		}
		if method == "spot_clean" {
			score -= 0.2
		}
	}
	if strings.Contains(q, "stain") {
		if method == "spot_clean" {
			score += 0.5
		}
		if method == "vacuum" {
			score -= 0.3
		}
	}
	if strings.Contains(q, "remove") || strings.Contains(q, "treat") {
		if method == "spot_clean" || method == "scrub" {
			score += 0.2
		}
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// scoreMethods combines relevance with corpus evidence. Relevance
// dominates at double weight; document count saturates at 50.
// vacuumPenalty halves vacuum's relevance floor in stain scenarios.
func scoreMethods(summaries []corpus.MethodSummary, sc *scenario, vacuumPenalty bool) []scoredMethod {
	scored := make([]scoredMethod, 0, len(summaries))
	for _, m := range summaries {
		rel := methodRelevance(m.Method, sc)
		if vacuumPenalty && m.Method == "vacuum" {
			rel -= 0.5
			if rel < 0 {
				rel = 0
			}
		}
		docScore := float64(m.DocumentCount) / 50.0
		if docScore > 1 {
			docScore = 1
		}
		scored = append(scored, scoredMethod{
			summary:   m,
			relevance: rel,
			combined:  rel*2.0 + docScore*0.5 + m.AvgConfidence*0.5,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.combined != b.combined {
			return a.combined > b.combined
		}
		if a.summary.DocumentCount != b.summary.DocumentCount {
			return a.summary.DocumentCount > b.summary.DocumentCount
		}
		if a.summary.AvgConfidence != b.summary.AvgConfidence {
			return a.summary.AvgConfidence > b.summary.AvgConfidence
		}
		return a.summary.Method < b.summary.Method
	})
	return scored
}

func candidatesFromScored(scored []scoredMethod) []MethodCandidate {
	out := make([]MethodCandidate, 0, len(scored))
	for _, s := range scored {
		out = append(out, MethodCandidate{Method: s.summary.Method, Score: round2(s.combined)})
	}
	return out
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// selectMethod ranks the corpus methods for the scenario. A method
// the caller requested wins outright when the corpus covers it.
// Stain scenarios are restricted to stain-focused methods when any
// are available, and wool under gentle constraints may synthesize a
// spot_clean plan that the corpus never observed.
func selectMethod(summaries []corpus.MethodSummary, sc *scenario, cons Constraints) selection {
	available := make(map[string]corpus.MethodSummary, len(summaries))
	for _, m := range summaries {
		available[m.Method] = m
	}

	userMethod := sc.Method
	if userMethod == "" {
		userMethod = cons.PreferredMethod
	}
	if userMethod != "" {
		if _, ok := available[userMethod]; ok && methodAllowed(userMethod, cons) {
			candidates := make([]MethodCandidate, 0, len(summaries))
			for _, m := range summaries {
				score := 0.0
				if m.Method == userMethod {
					score = 1.0
				}
				candidates = append(candidates, MethodCandidate{Method: m.Method, Score: score})
			}
			return selection{
				Method:     userMethod,
				Reason:     fmt.Sprintf("User specified method: %s", userMethod),
				Candidates: candidates,
			}
		}
	}

	stain := isStainScenario(sc)
	gentle := cons.GentleOnly || cons.NoHarshChemicals

	var pool []corpus.MethodSummary
	vacuumPenalty := false
	synthesized := false

	if stain {
		for _, m := range summaries {
			for _, sm := range stainMethods {
				if m.Method == sm {
					pool = append(pool, m)
					break
				}
			}
		}
		switch {
		case len(pool) > 0:
			vacuumPenalty = true
		case sc.Wool && gentle:
			synthesized = true
			pool = summaries
		default:
			pool = summaries
			vacuumPenalty = true
		}
	} else {
		pool = summaries
	}

	if gentle && !synthesized {
		var gentlePool []corpus.MethodSummary
		for _, m := range pool {
			if vocab.IsGentleMethod(m.Method) {
				gentlePool = append(gentlePool, m)
			}
		}
		if len(gentlePool) > 0 {
			pool = gentlePool
		}
	}

	if synthesized {
		scored := scoreMethods(pool, sc, false)
		candidates := []MethodCandidate{{Method: "spot_clean", Score: 1.0}}
		for _, s := range scored {
			candidates = append(candidates, MethodCandidate{Method: s.summary.Method, Score: round2(s.relevance * 0.3)})
		}
		return selection{
			Method: "spot_clean",
			Reason: "Wool material detected with stain scenario. No stain-focused methods available in corpus, " +
				"but wool + stain + gentle constraints require a gentle spot cleaning approach. " +
				"Synthesized spot_clean method as primary; corpus methods (vacuum, etc.) are secondary options.",
			Candidates:  candidates,
			Synthesized: true,
		}
	}

	scored := scoreMethods(pool, sc, vacuumPenalty)
	if len(scored) == 0 {
		return selection{}
	}
	best := scored[0]

	var reason string
	switch {
	case stain && best.summary.Method == "spot_clean":
		reason = "Stain scenario detected: stain keywords matched spot_clean method. " +
			"Spot cleaning is the primary method for stain removal; vacuum is secondary."
	case stain && isStainMethod(best.summary.Method):
		reason = fmt.Sprintf("Stain scenario detected: %s selected as stain-focused method. "+
			"Vacuum treated as secondary for stain removal.", best.summary.Method)
	case stain:
		reason = fmt.Sprintf("Stain scenario detected: %s selected (stain-focused methods not available). "+
			"Vacuum would be secondary if available.", best.summary.Method)
	default:
		reason = fmt.Sprintf("Selected %s based on relevance score (%.2f), document count (%d), and confidence (%.2f).",
			best.summary.Method, best.relevance, best.summary.DocumentCount, best.summary.AvgConfidence)
	}
	if gentle {
		reason += " Constraints require gentle method."
	}

	return selection{
		Method:     best.summary.Method,
		Reason:     reason,
		Candidates: candidatesFromScored(scored),
	}
}

func isStainMethod(method string) bool {
	for _, m := range stainMethods {
		if m == method {
			return true
		}
	}
	return false
}

// methodAllowed reports whether the gentle constraints permit the
// method at all.
func methodAllowed(method string, cons Constraints) bool {
	if cons.GentleOnly || cons.NoHarshChemicals {
		return vocab.IsGentleMethod(method)
	}
	return true
}
