package engine

import (
	"sort"
	"strings"

	"github.com/sudslabs/suds/internal/corpus"
)

// actionVerbs are the instruction verbs a usable step must contain.
// Steps without any of these are informational prose, not actions.
var actionVerbs = []string{
	"blot", "apply", "rinse", "vacuum", "wipe", "scrub", "clean", "remove",
	"treat", "spray", "pour", "mix", "combine", "dilute", "soak", "brush",
	"sweep", "mop", "wash", "dry", "towel", "dab", "pat", "rub", "polish",
	"sanitize", "disinfect", "prepare", "test", "cover", "spread", "let",
	"allow", "wait", "sit", "rest", "flush", "drain", "empty",
}

// informationalKeywords flag sentences that describe benefits or
// background rather than instruct.
var informationalKeywords = []string{
	"health benefits", "benefits", "prolongs", "extends", "improves",
	"helps", "can trap", "may contain", "is important", "is essential",
	"provides", "offers", "ensures", "maintains", "preserves",
	"description", "information", "about", "regarding", "concerning",
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "from": true, "by": true,
	"is": true, "are": true, "was": true, "were": true,
}

const (
	maxStepWords       = 200
	minStepConfidence  = 0.5
	relevanceThreshold = 0.2
	dedupeOverlap      = 0.7
)

// filterQuality drops steps that cannot be executed: empty or
// overlong text, low extraction confidence, no action verb, or prose
// that reads as background information rather than an instruction.
func filterQuality(steps []corpus.StepRow) []corpus.StepRow {
	kept := make([]corpus.StepRow, 0, len(steps))
	for _, st := range steps {
		text := strings.TrimSpace(st.Text)
		if text == "" {
			continue
		}
		if st.Confidence < minStepConfidence {
			continue
		}
		words := strings.Fields(text)
		if len(words) > maxStepWords {
			continue
		}
		lower := strings.ToLower(text)

		actions := 0
		for _, v := range actionVerbs {
			if strings.Contains(lower, v) {
				actions++
			}
		}
		if actions == 0 {
			continue
		}

		infos := 0
		startsInformational := false
		for _, kw := range informationalKeywords {
			if strings.Contains(lower, kw) {
				infos++
				if strings.HasPrefix(lower, kw) {
					startsInformational = true
				}
			}
		}
		if startsInformational && infos > actions {
			continue
		}
		if !startsWithVerb(lower) && infos >= 2 {
			continue
		}

		st.Text = text
		kept = append(kept, st)
	}
	return kept
}

// startsWithVerb accepts an action verb as either the first or
// second word, which covers leads like "Gently blot the stain".
func startsWithVerb(lower string) bool {
	words := strings.Fields(lower)
	if len(words) == 0 {
		return false
	}
	first := strings.Trim(words[0], ".,:;!?")
	second := ""
	if len(words) > 1 {
		second = strings.Trim(words[1], ".,:;!?")
	}
	for _, v := range actionVerbs {
		if first == v || second == v {
			return true
		}
	}
	return false
}

var dirtRelevanceBoosts = map[string][]string{
	"stain": {"blot", "remove", "treat", "clean", "rinse", "stain", "spill",
		"spot", "mark", "wine", "coffee", "ink", "apply", "solution",
		"vinegar", "baking soda"},
	"dust":     {"vacuum", "dust", "remove", "wipe", "clean", "sweep"},
	"pet_hair": {"pet hair", "hair", "vacuum", "lint", "roller", "remove"},
	"grease":   {"grease", "degrease", "scrub", "tough", "stubborn", "remove"},
	"mold":     {"mold", "mildew", "scrub", "disinfect", "sanitize", "remove"},
}

var maintenancePenaltyTerms = []string{
	"health benefits", "prolongs", "extends", "maintenance", "regular",
	"routine", "vacuum", "general", "overall",
}

var informationalPhrases = []string{
	"health benefits", "prolongs", "extends", "improves", "is important",
	"is essential", "helps", "can trap",
}

// stepRelevance scores a step against the scenario. Baseline 0.5,
// boosted by dirt-specific terms and query overlap, penalized for
// maintenance and informational phrasing. Clamped to [0, 1].
func stepRelevance(text, query, dirt string) float64 {
	score := 0.5
	lower := strings.ToLower(text)

	if boosts, ok := dirtRelevanceBoosts[dirt]; ok {
		matches := 0
		for _, term := range boosts {
			if strings.Contains(lower, term) {
				matches++
			}
		}
		limit := 0.3
		if dirt == "stain" {
			limit = 0.4
		}
		boost := float64(matches) * 0.1
		if boost > limit {
			boost = limit
		}
		score += boost

		if dirt == "stain" {
			penalties := 0
			for _, term := range maintenancePenaltyTerms {
				if strings.Contains(lower, term) {
					penalties++
				}
			}
			penalty := float64(penalties) * 0.1
			if penalty > 0.3 {
				penalty = 0.3
			}
			score -= penalty
		}
	}

	queryWords := contentWords(query)
	if len(queryWords) > 0 {
		matched := 0
		for w := range queryWords {
			if strings.Contains(lower, w) {
				matched++
			}
		}
		overlap := float64(matched) / float64(len(queryWords)) * 0.3
		if overlap > 0.3 {
			overlap = 0.3
		}
		score += overlap
	}

	infos := 0
	for _, phrase := range informationalPhrases {
		if strings.Contains(lower, phrase) {
			infos++
		}
	}
	infoPenalty := float64(infos) * 0.15
	if infoPenalty > 0.4 {
		infoPenalty = 0.4
	}
	score -= infoPenalty

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func contentWords(query string) map[string]bool {
	words := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,:;!?")
		if w != "" && !stopWords[w] {
			words[w] = true
		}
	}
	return words
}

// filterRelevance orders steps by scenario relevance and drops the
// weakest ones, but only when enough steps survive that dropping
// cannot empty the plan.
func filterRelevance(steps []corpus.StepRow, sc *scenario) []corpus.StepRow {
	type scored struct {
		step  corpus.StepRow
		score float64
	}
	scoredSteps := make([]scored, 0, len(steps))
	for _, st := range steps {
		scoredSteps = append(scoredSteps, scored{step: st, score: stepRelevance(st.Text, sc.Query, sc.Dirt)})
	}
	sort.SliceStable(scoredSteps, func(i, j int) bool {
		return scoredSteps[i].score > scoredSteps[j].score
	})

	out := make([]corpus.StepRow, 0, len(scoredSteps))
	if len(scoredSteps) > 5 {
		for _, s := range scoredSteps {
			if s.score >= relevanceThreshold {
				out = append(out, s.step)
			}
		}
		if len(out) > 0 {
			return out
		}
		out = out[:0]
	}
	for _, s := range scoredSteps {
		out = append(out, s.step)
	}
	return out
}

// normalizeStepText lowercases, collapses whitespace and strips stop
// words so trivially reworded duplicates compare equal.
func normalizeStepText(text string) string {
	var kept []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if !stopWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func tokenSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

func tokenOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for w := range a {
		if b[w] {
			shared++
		}
	}
	max := len(a)
	if len(b) > max {
		max = len(b)
	}
	return float64(shared) / float64(max)
}

// dedupeSteps removes semantically equivalent steps: identical
// normalized text or token overlap above 70%. The highest-confidence
// variant survives at the position of its first occurrence.
func dedupeSteps(steps []corpus.StepRow) []corpus.StepRow {
	type entry struct {
		step   corpus.StepRow
		norm   string
		tokens map[string]bool
	}
	var kept []entry
	for _, st := range steps {
		norm := normalizeStepText(st.Text)
		tokens := tokenSet(st.Text)
		dup := -1
		for i, k := range kept {
			if k.norm == norm || tokenOverlap(k.tokens, tokens) > dedupeOverlap {
				dup = i
				break
			}
		}
		if dup == -1 {
			kept = append(kept, entry{step: st, norm: norm, tokens: tokens})
			continue
		}
		if st.Confidence > kept[dup].step.Confidence {
			kept[dup] = entry{step: st, norm: norm, tokens: tokens}
		}
	}
	out := make([]corpus.StepRow, 0, len(kept))
	for _, k := range kept {
		out = append(out, k.step)
	}
	return out
}

// orderBuckets define the logical phases of a cleaning procedure.
// A step lands in the first bucket whose keyword it contains.
var orderBuckets = []struct {
	name     string
	keywords []string
}{
	{"prep", []string{"prepare", "mix", "combine", "dilute", "test"}},
	{"apply", []string{"apply", "spray", "pour", "spread", "cover"}},
	{"wait", []string{"wait", "let", "allow", "sit", "soak", "rest"}},
	{"clean", []string{"rinse", "wipe", "scrub", "blot", "vacuum", "clean"}},
	{"dry", []string{"dry", "towel", "air dry", "blot dry"}},
}

func bucketIndex(text string) int {
	lower := strings.ToLower(text)
	for i, b := range orderBuckets {
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				return i
			}
		}
	}
	return len(orderBuckets)
}

// orderSteps sorts into procedure phases (prep, apply, wait, clean,
// dry, other), then by the order recorded in the source document,
// then by confidence and text for a stable byte-identical result.
func orderSteps(steps []corpus.StepRow) []corpus.StepRow {
	out := make([]corpus.StepRow, len(steps))
	copy(out, steps)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ba, bb := bucketIndex(a.Text), bucketIndex(b.Text)
		if ba != bb {
			return ba < bb
		}
		oa, ob := docOrder(a), docOrder(b)
		if oa != ob {
			return oa < ob
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Text < b.Text
	})
	return out
}

func docOrder(st corpus.StepRow) int {
	if st.Order <= 0 {
		return 999
	}
	return st.Order
}
