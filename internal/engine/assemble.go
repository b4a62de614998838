package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sudslabs/suds/internal/corpus"
)

var durationPatterns = []struct {
	re         *regexp.Regexp
	multiplier int
}{
	{regexp.MustCompile(`(\d+)\s*(?:minute|min|m)\s*s?`), 60},
	{regexp.MustCompile(`(\d+)\s*(?:second|sec|s)\s*`), 1},
	{regexp.MustCompile(`(\d+)\s*(?:hour|hr|h)\s*`), 3600},
}

// estimateStepDuration reads an explicit time mention out of the text
// or falls back to a heuristic by action type.
func estimateStepDuration(text string) int {
	lower := strings.ToLower(text)
	for _, p := range durationPatterns {
		if m := p.re.FindStringSubmatch(lower); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n * p.multiplier
			}
		}
	}
	switch {
	case containsAny(lower, "wait", "let", "sit", "soak"):
		return 600
	case containsAny(lower, "rinse", "wipe", "blot"):
		return 180
	case containsAny(lower, "scrub", "clean"):
		return 300
	case containsAny(lower, "prepare", "mix"):
		return 120
	default:
		return 60
	}
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// actionSummary prefers the extracted summary and otherwise abbreviates
// the step text to its first five words.
func actionSummary(summary, text string) string {
	if s := strings.TrimSpace(summary); s != "" {
		return s
	}
	words := strings.Fields(text)
	if len(words) > 5 {
		return strings.Join(words[:5], " ") + "..."
	}
	return strings.Join(words, " ")
}

// formatSteps turns ordered step rows into numbered workflow steps
// with extracted tools and duration estimates.
func formatSteps(rows []corpus.StepRow) []Step {
	steps := make([]Step, 0, len(rows))
	for i, row := range rows {
		steps = append(steps, Step{
			StepNumber:      i + 1,
			Action:          actionSummary(row.Summary, row.Text),
			Description:     row.Text,
			Tools:           extractStepTools(row.Text),
			DurationSeconds: estimateStepDuration(row.Text),
			Order:           i + 1,
		})
	}
	return steps
}

var safetyKeywords = []string{
	"warning", "caution", "danger", "safety", "ventilate",
	"gloves", "test", "damage", "toxic", "harmful",
}

var tipKeywords = []string{"tip", "hint", "recommend", "suggest", "best", "better"}

// extractKeywordSentences pulls sentences containing any keyword from
// the reference documents' step text, deduplicated in encounter order.
func extractKeywordSentences(docs []*corpus.Document, keywords []string, limit int) []string {
	var out []string
	seen := map[string]bool{}
	for _, doc := range docs {
		for _, step := range doc.Steps {
			lower := strings.ToLower(step.Text)
			if !containsAny(lower, keywords...) {
				continue
			}
			for _, sentence := range strings.Split(lower, ".") {
				sentence = strings.TrimSpace(sentence)
				if len(sentence) <= 20 || !containsAny(sentence, keywords...) {
					continue
				}
				sentence = upperFirst(sentence)
				if !seen[sentence] {
					seen[sentence] = true
					out = append(out, sentence)
				}
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// extractSafetyNotes combines corpus-derived cautions with notes for
// the active constraints. Limited to 10.
func extractSafetyNotes(docs []*corpus.Document, cons Constraints) []string {
	notes := extractKeywordSentences(docs, safetyKeywords, 10)
	seen := map[string]bool{}
	for _, n := range notes {
		seen[n] = true
	}
	add := func(note string) {
		if !seen[note] {
			seen[note] = true
			notes = append(notes, note)
		}
	}
	if cons.NoBleach {
		add("Do not use bleach or bleach-containing products")
	}
	if cons.NoHarshChemicals {
		add("Use only gentle, non-harsh cleaning solutions")
	}
	if cons.GentleOnly {
		add("Use gentle methods only to avoid damage")
	}
	if len(notes) > 10 {
		notes = notes[:10]
	}
	return notes
}

func extractTips(docs []*corpus.Document) []string {
	return extractKeywordSentences(docs, tipKeywords, 5)
}

// difficultyFor grades a workflow by step count.
func difficultyFor(steps int) string {
	switch {
	case steps <= 3:
		return "easy"
	case steps <= 6:
		return "moderate"
	default:
		return "hard"
	}
}

func totalDurationMinutes(steps []Step) int {
	total := 0
	for _, s := range steps {
		total += s.DurationSeconds
	}
	return int(math.Round(float64(total) / 60.0))
}

// workflowConfidence is the mean extraction confidence of the source
// documents, weighted by how many retained steps each contributed.
func workflowConfidence(rows []corpus.StepRow) float64 {
	type agg struct {
		conf  float64
		count int
	}
	perDoc := map[string]*agg{}
	var order []string
	for _, row := range rows {
		a, ok := perDoc[row.DocumentID]
		if !ok {
			a = &agg{conf: row.DocConfidence}
			perDoc[row.DocumentID] = a
			order = append(order, row.DocumentID)
		}
		a.count++
	}
	if len(order) == 0 {
		return 0.7
	}
	var weighted float64
	var total int
	for _, id := range order {
		a := perDoc[id]
		weighted += a.conf * float64(a.count)
		total += a.count
	}
	return math.Round(weighted/float64(total)*1000) / 1000
}

const maxSourceDocuments = 5

// sourceDocuments lists the documents behind the final steps in
// first-contribution order, capped at five.
func sourceDocuments(rows []corpus.StepRow) []SourceDocument {
	var docs []SourceDocument
	seen := map[string]bool{}
	for _, row := range rows {
		if seen[row.DocumentID] {
			continue
		}
		seen[row.DocumentID] = true
		docs = append(docs, SourceDocument{
			DocumentID:           row.DocumentID,
			URL:                  row.DocURL,
			Title:                row.DocTitle,
			RelevanceScore:       0.9,
			ExtractionConfidence: row.DocConfidence,
		})
		if len(docs) == maxSourceDocuments {
			break
		}
	}
	return docs
}
