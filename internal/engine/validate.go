package engine

import (
	"fmt"
	"strings"

	"github.com/sudslabs/suds/internal/corpus"
	"github.com/sudslabs/suds/internal/vocab"
)

// Substance blocklists. no_harsh_chemicals is a superset of no_bleach.
var bleachTerms = []string{"bleach", "chlorine", "hydrogen peroxide"}

var harshTerms = []string{
	"bleach", "chlorine", "hydrogen peroxide",
	"ammonia", "solvent", "caustic", "acid",
}

// aggressiveTerms mark steps incompatible with gentle-only cleaning.
var aggressiveTerms = []string{"scrub", "scour", "abrasive", "scrape"}

// violation is a hard constraint failure that disqualifies the
// current method entirely.
type violation struct {
	Constraint string
	Reason     string
}

// rowValidation carries the possibly filtered step rows plus the
// warnings the filtering produced.
type rowValidation struct {
	Rows      []corpus.StepRow
	Warnings  []string
	Degraded  bool
	Violation *violation
}

// blockedTermIn returns the first blocked substance mentioned in the
// text, or "".
func blockedTermIn(text string, blocked []string) string {
	lower := strings.ToLower(text)
	for _, term := range blocked {
		if strings.Contains(lower, term) {
			return term
		}
	}
	return ""
}

// validateRows checks the ordered step rows against the constraint
// set. A step that instructs use of a forbidden substance disqualifies
// the whole method. Gentle-only rejects non-gentle methods outright
// and softens aggressive steps when enough remain.
func validateRows(method string, rows []corpus.StepRow, cons Constraints, effectiveMin int) rowValidation {
	res := rowValidation{Rows: rows}

	if cons.GentleOnly && !vocab.IsGentleMethod(method) {
		res.Violation = &violation{
			Constraint: "gentle_only",
			Reason:     fmt.Sprintf("method %s is not a gentle cleaning method", method),
		}
		return res
	}

	check := func(constraint string, blocked []string) bool {
		for _, row := range res.Rows {
			if term := blockedTermIn(row.Text, blocked); term != "" {
				res.Violation = &violation{
					Constraint: constraint,
					Reason:     fmt.Sprintf("step instructions require %s", term),
				}
				return false
			}
		}
		return true
	}

	if cons.NoBleach && !check("no_bleach", bleachTerms) {
		return res
	}
	if cons.NoHarshChemicals && !check("no_harsh_chemicals", harshTerms) {
		return res
	}

	if cons.GentleOnly {
		var kept []corpus.StepRow
		dropped := 0
		for _, row := range res.Rows {
			if blockedTermIn(row.Text, aggressiveTerms) != "" {
				dropped++
				continue
			}
			kept = append(kept, row)
		}
		switch {
		case dropped == 0:
		case len(kept) >= effectiveMin:
			res.Rows = kept
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("Removed %d aggressive step(s) to honor gentle_only", dropped))
			res.Degraded = true
		default:
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%d step(s) use aggressive techniques; kept to preserve a viable workflow despite gentle_only", dropped))
			res.Degraded = true
		}
	}

	return res
}

// validateTools removes tools that mention a forbidden substance.
// Step-extracted tools are never affected: the substance scan on step
// text runs first and disqualifies the method instead.
func validateTools(tools []RequiredTool, cons Constraints) ([]RequiredTool, []string, bool) {
	var warnings []string
	degraded := false

	if cons.NoBleach {
		var removed []string
		tools, removed = dropForbiddenTools(tools, bleachTerms)
		for _, name := range removed {
			warnings = append(warnings, fmt.Sprintf("Removed tool %q: conflicts with no_bleach", name))
			degraded = true
		}
	}
	if cons.NoHarshChemicals {
		var removed []string
		tools, removed = dropForbiddenTools(tools, harshTerms)
		for _, name := range removed {
			warnings = append(warnings, fmt.Sprintf("Removed tool %q: conflicts with no_harsh_chemicals", name))
			degraded = true
		}
	}

	return tools, warnings, degraded
}

// effectiveMinSteps relaxes the configured minimum by one (never
// below two) when limited-data mode is on and at least two steps
// were found.
func effectiveMinSteps(found, minSteps int, allowFewer bool) int {
	if allowFewer && found >= 2 {
		em := minSteps - 1
		if em < 2 {
			em = 2
		}
		return em
	}
	return minSteps
}

// absoluteMinSteps is the floor below which a workflow is rejected
// outright.
func absoluteMinSteps(minSteps int, allowFewer bool) int {
	if allowFewer {
		return 2
	}
	return minSteps
}
