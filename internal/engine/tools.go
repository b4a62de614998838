package engine

import (
	"sort"
	"strings"

	"github.com/sudslabs/suds/internal/corpus"
)

// stepToolKeywords are scanned in order against step text; multi-word
// names go first so "paper towel" wins over "towel".
var stepToolKeywords = []string{
	"paper towel", "towel", "spray bottle", "vinegar", "water",
	"brush", "sponge", "vacuum", "cloth", "gloves",
}

// extractStepTools pulls tool mentions out of step text, normalized
// to underscore form.
func extractStepTools(text string) []string {
	lower := strings.ToLower(text)
	var tools []string
	for _, kw := range stepToolKeywords {
		if strings.Contains(lower, kw) {
			tools = append(tools, strings.ReplaceAll(kw, " ", "_"))
		}
	}
	return tools
}

// estimateQuantity guesses a sensible quantity from the tool name.
func estimateQuantity(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "towel") || strings.Contains(lower, "cloth"):
		return "several"
	case strings.Contains(lower, "bottle") || strings.Contains(lower, "spray"):
		return "1"
	case strings.Contains(lower, "vinegar") || strings.Contains(lower, "water"):
		return "1 cup"
	case strings.Contains(lower, "gloves"):
		return "1 pair"
	default:
		return "1"
	}
}

// primaryThreshold implements the median usage rule: tools in the top
// half by usage count are primary. A single tool is always primary.
func primaryThreshold(rows []corpus.ToolRow) int {
	if len(rows) == 0 {
		return 0
	}
	sorted := make([]corpus.ToolRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})
	if len(sorted) == 1 {
		return sorted[0].UsageCount
	}
	return sorted[len(sorted)/2].UsageCount
}

// aggregateTools merges corpus tool usage with tools mentioned in the
// final steps. Corpus tools keep their fetch order; tools that only
// appear in step text follow, marked required since the instructions
// cannot be executed without them.
func aggregateTools(rows []corpus.ToolRow, steps []Step) []RequiredTool {
	threshold := primaryThreshold(rows)

	tools := make([]RequiredTool, 0, len(rows))
	index := make(map[string]bool, len(rows))
	for _, row := range rows {
		index[row.Name] = true
		tools = append(tools, RequiredTool{
			Name:       row.Name,
			Category:   row.Category,
			Quantity:   estimateQuantity(row.Name),
			IsRequired: row.UsageCount >= threshold,
		})
	}

	for _, step := range steps {
		for _, name := range step.Tools {
			if index[name] {
				continue
			}
			index[name] = true
			tools = append(tools, RequiredTool{
				Name:       name,
				Quantity:   estimateQuantity(name),
				IsRequired: true,
			})
		}
	}
	return tools
}

// dropForbiddenTools removes tools whose name or category mentions a
// blocked substance. Returns the removed names for warnings.
func dropForbiddenTools(tools []RequiredTool, blocked []string) ([]RequiredTool, []string) {
	kept := make([]RequiredTool, 0, len(tools))
	var removed []string
	for _, t := range tools {
		name := strings.ToLower(t.Name)
		category := strings.ToLower(t.Category)
		hit := false
		for _, term := range blocked {
			if strings.Contains(name, term) || strings.Contains(category, term) {
				hit = true
				break
			}
		}
		if hit {
			removed = append(removed, t.Name)
			continue
		}
		kept = append(kept, t)
	}
	return kept, removed
}
