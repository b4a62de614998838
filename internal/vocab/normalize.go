package vocab

import "strings"

// normalizeTerm resolves a free-text term against one vocabulary axis:
// direct keyword hit, then canonical hit, then a conservative containment
// scan in table order. Unresolved terms return ok=false, never a guess.
func normalizeTerm(term string, table []entry, direct map[string]string, canonical map[string]bool) (string, bool) {
	t := strings.TrimSpace(strings.ToLower(term))
	if t == "" {
		return "", false
	}
	if c, ok := direct[t]; ok {
		return c, true
	}
	if canonical[t] {
		return t, true
	}
	for _, e := range table {
		for _, kw := range e.keywords {
			if strings.Contains(t, kw) || strings.Contains(kw, t) {
				return e.canonical, true
			}
		}
	}
	return "", false
}

// NormalizeSurface maps a surface term ("couch", "settee", "area rug") to
// its canonical surface type.
func NormalizeSurface(term string) (string, bool) {
	return normalizeTerm(term, surfaceTable, surfaceLookup, canonicalSurfaces)
}

// NormalizeDirt maps a dirt term ("spill", "musty", "limescale") to its
// canonical dirt type.
func NormalizeDirt(term string) (string, bool) {
	return normalizeTerm(term, dirtTable, dirtLookup, canonicalDirt)
}

// NormalizeMethod maps a method term to its canonical cleaning method.
// Spaces collapse to underscores first so spaced canonical forms
// ("spot clean") resolve alongside the underscore form.
func NormalizeMethod(term string) (string, bool) {
	t := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(term)), " ", "_")
	if t == "" {
		return "", false
	}
	if c, ok := methodLookup[t]; ok {
		return c, true
	}
	if canonicalMethods[t] {
		return t, true
	}
	for _, e := range methodTable {
		for _, kw := range e.keywords {
			if strings.Contains(t, kw) || strings.Contains(kw, t) {
				return e.canonical, true
			}
		}
	}
	return "", false
}

// NormalizeTool maps a tool mention ("paper towels", "magic eraser") to its
// canonical tool category.
func NormalizeTool(term string) (string, bool) {
	return normalizeTerm(term, toolTable, toolLookup, canonicalTools)
}

// ExtractScenario scans free text for the first surface, dirt, and method
// keyword on each axis. Any axis may come back empty.
func ExtractScenario(text string) (surface, dirt, method string) {
	t := strings.ToLower(text)
	surface = firstHit(t, surfaceTable)
	dirt = firstHit(t, dirtTable)
	method = firstHit(t, methodTable)
	return surface, dirt, method
}

func firstHit(text string, table []entry) string {
	for _, e := range table {
		for _, kw := range e.keywords {
			if strings.Contains(text, kw) {
				return e.canonical
			}
		}
	}
	return ""
}

// DetectWoolNuance reports whether the query or the context material
// mentions wool. Wool scenarios steer method selection toward gentle
// spot treatment.
func DetectWoolNuance(raw, material string) bool {
	for _, kw := range []string{"wool", "woolen", "woollen"} {
		if strings.Contains(strings.ToLower(raw), kw) {
			return true
		}
		if strings.Contains(strings.ToLower(material), kw) {
			return true
		}
	}
	return false
}

// IsValidSurface reports whether value is a canonical surface type.
func IsValidSurface(value string) bool { return canonicalSurfaces[strings.ToLower(value)] }

// IsValidDirt reports whether value is a canonical dirt type.
func IsValidDirt(value string) bool { return canonicalDirt[strings.ToLower(value)] }

// IsValidMethod reports whether value is a canonical cleaning method.
func IsValidMethod(value string) bool { return canonicalMethods[strings.ToLower(value)] }
