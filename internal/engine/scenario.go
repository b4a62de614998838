package engine

import (
	"fmt"
	"strings"

	"github.com/sudslabs/suds/internal/vocab"
)

// scenario is the fully normalized planning input. Method is empty
// when neither the request nor the query pinned one down; the
// selector then ranks corpus methods freely.
type scenario struct {
	Query   string
	Surface string
	Dirt    string
	Method  string

	Wool     bool
	Material string
	Location string
	Urgency  string

	// methodRequested is true when the method came from the caller
	// (explicit field or query text) rather than from ranking.
	methodRequested bool
}

const extractFailMessage = "Could not extract surface_type and dirt_type from query. Please provide more specific information."

// normalizeRequest resolves the request into a canonical scenario.
// Explicit fields must normalize cleanly; free-text extraction is
// only consulted for fields the caller left unset.
func normalizeRequest(req Request) (*scenario, *Error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, validationError("Query cannot be empty", &ErrorDetail{Field: "query", Issue: "required"})
	}

	sc := &scenario{Query: query}
	if req.Context != nil {
		sc.Material = strings.TrimSpace(req.Context.Material)
		sc.Location = strings.TrimSpace(req.Context.Location)
		sc.Urgency = strings.TrimSpace(req.Context.Urgency)
	}
	switch sc.Urgency {
	case "", "low", "normal", "high":
	default:
		return nil, validationError(
			fmt.Sprintf("Invalid urgency %q: must be one of low, normal, high", sc.Urgency),
			&ErrorDetail{Field: "context.urgency", Issue: "invalid", Value: sc.Urgency},
		)
	}

	extSurface, extDirt, extMethod := vocab.ExtractScenario(query)

	if req.Surface != "" {
		surface, ok := vocab.NormalizeSurface(req.Surface)
		if !ok {
			return nil, validationError(
				fmt.Sprintf("Unknown surface_type %q", req.Surface),
				&ErrorDetail{Field: "surface_type", Issue: "unknown value", Value: req.Surface},
			)
		}
		sc.Surface = surface
	} else {
		sc.Surface = extSurface
	}

	if req.Dirt != "" {
		dirt, ok := vocab.NormalizeDirt(req.Dirt)
		if !ok {
			return nil, validationError(
				fmt.Sprintf("Unknown dirt_type %q", req.Dirt),
				&ErrorDetail{Field: "dirt_type", Issue: "unknown value", Value: req.Dirt},
			)
		}
		sc.Dirt = dirt
	} else {
		sc.Dirt = extDirt
	}

	if req.Method != "" {
		method, ok := vocab.NormalizeMethod(req.Method)
		if !ok {
			return nil, validationError(
				fmt.Sprintf("Unknown cleaning_method %q", req.Method),
				&ErrorDetail{Field: "cleaning_method", Issue: "unknown value", Value: req.Method},
			)
		}
		sc.Method = method
		sc.methodRequested = true
	} else if extMethod != "" {
		sc.Method = extMethod
		sc.methodRequested = true
	}

	if sc.Surface == "" || sc.Dirt == "" {
		return nil, validationError(extractFailMessage, &ErrorDetail{Field: "query", Issue: "invalid"})
	}

	sc.Wool = vocab.DetectWoolNuance(query, sc.Material)
	return sc, nil
}

// normalizeConstraints validates the constraint block. The preferred
// method accepts synonyms the same way the request fields do.
func normalizeConstraints(in *Constraints) (Constraints, *Error) {
	if in == nil {
		return Constraints{}, nil
	}
	out := *in
	if out.PreferredMethod != "" {
		method, ok := vocab.NormalizeMethod(out.PreferredMethod)
		if !ok {
			return Constraints{}, validationError(
				fmt.Sprintf("Unknown preferred_method %q", out.PreferredMethod),
				&ErrorDetail{Field: "constraints.preferred_method", Issue: "unknown value", Value: out.PreferredMethod},
			)
		}
		out.PreferredMethod = method
	}
	return out, nil
}

// appliedConstraints lists the active constraint names in a stable
// order for the response metadata.
func appliedConstraints(cons Constraints) []string {
	var applied []string
	if cons.NoBleach {
		applied = append(applied, "no_bleach")
	}
	if cons.NoHarshChemicals {
		applied = append(applied, "no_harsh_chemicals")
	}
	if cons.GentleOnly {
		applied = append(applied, "gentle_only")
	}
	if cons.PreferredMethod != "" {
		applied = append(applied, "preferred_method")
	}
	return applied
}
