package engine

import (
	"strings"
	"testing"
)

func TestNormalizeRequestExtraction(t *testing.T) {
	sc, verr := normalizeRequest(Request{Query: "How do I remove a wine stain from my couch?"})
	if verr != nil {
		t.Fatalf("normalizeRequest failed: %v", verr)
	}
	if sc.Surface != "upholstery" {
		t.Errorf("Expected surface upholstery, got %q", sc.Surface)
	}
	if sc.Dirt != "stain" {
		t.Errorf("Expected dirt stain, got %q", sc.Dirt)
	}
	if sc.Method != "" {
		t.Errorf("Expected no method, got %q", sc.Method)
	}
	if sc.methodRequested {
		t.Error("Expected methodRequested false for plain query")
	}
	if sc.Wool {
		t.Error("Expected wool false")
	}
}

func TestNormalizeRequestExplicitFields(t *testing.T) {
	sc, verr := normalizeRequest(Request{
		Query:   "help",
		Surface: "rug",
		Dirt:    "spill",
		Method:  "hoover",
	})
	if verr != nil {
		t.Fatalf("normalizeRequest failed: %v", verr)
	}
	if sc.Surface != "carpets_floors" {
		t.Errorf("Expected surface carpets_floors, got %q", sc.Surface)
	}
	if sc.Dirt != "stain" {
		t.Errorf("Expected dirt stain, got %q", sc.Dirt)
	}
	if sc.Method != "vacuum" {
		t.Errorf("Expected method vacuum, got %q", sc.Method)
	}
	if !sc.methodRequested {
		t.Error("Expected methodRequested true for explicit method")
	}
}

func TestNormalizeRequestQueryMethod(t *testing.T) {
	sc, verr := normalizeRequest(Request{Query: "Steam clean the grease off my oven"})
	if verr != nil {
		t.Fatalf("normalizeRequest failed: %v", verr)
	}
	if sc.Surface != "appliances" || sc.Dirt != "grease" {
		t.Errorf("Expected appliances/grease, got %q/%q", sc.Surface, sc.Dirt)
	}
	if sc.Method != "steam_clean" {
		t.Errorf("Expected method steam_clean, got %q", sc.Method)
	}
	if !sc.methodRequested {
		t.Error("Expected methodRequested true for method in query text")
	}
}

func TestNormalizeRequestContext(t *testing.T) {
	sc, verr := normalizeRequest(Request{
		Query: "stain on my couch",
		Context: &RequestContext{
			Location: "living room",
			Material: "wool blend",
			Urgency:  "high",
		},
	})
	if verr != nil {
		t.Fatalf("normalizeRequest failed: %v", verr)
	}
	if !sc.Wool {
		t.Error("Expected wool true from material context")
	}
	if sc.Location != "living room" {
		t.Errorf("Expected location preserved, got %q", sc.Location)
	}
	if sc.Urgency != "high" {
		t.Errorf("Expected urgency high, got %q", sc.Urgency)
	}

	sc, verr = normalizeRequest(Request{Query: "wine stain on my wool sweater"})
	if verr != nil {
		t.Fatalf("normalizeRequest failed: %v", verr)
	}
	if sc.Surface != "clothes" {
		t.Errorf("Expected surface clothes, got %q", sc.Surface)
	}
	if !sc.Wool {
		t.Error("Expected wool true from query text")
	}
}

func TestNormalizeRequestErrors(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantField string
		wantMsg   string
	}{
		{
			name:      "empty query",
			req:       Request{Query: ""},
			wantField: "query",
			wantMsg:   "Query cannot be empty",
		},
		{
			name:      "whitespace query",
			req:       Request{Query: "   "},
			wantField: "query",
			wantMsg:   "Query cannot be empty",
		},
		{
			name:      "unknown surface",
			req:       Request{Query: "clean this", Surface: "spaceship"},
			wantField: "surface_type",
			wantMsg:   `Unknown surface_type "spaceship"`,
		},
		{
			name:      "unknown dirt",
			req:       Request{Query: "clean this", Dirt: "glitter"},
			wantField: "dirt_type",
			wantMsg:   `Unknown dirt_type "glitter"`,
		},
		{
			name:      "unknown method",
			req:       Request{Query: "stain on my couch", Method: "telekinesis"},
			wantField: "cleaning_method",
			wantMsg:   `Unknown cleaning_method "telekinesis"`,
		},
		{
			name:      "vague query",
			req:       Request{Query: "please help me clean"},
			wantField: "query",
			wantMsg:   extractFailMessage,
		},
		{
			name:      "surface without dirt",
			req:       Request{Query: "clean my couch"},
			wantField: "query",
			wantMsg:   extractFailMessage,
		},
		{
			name:      "bad urgency",
			req:       Request{Query: "stain on my couch", Context: &RequestContext{Urgency: "asap"}},
			wantField: "context.urgency",
			wantMsg:   `Invalid urgency "asap"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, verr := normalizeRequest(tt.req)
			if verr == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if verr.Code != CodeValidation {
				t.Errorf("Expected code %s, got %s", CodeValidation, verr.Code)
			}
			if !strings.Contains(verr.Message, tt.wantMsg) {
				t.Errorf("Expected message containing %q, got %q", tt.wantMsg, verr.Message)
			}
			if verr.Detail == nil || verr.Detail.Field != tt.wantField {
				t.Errorf("Expected detail field %q, got %+v", tt.wantField, verr.Detail)
			}
		})
	}
}

func TestNormalizeConstraints(t *testing.T) {
	cons, verr := normalizeConstraints(nil)
	if verr != nil {
		t.Fatalf("normalizeConstraints(nil) failed: %v", verr)
	}
	if cons != (Constraints{}) {
		t.Errorf("Expected zero constraints, got %+v", cons)
	}

	cons, verr = normalizeConstraints(&Constraints{NoBleach: true, PreferredMethod: "hoover"})
	if verr != nil {
		t.Fatalf("normalizeConstraints failed: %v", verr)
	}
	if cons.PreferredMethod != "vacuum" {
		t.Errorf("Expected preferred method vacuum, got %q", cons.PreferredMethod)
	}
	if !cons.NoBleach {
		t.Error("Expected no_bleach preserved")
	}

	_, verr = normalizeConstraints(&Constraints{PreferredMethod: "telekinesis"})
	if verr == nil {
		t.Fatal("Expected validation error for unknown preferred method")
	}
	if verr.Detail == nil || verr.Detail.Field != "constraints.preferred_method" {
		t.Errorf("Expected detail field constraints.preferred_method, got %+v", verr.Detail)
	}
}

func TestAppliedConstraints(t *testing.T) {
	applied := appliedConstraints(Constraints{})
	if len(applied) != 0 {
		t.Errorf("Expected no applied constraints, got %v", applied)
	}

	applied = appliedConstraints(Constraints{
		NoBleach:         true,
		NoHarshChemicals: true,
		GentleOnly:       true,
		PreferredMethod:  "spot_clean",
	})
	want := []string{"no_bleach", "no_harsh_chemicals", "gentle_only", "preferred_method"}
	if len(applied) != len(want) {
		t.Fatalf("Expected %d applied constraints, got %v", len(want), applied)
	}
	for i, name := range want {
		if applied[i] != name {
			t.Errorf("Expected constraint %q at %d, got %q", name, i, applied[i])
		}
	}
}
