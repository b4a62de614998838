package narrative

import (
	"context"
	"strings"
	"testing"

	"github.com/sudslabs/suds/internal/config"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Blot the stain gently.", "Blot the stain gently."},
		{"surrounding whitespace", "  Blot the stain.  \n", "Blot the stain."},
		{"label prefix", "Rewritten step: Blot the stain.", "Blot the stain."},
		{"quoted", `"Blot the stain."`, "Blot the stain."},
		{"label and quotes", `Rewritten step: "Blot the stain."`, "Blot the stain."},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanResponse(tt.in); got != tt.want {
				t.Errorf("cleanResponse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUserPromptHumanizesCategories(t *testing.T) {
	got := userPrompt(StepInput{
		Text:    "Blot the stain with a towel.",
		Surface: "carpets_floors",
		Dirt:    "pet_hair",
		Method:  "spot_clean",
	})

	for _, want := range []string{"carpets floors", "pet hair", "spot clean", "Blot the stain with a towel."} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "_") {
		t.Errorf("prompt leaked underscored category names:\n%s", got)
	}
}

func TestNewDisabledProvider(t *testing.T) {
	gen, err := New(context.Background(), config.Config{}, nil, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if gen != nil {
		t.Errorf("empty provider returned a generator: %T", gen)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.Config{NarrativeProvider: "crystal-ball"}, nil, nil)
	if err == nil {
		t.Fatal("unknown provider did not error")
	}
}
