package corpus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sudslabs/suds/internal/vocab"
)

// SeedFile is a YAML fixture: a list of corpus documents with their steps
// and tool mentions.
type SeedFile struct {
	Documents []Document `yaml:"documents"`
}

const (
	defaultSeedConfidence = 0.7
	defaultSeedQuality    = 0.5
	defaultExtraction     = "pattern"
)

// LoadSeedFile reads and validates a YAML seed file. Missing confidences and
// categories get defaults; surface, dirt, and method values must normalize
// to canonical vocabulary.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses seed YAML bytes.
func ParseSeed(data []byte) (*SeedFile, error) {
	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	if len(file.Documents) == 0 {
		return nil, fmt.Errorf("seed file contains no documents")
	}
	for i := range file.Documents {
		if err := normalizeSeedDocument(&file.Documents[i], i); err != nil {
			return nil, err
		}
	}
	return &file, nil
}

func normalizeSeedDocument(doc *Document, index int) error {
	if doc.ID == "" {
		return fmt.Errorf("seed document %d: missing id", index)
	}
	surface, ok := vocab.NormalizeSurface(doc.Surface)
	if !ok {
		return fmt.Errorf("seed document %s: unknown surface %q", doc.ID, doc.Surface)
	}
	doc.Surface = surface
	dirt, ok := vocab.NormalizeDirt(doc.Dirt)
	if !ok {
		return fmt.Errorf("seed document %s: unknown dirt type %q", doc.ID, doc.Dirt)
	}
	doc.Dirt = dirt
	method, ok := vocab.NormalizeMethod(doc.Method)
	if !ok {
		return fmt.Errorf("seed document %s: unknown method %q", doc.ID, doc.Method)
	}
	doc.Method = method

	if doc.Extraction == "" {
		doc.Extraction = defaultExtraction
	}
	if doc.Confidence == 0 {
		doc.Confidence = defaultSeedConfidence
	}
	if doc.Quality == 0 {
		doc.Quality = defaultSeedQuality
	}

	for j := range doc.Steps {
		st := &doc.Steps[j]
		if st.Text == "" {
			return fmt.Errorf("seed document %s: step %d has no text", doc.ID, j)
		}
		if st.Order == 0 {
			st.Order = j + 1
		}
		if st.ID == "" {
			st.ID = fmt.Sprintf("%s-s%02d", doc.ID, st.Order)
		}
		if st.Confidence == 0 {
			st.Confidence = defaultSeedConfidence
		}
	}
	for j := range doc.Tools {
		tl := &doc.Tools[j]
		if tl.Name == "" {
			return fmt.Errorf("seed document %s: tool %d has no name", doc.ID, j)
		}
		if tl.Category == "" {
			if category, ok := vocab.NormalizeTool(tl.Name); ok {
				tl.Category = category
			}
		}
		if tl.Confidence == 0 {
			tl.Confidence = defaultSeedConfidence
		}
	}
	return nil
}
