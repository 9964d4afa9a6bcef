package gemini

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/vytor/rebux/internal/models"
)

// ErrSchemaMismatch wraps every reason a response is rejected.
var ErrSchemaMismatch = errors.New("gemini: response does not match puzzle schema")

var conceptFields = []struct {
	name        string
	description string
}{
	{"final_answer", "The compound word or famous phrase (e.g., 'Bill Gates')"},
	{"reasoning", "Explain why the two visual clues are unambiguous NOUNS, not adjectives."},
	{"category", "A short, 1-2 word category for the UI (e.g., 'Geography', 'Movie', 'Tech')"},
	{"hint", "A helpful textual hint for the player (e.g., 'A famous wizard with a scar')"},
	{"search_term_1", "A highly specific, single concrete NOUN."},
	{"search_term_2", "A highly specific, single concrete NOUN."},
}

// PuzzleListSchema is the response schema sent with every generation request.
func PuzzleListSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(conceptFields))
	required := make([]string, 0, len(conceptFields))
	for _, f := range conceptFields {
		props[f.name] = &genai.Schema{Type: genai.TypeString, Description: f.description}
		required = append(required, f.name)
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"puzzles": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:             genai.TypeObject,
					Properties:       props,
					Required:         required,
					PropertyOrdering: required,
				},
			},
		},
		Required: []string{"puzzles"},
	}
}

// ParseConcepts decodes a puzzle list strictly: unknown fields, a missing
// list, or any concept with an empty required field rejects the whole batch.
func ParseConcepts(raw []byte) ([]models.PuzzleConcept, error) {
	raw = bytes.TrimSpace(raw)
	raw = bytes.TrimPrefix(raw, []byte("```json"))
	raw = bytes.TrimPrefix(raw, []byte("```"))
	raw = bytes.TrimSuffix(raw, []byte("```"))
	raw = bytes.TrimSpace(raw)

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var list struct {
		Puzzles *[]models.PuzzleConcept `json:"puzzles"`
	}
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if list.Puzzles == nil {
		return nil, fmt.Errorf("%w: missing puzzles list", ErrSchemaMismatch)
	}

	for i, c := range *list.Puzzles {
		missing := missingFields(c)
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: puzzle %d missing %s", ErrSchemaMismatch, i, strings.Join(missing, ", "))
		}
	}
	return *list.Puzzles, nil
}

func missingFields(c models.PuzzleConcept) []string {
	values := map[string]string{
		"final_answer":  c.FinalAnswer,
		"reasoning":     c.Reasoning,
		"category":      c.Category,
		"hint":          c.Hint,
		"search_term_1": c.SearchTerm1,
		"search_term_2": c.SearchTerm2,
	}
	var missing []string
	for _, f := range conceptFields {
		if strings.TrimSpace(values[f.name]) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
