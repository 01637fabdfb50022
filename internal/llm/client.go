// Package llm provides a provider-agnostic interface for asking a text-generation
// model to suggest a new wallpaper theme from a user's search terms.
//
// Every backend answers in the Hugging Face text-generation shape:
//
//	[{"generated_text": "..."}]
//
// Hugging Face returns that body verbatim; the other backends wrap their output in it,
// so a client parses all of them the same way.
package llm

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Client is the interface for text-generation backends.
// Keep it small: one call plus two names for bookkeeping.
type Client interface {
	// Recommend sends a theme prompt built from seed and returns the raw
	// response body (a JSON document).
	Recommend(ctx context.Context, seed string) (json.RawMessage, error)
	ProviderName() string
	ModelName() string
}

// Generation is one element of a text-generation response.
type Generation struct {
	GeneratedText string `json:"generated_text"`
}

// BuildPrompt creates the instruction sent to the model.
func BuildPrompt(seed string) string {
	return fmt.Sprintf("Generate one new wallpaper theme word related to %s in just one word different from %s.", seed, seed)
}

// wrapText encodes text as a single-element generation list.
func wrapText(text string) (json.RawMessage, error) {
	b, err := json.Marshal([]Generation{{GeneratedText: strings.TrimSpace(text)}})
	if err != nil {
		return nil, fmt.Errorf("encoding generation: %w", err)
	}
	return b, nil
}

// FirstGeneration extracts the first generated_text from a response body.
// It reports false when the body isn't a non-empty generation list.
func FirstGeneration(raw []byte) (string, bool) {
	var gens []Generation
	if err := json.Unmarshal(raw, &gens); err != nil || len(gens) == 0 {
		return "", false
	}
	text := strings.TrimSpace(gens[0].GeneratedText)
	return text, text != ""
}
