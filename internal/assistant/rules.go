// Package assistant classifies shopper utterances and answers them from the
// catalog and the dislike set.
package assistant

import (
	"strings"

	"github.com/jeanpaul/tvyn/internal/catalog"
	"github.com/jeanpaul/tvyn/internal/dislikes"
)

type Intent string

const (
	IntentDislike      Intent = "dislike"
	IntentAvailability Intent = "availability"
	IntentCount        Intent = "count"
	IntentFallback     Intent = "fallback"
)

var (
	dislikePhrases      = []string{"i don't like", "i do not like"}
	availabilityPhrases = []string{"available", "what products", "show products"}
	countPhrases        = []string{"how many"}
)

// Request is what a rule sees: the utterance in both forms plus the state it
// may read or change.
type Request struct {
	Utterance string
	Lowered   string
	Catalog   []catalog.Product
	Dislikes  dislikes.Set
}

// Rule pairs a predicate over the lowercased utterance with its handler.
type Rule struct {
	Intent Intent
	Match  func(lowered string) bool
	Handle func(e *Engine, req Request) (string, error)
}

func containsAny(phrases []string) func(string) bool {
	return func(lowered string) bool {
		for _, p := range phrases {
			if strings.Contains(lowered, p) {
				return true
			}
		}
		return false
	}
}

// defaultRules is evaluated top to bottom; the first match wins, so an
// utterance that both dislikes something and mentions "available" is a dislike.
func defaultRules() []Rule {
	return []Rule{
		{Intent: IntentDislike, Match: containsAny(dislikePhrases), Handle: (*Engine).handleDislike},
		{Intent: IntentAvailability, Match: containsAny(availabilityPhrases), Handle: (*Engine).handleAvailability},
		{Intent: IntentCount, Match: containsAny(countPhrases), Handle: (*Engine).handleCount},
	}
}

// ExtractDislikes pulls the comma separated items out of a dislike utterance.
// The input must already be lowercased.
func ExtractDislikes(lowered string) []string {
	rest := lowered
	for _, p := range dislikePhrases {
		rest = strings.ReplaceAll(rest, p, "")
	}
	var items []string
	for _, piece := range strings.Split(rest, ",") {
		if item := strings.TrimSpace(piece); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Available filters out every product the shopper dislikes.
func Available(products []catalog.Product, set dislikes.Set) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if set.Has(catalog.Key(p.Name)) {
			continue
		}
		out = append(out, p)
	}
	return out
}
