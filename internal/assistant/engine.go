package assistant

import (
	"fmt"
	"strings"

	"github.com/jeanpaul/tvyn/internal/catalog"
	"github.com/jeanpaul/tvyn/internal/dislikes"
)

const DefaultName = "TVYN"

// Reply is the outcome of one utterance.
type Reply struct {
	Intent Intent `json:"intent"`
	Text   string `json:"text"`
}

// Engine answers utterances. It owns no state besides the rule list; the
// dislike set is passed in and persisted through the injected store.
type Engine struct {
	name  string
	store dislikes.Store
	rules []Rule
}

func NewEngine(name string, store dislikes.Store) *Engine {
	if name == "" {
		name = DefaultName
	}
	return &Engine{name: name, store: store, rules: defaultRules()}
}

// Rules returns the rules in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Classify reports which intent an utterance maps to, without side effects.
func (e *Engine) Classify(utterance string) Intent {
	lowered := strings.ToLower(utterance)
	for _, r := range e.rules {
		if r.Match(lowered) {
			return r.Intent
		}
	}
	return IntentFallback
}

// Greeting is the answer to anything no rule recognises.
func (e *Engine) Greeting() string {
	return fmt.Sprintf("Hello! I'm %s Assistant. Please ask about available products or tell me what you dislike.", e.name)
}

// Answer runs the first matching rule. A dislike turn mutates set and saves
// it before returning; a failed save is the only error.
func (e *Engine) Answer(utterance string, products []catalog.Product, set dislikes.Set) (Reply, error) {
	req := Request{
		Utterance: utterance,
		Lowered:   strings.ToLower(utterance),
		Catalog:   products,
		Dislikes:  set,
	}
	for _, r := range e.rules {
		if !r.Match(req.Lowered) {
			continue
		}
		text, err := r.Handle(e, req)
		if err != nil {
			return Reply{Intent: r.Intent}, err
		}
		return Reply{Intent: r.Intent, Text: text}, nil
	}
	return Reply{Intent: IntentFallback, Text: e.Greeting()}, nil
}

func (e *Engine) handleDislike(req Request) (string, error) {
	items := ExtractDislikes(req.Lowered)
	if req.Dislikes == nil {
		req.Dislikes = dislikes.Set{}
	}
	for _, item := range items {
		req.Dislikes[item] = true
	}
	if e.store != nil {
		if err := e.store.Save(req.Dislikes); err != nil {
			return "", fmt.Errorf("save dislikes: %w", err)
		}
	}
	return fmt.Sprintf("Got it! I'll remember you don't like %s.", strings.Join(items, ", ")), nil
}

func (e *Engine) handleAvailability(req Request) (string, error) {
	products := Available(req.Catalog, req.Dislikes)
	if len(products) == 0 {
		return "No products available currently.", nil
	}
	var b strings.Builder
	b.WriteString("Currently available products:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s | Quantity: %s | Price: %s\n", p.Name, p.Quantity, p.Price)
	}
	return b.String(), nil
}

func (e *Engine) handleCount(req Request) (string, error) {
	return fmt.Sprintf("We have approximately %d products in stock.", catalog.TotalUnits(req.Catalog)), nil
}
