package assistant

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/tvyn/internal/catalog"
	"github.com/jeanpaul/tvyn/internal/dislikes"
)

const greeting = "Hello! I'm TVYN Assistant. Please ask about available products or tell me what you dislike."

var shelf = []catalog.Product{
	{Name: "Milk", Quantity: "10", Price: "1.20"},
	{Name: "Bread", Quantity: "abc", Price: "0.95"},
	{Name: "Eggs", Quantity: "5", Price: "0.25"},
}

type failingStore struct{}

func (failingStore) Load() (dislikes.Set, error) { return dislikes.Set{}, nil }
func (failingStore) Save(dislikes.Set) error    { return errors.New("disk full") }

func TestAnswer_DislikeAddsItemsAndPersists(t *testing.T) {
	store := dislikes.NewMemoryStore(dislikes.Set{"cheese": true})
	e := NewEngine("TVYN", store)
	set, _ := store.Load()

	reply, err := e.Answer("I don't like Milk,  dark chocolate , ,eggs", shelf, set)
	require.NoError(t, err)

	assert.Equal(t, IntentDislike, reply.Intent)
	assert.Equal(t, "Got it! I'll remember you don't like milk, dark chocolate, eggs.", reply.Text)
	assert.Equal(t, dislikes.Set{"cheese": true, "milk": true, "dark chocolate": true, "eggs": true}, set)

	persisted, _ := store.Load()
	assert.Equal(t, set, persisted)
	assert.Equal(t, 1, store.Saves())
}

func TestAnswer_DislikeAlternatePhrase(t *testing.T) {
	store := dislikes.NewMemoryStore(nil)
	e := NewEngine("", store)
	set := dislikes.Set{}

	reply, err := e.Answer("Honestly I do not like bananas", shelf, set)
	require.NoError(t, err)
	assert.Equal(t, IntentDislike, reply.Intent)
	assert.True(t, set["honestly  bananas"])
}

func TestAnswer_DislikeIsIdempotent(t *testing.T) {
	store := dislikes.NewMemoryStore(nil)
	e := NewEngine("TVYN", store)
	set := dislikes.Set{}

	_, err := e.Answer("i don't like milk", shelf, set)
	require.NoError(t, err)
	_, err = e.Answer("I DON'T LIKE milk", shelf, set)
	require.NoError(t, err)

	assert.Equal(t, dislikes.Set{"milk": true}, set)
	assert.Equal(t, 2, store.Saves())
}

func TestAnswer_DislikeSaveFailure(t *testing.T) {
	e := NewEngine("TVYN", failingStore{})
	_, err := e.Answer("i don't like milk", shelf, dislikes.Set{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestAnswer_AvailabilityExcludesDislikes(t *testing.T) {
	e := NewEngine("TVYN", dislikes.NewMemoryStore(nil))
	set := dislikes.Set{"milk": true}

	reply, err := e.Answer("What products are available?", shelf, set)
	require.NoError(t, err)

	assert.Equal(t, IntentAvailability, reply.Intent)
	want := "Currently available products:\n" +
		"- Bread | Quantity: abc | Price: 0.95\n" +
		"- Eggs | Quantity: 5 | Price: 0.25\n"
	assert.Equal(t, want, reply.Text)
	assert.NotContains(t, reply.Text, "Milk")
}

func TestAnswer_AvailabilityPhrases(t *testing.T) {
	e := NewEngine("TVYN", nil)
	for _, u := range []string{"is anything AVAILABLE", "what products do you have", "show products please"} {
		assert.Equal(t, IntentAvailability, e.Classify(u), u)
	}
}

func TestAnswer_AvailabilityEmpty(t *testing.T) {
	e := NewEngine("TVYN", nil)

	reply, err := e.Answer("show products", nil, dislikes.Set{})
	require.NoError(t, err)
	assert.Equal(t, "No products available currently.", reply.Text)

	all := dislikes.Set{"milk": true, "bread": true, "eggs": true}
	reply, err = e.Answer("show products", shelf, all)
	require.NoError(t, err)
	assert.Equal(t, "No products available currently.", reply.Text)
}

func TestAnswer_CountSkipsNonNumeric(t *testing.T) {
	e := NewEngine("TVYN", nil)
	reply, err := e.Answer("How many items do you have?", shelf, dislikes.Set{"milk": true})
	require.NoError(t, err)
	assert.Equal(t, IntentCount, reply.Intent)
	assert.Equal(t, "We have approximately 15 products in stock.", reply.Text)
}

func TestAnswer_Fallback(t *testing.T) {
	e := NewEngine("TVYN", nil)
	reply, err := e.Answer("xyz", shelf, dislikes.Set{})
	require.NoError(t, err)
	assert.Equal(t, IntentFallback, reply.Intent)
	assert.Equal(t, greeting, reply.Text)
}

func TestAnswer_Precedence(t *testing.T) {
	store := dislikes.NewMemoryStore(nil)
	e := NewEngine("TVYN", store)
	set := dislikes.Set{}

	reply, err := e.Answer("I don't like milk, available", shelf, set)
	require.NoError(t, err)
	assert.Equal(t, IntentDislike, reply.Intent)
	assert.True(t, set["milk"])
	assert.True(t, set["available"])

	assert.Equal(t, IntentAvailability, e.Classify("how many products are available"))
}

func TestRules_Order(t *testing.T) {
	e := NewEngine("TVYN", nil)
	var order []Intent
	for _, r := range e.Rules() {
		order = append(order, r.Intent)
	}
	assert.Equal(t, []Intent{IntentDislike, IntentAvailability, IntentCount}, order)
}

func TestAvailable_Complement(t *testing.T) {
	set := dislikes.Set{"eggs": true, "bread": true}
	kept := Available(shelf, set)

	keptNames := map[string]bool{}
	for _, p := range kept {
		assert.False(t, set[strings.ToLower(p.Name)])
		keptNames[p.Name] = true
	}
	for _, p := range shelf {
		if set[strings.ToLower(p.Name)] {
			assert.False(t, keptNames[p.Name], p.Name)
		}
	}
	assert.Len(t, kept, 1)
}

func TestAvailable_FalseValueStillDisliked(t *testing.T) {
	kept := Available(shelf, dislikes.Set{"eggs": false})
	for _, p := range kept {
		assert.NotEqual(t, "Eggs", p.Name)
	}
	assert.Len(t, kept, len(shelf)-1)
}

func TestExtractDislikes(t *testing.T) {
	assert.Equal(t, []string{"milk", "eggs"}, ExtractDislikes("i don't like milk, eggs"))
	assert.Empty(t, ExtractDislikes("i do not like"))
	assert.Equal(t, []string{"tea", "coffee"}, ExtractDislikes("i don't like tea, i do not like coffee"))
}

func TestGreeting_UsesName(t *testing.T) {
	assert.Equal(t, greeting, NewEngine("", nil).Greeting())
	assert.Contains(t, NewEngine("Corner Shop", nil).Greeting(), "I'm Corner Shop Assistant")
}
