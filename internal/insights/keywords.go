// Package insights derives the most asked-about words from the transcript.
package insights

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jeanpaul/tvyn/internal/transcript"
)

// DefaultLimit is the number of keywords reported when none is requested.
const DefaultLimit = 5

const (
	minWordLen = 4
	trimChars  = ".,!?"
)

type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Title is the display form, e.g. "Apples (3 times)".
func (k Keyword) Title() string {
	r, size := utf8.DecodeRuneInString(k.Word)
	return fmt.Sprintf("%s%s (%d times)", string(unicode.ToUpper(r)), k.Word[size:], k.Count)
}

// Tally counts words in first-seen order.
type Tally struct {
	counts map[string]int
	order  []string
}

func newTally() *Tally {
	return &Tally{counts: map[string]int{}}
}

func (t *Tally) add(word string) {
	if _, ok := t.counts[word]; !ok {
		t.order = append(t.order, word)
	}
	t.counts[word]++
}

func (t *Tally) Len() int { return len(t.order) }

func (t *Tally) Count(word string) int { return t.counts[word] }

// Top returns the n most frequent words. Ties keep first-seen order.
func (t *Tally) Top(n int) []Keyword {
	if n <= 0 {
		n = DefaultLimit
	}
	out := make([]Keyword, 0, len(t.order))
	for _, w := range t.order {
		out = append(out, Keyword{Word: w, Count: t.counts[w]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Count scans user lines of a transcript. Lines that are not user lines,
// including malformed ones, are ignored. Lines have no length limit.
func Count(r io.Reader) (*Tally, error) {
	t := newTally()
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" && transcript.IsUserLine(line) {
			for _, field := range strings.Fields(line) {
				if w, ok := normalize(field); ok {
					t.add(w)
				}
			}
		}
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("insights: %w", err)
		}
	}
}

// TopKeywords is Count followed by Top.
func TopKeywords(r io.Reader, n int) ([]Keyword, error) {
	t, err := Count(r)
	if err != nil {
		return nil, err
	}
	return t.Top(n), nil
}

// normalize lowercases and trims punctuation; only purely alphabetic words
// longer than three letters are kept. The label token "user:" never passes.
func normalize(field string) (string, bool) {
	w := strings.Trim(strings.ToLower(field), trimChars)
	if utf8.RuneCountInString(w) < minWordLen {
		return "", false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	return w, true
}
