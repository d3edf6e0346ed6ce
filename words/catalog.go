// Package words owns the catalog of candidate secret words: loading the
// word source, picking a random secret word, and scoring word difficulty.
package words

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
)

// ErrCatalogUnavailable indicates the word source could not be read.
// There is no fallback source; game creation fails without a catalog.
var ErrCatalogUnavailable = errors.New("word catalog unavailable")

//go:embed words.txt
var embeddedWords string

// Catalog holds the loaded candidate words
type Catalog struct {
	mu    sync.Mutex
	words []string
	rng   *rand.Rand
}

// Load builds a catalog from the file at path, one word per line. Lines are
// lowercased and non-alphabetic entries are dropped. An empty path loads the
// embedded default list.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(normalizeLines(embeddedWords), rand.Int63())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer f.Close()

	var list []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if w != "" && isAlpha(w) {
			list = append(list, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	return New(list, rand.Int63())
}

// New builds a catalog from an explicit word list with a seeded random
// source. A fixed seed gives deterministic picks in tests.
func New(list []string, seed int64) (*Catalog, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no usable words", ErrCatalogUnavailable)
	}
	return &Catalog{
		words: list,
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

// PickSecretWord selects uniformly at random from the catalog
func (c *Catalog) PickSecretWord() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.words[c.rng.Intn(len(c.words))]
}

// Size returns the number of loaded words
func (c *Catalog) Size() int {
	return len(c.words)
}

// Difficulty scores a word as the count of distinct letters plus a bonus
// for every occurrence of a rare letter: +4 for j,q,x,z, +3 for b,k,v,
// +2 for c,f,g,m,p,w,y. Bonus letters also count toward the distinct total,
// so "jazz" scores 3 distinct plus 12 bonus.
func Difficulty(word string) int {
	distinct := make(map[rune]struct{}, len(word))
	score := 0
	for _, r := range word {
		distinct[r] = struct{}{}
		switch r {
		case 'j', 'q', 'x', 'z':
			score += 4
		case 'b', 'k', 'v':
			score += 3
		case 'c', 'f', 'g', 'm', 'p', 'w', 'y':
			score += 2
		}
	}
	return score + len(distinct)
}

// normalizeLines turns an embedded multiline string into a clean word list
func normalizeLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		w := strings.TrimSpace(strings.ToLower(line))
		if w != "" && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

// isAlpha reports whether s is all lowercase ASCII letters
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
