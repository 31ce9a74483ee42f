// Package search ranks published menu items against a free-text query.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/flamedough/api/internal/catalog"
)

const (
	nameWeight        = 3
	tagWeight         = 2
	descriptionWeight = 1

	// Query tokens shorter than this only match whole keywords.
	minPrefixLen = 2
)

// Hit is one ranked search result.
type Hit struct {
	CategoryID string           `json:"categoryId"`
	Item       catalog.MenuItem `json:"item"`
	Score      int              `json:"score"`
}

type entry struct {
	categoryID string
	item       catalog.MenuItem
	// keyword -> weight, highest field wins
	keywords map[string]int
}

// Index holds pre-tokenized keywords for a published menu.
type Index struct {
	entries []entry
}

// New builds an index over the categories' items, in menu order.
func New(categories []catalog.Category) *Index {
	idx := &Index{}
	for _, c := range categories {
		for _, it := range c.Items {
			e := entry{categoryID: c.ID, item: it, keywords: make(map[string]int)}
			e.add(it.Description, descriptionWeight)
			for _, tag := range it.Tags {
				e.add(tag, tagWeight)
			}
			e.add(it.Name, nameWeight)
			idx.entries = append(idx.entries, e)
		}
	}
	return idx
}

func (e *entry) add(text string, weight int) {
	for _, tok := range tokenize(normalize(text)) {
		if e.keywords[tok] < weight {
			e.keywords[tok] = weight
		}
	}
}

// Search scores every item by the query tokens it contains and returns the
// items with a positive score, best first. Ties keep menu order.
func (idx *Index) Search(query string) []Hit {
	tokens := tokenize(normalize(query))
	if len(tokens) == 0 {
		return nil
	}

	var hits []Hit
	for _, e := range idx.entries {
		score := 0
		for _, tok := range tokens {
			score += e.match(tok)
		}
		if score > 0 {
			hits = append(hits, Hit{CategoryID: e.categoryID, Item: e.item, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits
}

// match returns the best weight of a keyword equal to tok, or prefixed by it.
func (e *entry) match(tok string) int {
	if w, ok := e.keywords[tok]; ok {
		return w
	}
	if len([]rune(tok)) < minPrefixLen {
		return 0
	}
	best := 0
	for kw, w := range e.keywords {
		if strings.HasPrefix(kw, tok) && w > best {
			best = w
		}
	}
	return best
}

var asciiFold = strings.NewReplacer(
	"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u", "â", "a", "î", "i", "û", "u",
)

// normalize lowercases with Turkish casing rules, folds Turkish letters to
// ASCII and replaces non-alphanumeric chars with spaces.
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.TurkishCase.ToLower(r))
		} else {
			sb.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(asciiFold.Replace(sb.String())), " ")
}

// tokenize splits a string on whitespace
func tokenize(s string) []string {
	return strings.Fields(s)
}
