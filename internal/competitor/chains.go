package competitor

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultChainKeywords lists large multi-location brands excluded from
// competitor results. Matching is case-folded substring containment.
var DefaultChainKeywords = []string{
	"mcdonald", "burger king", "wendy", "subway", "starbucks", "dunkin",
	"kfc", "taco bell", "chipotle", "panera", "domino", "pizza hut",
	"papa john", "little caesars", "chick-fil-a", "popeyes", "arby",
	"sonic drive", "five guys", "panda express", "applebee", "olive garden",
	"chili's", "ihop", "denny", "outback steakhouse", "red lobster",
	"buffalo wild wings", "jimmy john", "jersey mike",
}

// ChainFilter excludes known chains by name keyword.
type ChainFilter struct {
	keywords []string
	fold     cases.Caser
}

// NewChainFilter builds a filter from the given keywords; nil keywords use
// the default list.
func NewChainFilter(keywords []string) *ChainFilter {
	if keywords == nil {
		keywords = DefaultChainKeywords
	}
	f := &ChainFilter{fold: cases.Fold()}
	for _, kw := range keywords {
		f.keywords = append(f.keywords, f.fold.String(kw))
	}
	return f
}

// IsChain reports whether the business name contains a chain keyword.
func (f *ChainFilter) IsChain(name string) bool {
	folded := f.fold.String(strings.TrimSpace(name))
	if folded == "" {
		return false
	}
	for _, kw := range f.keywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// relevantTypes are the place types that qualify a candidate as a
// competitor; a candidate whose type set does not intersect this set is
// excluded.
var relevantTypes = map[string]struct{}{
	"restaurant":    {},
	"food":          {},
	"meal_takeaway": {},
	"meal_delivery": {},
}

// hasRelevantType reports whether any of the candidate's types qualify it.
func hasRelevantType(types []string) bool {
	for _, t := range types {
		if _, ok := relevantTypes[t]; ok {
			return true
		}
	}
	return false
}
