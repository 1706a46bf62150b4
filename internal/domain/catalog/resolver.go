package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/brecho/backend/internal/domain/shared"
)

// Resolution errors. Not-found and ambiguous are surfaced differently: the
// first clears the scan input, the second keeps it so the cashier can pick
// from the candidate list.
var (
	ErrItemNotFound  = shared.NewDomainError("ITEM_NOT_FOUND", "No catalog item matches the scanned code")
	ErrAmbiguousItem = shared.NewDomainError("AMBIGUOUS_ITEM", "More than one catalog item matches the scanned code")
)

// tagPattern accepts what scan guns and cashiers actually produce: "TAG-45",
// "tag 45", "Tag45", "TAG_45". Digits after an optional single separator.
var tagPattern = regexp.MustCompile(`(?i)^tag[\s\-_]?(\d+)$`)

// NormalizeToken trims the raw input and canonicalizes loose tag spellings
// to the printed-label form TAG-<digits>.
func NormalizeToken(token string) string {
	t := strings.TrimSpace(token)
	if m := tagPattern.FindStringSubmatch(t); m != nil {
		return "TAG-" + m[1]
	}
	return t
}

// Resolve narrows a normalized token and a candidate set down to exactly one
// item. It is a pure function of its inputs; the rule order is operational
// behavior (scan guns emit tag strings, staff type bare ids or partial codes)
// and each rule is only consulted when every earlier rule produced no match:
//
//  1. TAG-prefixed token: exact case-insensitive tag code match.
//  2. Exact case-insensitive SKU match.
//  3. Purely numeric token: exact id match; then, with a single candidate,
//     accept it; then a tag code ending in "-<token>".
//  4. A single candidate matches any remaining token.
func Resolve(token string, candidates []Item) (Item, error) {
	if len(candidates) == 0 {
		return Item{}, ErrItemNotFound
	}

	token = NormalizeToken(token)

	if strings.HasPrefix(strings.ToUpper(token), "TAG-") {
		if item, ok := matchOne(candidates, func(i Item) bool {
			return i.TagCode != nil && strings.EqualFold(*i.TagCode, token)
		}); ok {
			return item, nil
		}
		return Item{}, ErrAmbiguousItem
	}

	if item, ok := matchOne(candidates, func(i Item) bool {
		return i.SKUCode != nil && strings.EqualFold(*i.SKUCode, token)
	}); ok {
		return item, nil
	}

	if id, err := strconv.ParseInt(token, 10, 64); err == nil {
		if item, ok := matchOne(candidates, func(i Item) bool {
			return i.ID == id
		}); ok {
			return item, nil
		}
		if len(candidates) == 1 {
			return candidates[0], nil
		}
		suffix := "-" + token
		if item, ok := matchOne(candidates, func(i Item) bool {
			return i.TagCode != nil && strings.HasSuffix(*i.TagCode, suffix)
		}); ok {
			return item, nil
		}
		return Item{}, ErrAmbiguousItem
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return Item{}, ErrAmbiguousItem
}

// matchOne returns the single candidate satisfying the predicate, or false
// when zero or several do.
func matchOne(candidates []Item, pred func(Item) bool) (Item, bool) {
	var found Item
	count := 0
	for _, c := range candidates {
		if pred(c) {
			found = c
			count++
			if count > 1 {
				return Item{}, false
			}
		}
	}
	return found, count == 1
}
