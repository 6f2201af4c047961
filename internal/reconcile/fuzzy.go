package reconcile

import (
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Matcher finds the candidate most similar to query. Scores run 0-100.
// ok is false when there are no candidates.
type Matcher interface {
	BestMatch(query string, candidates []string) (match string, score int, ok bool)
}

// LevenshteinMatcher scores candidates with WeightedRatio.
type LevenshteinMatcher struct{}

// BestMatch returns the highest scoring candidate. Ties keep the earliest
// candidate, so callers passing sorted keys get deterministic results.
func (LevenshteinMatcher) BestMatch(query string, candidates []string) (string, int, bool) {
	best, bestScore, found := "", -1, false
	for _, c := range candidates {
		s := WeightedRatio(query, c)
		if s > bestScore {
			best, bestScore, found = c, s, true
			if s == 100 {
				break
			}
		}
	}
	if !found {
		return "", 0, false
	}
	return best, bestScore, true
}

// WeightedRatio combines plain, token and partial similarity the way
// spelling variants of place names differ: word order swaps are scored with
// token ratios, and a much shorter string is compared against the best
// aligned window of the longer one.
func WeightedRatio(a, b string) int {
	p1, p2 := preprocess(a), preprocess(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	base := float64(Ratio(p1, p2))

	l1, l2 := utf8.RuneCountInString(p1), utf8.RuneCountInString(p2)
	lenRatio := float64(max(l1, l2)) / float64(min(l1, l2))

	const unbase = 0.95
	if lenRatio < 1.5 {
		tsor := float64(tokenSortRatio(p1, p2, Ratio)) * unbase
		tser := float64(tokenSetRatio(p1, p2, Ratio)) * unbase
		return round(max(base, tsor, tser))
	}

	scale := 0.9
	if lenRatio > 8 {
		scale = 0.6
	}
	partial := float64(PartialRatio(p1, p2)) * scale
	ptsor := float64(tokenSortRatio(p1, p2, PartialRatio)) * unbase * scale
	ptser := float64(tokenSetRatio(p1, p2, PartialRatio)) * unbase * scale
	return round(max(base, partial, ptsor, ptser))
}

// indel scores edits as insertions and deletions only. A substitution
// costs 2, so strings with nothing in common score 0.
var indel = levenshtein.NewParams().SubCost(2)

// Ratio is the normalized edit similarity of a and b:
// 100 * (len(a) + len(b) - distance) / (len(a) + len(b)).
func Ratio(a, b string) int {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 0
	}
	d := levenshtein.Distance(a, b, indel)
	return round(100 * float64(total-d) / float64(total))
}

// PartialRatio is the best Ratio between the shorter string and every
// equally long window of the longer one.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	s := string(short)
	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		r := Ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func tokenSortRatio(a, b string, score func(string, string) int) int {
	return score(sortedTokens(a), sortedTokens(b))
}

func tokenSetRatio(a, b string, score func(string, string) int) int {
	ta, tb := tokenSet(a), tokenSet(b)

	var inter, onlyA, onlyB []string
	for tok := range ta {
		if tb[tok] {
			inter = append(inter, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if !ta[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	slices.Sort(inter)
	slices.Sort(onlyA)
	slices.Sort(onlyB)

	t0 := strings.Join(inter, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	return max(score(t0, t1), score(t0, t2), score(t1, t2))
}

func sortedTokens(s string) string {
	toks := strings.Fields(s)
	slices.Sort(toks)
	return strings.Join(toks, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// preprocess upper-cases s, replaces everything but letters and digits with
// spaces and collapses the result.
func preprocess(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

func round(f float64) int {
	return int(math.Round(f))
}
