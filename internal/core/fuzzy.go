package core

import (
	"strings"
	"unicode/utf8"
)

// ── Fuzzy product matching ───────────────────────────────────────────────────
//
// Used by reports only. Invoice line names drift from catalog names over
// time; checkout and reconciliation always match exactly.

const (
	matchThreshold      = 0.5
	wordOverlapRequired = 0.6
	significantWordLen  = 2 // words longer than this count toward overlap
)

// NormalizeProductName lowercases s, drops parenthesis characters and
// collapses whitespace.
func NormalizeProductName(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("(", " ", ")", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func significantWords(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		if utf8.RuneCountInString(w) > significantWordLen {
			words[w] = struct{}{}
		}
	}
	return words
}

// ProductSimilarity scores two product names in [0, 1]. Identical names
// score 1. Otherwise, on normalized names, containment scores
// shorter/longer length and a significant-word overlap of at least 60%
// scores the overlap ratio; the higher score wins.
func ProductSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	na, nb := NormalizeProductName(a), NormalizeProductName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	score := 0.0
	la, lb := utf8.RuneCountInString(na), utf8.RuneCountInString(nb)
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		shorter, longer := la, lb
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		score = float64(shorter) / float64(longer)
	}

	wa, wb := significantWords(na), significantWords(nb)
	if len(wa) > 0 && len(wb) > 0 {
		common := 0
		for w := range wa {
			if _, ok := wb[w]; ok {
				common++
			}
		}
		denom := len(wa)
		if len(wb) > denom {
			denom = len(wb)
		}
		if overlap := float64(common) / float64(denom); overlap >= wordOverlapRequired && overlap > score {
			score = overlap
		}
	}
	return score
}

// MatchProduct finds the candidate that best matches name. An exact match
// wins outright; otherwise only the best candidate scoring above 0.5 is
// accepted. It returns -1 when nothing qualifies.
func MatchProduct(name string, candidates []string) (int, float64) {
	for i, c := range candidates {
		if c == name {
			return i, 1
		}
	}
	best, bestScore := -1, 0.0
	for i, c := range candidates {
		if s := ProductSimilarity(name, c); s > bestScore {
			best, bestScore = i, s
		}
	}
	if bestScore <= matchThreshold {
		return -1, bestScore
	}
	return best, bestScore
}
