package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
)

const (
	nameKeyLength    = 60
	displayKeyLength = 80
)

// FacilityKey identifies a facility for de-duplication.
type FacilityKey struct {
	Lat  string
	Lon  string
	Text string
}

// DedupeKey is the identity used to drop duplicate proximity results.
func DedupeKey(f entities.Facility) FacilityKey {
	return FacilityKey{Lat: f.Lat, Lon: f.Lon, Text: truncateRunes(f.Name, nameKeyLength)}
}

// Dedupe keeps the first occurrence of each key and drops facilities with a blank name.
func Dedupe(facilities []entities.Facility) []entities.Facility {
	out := make([]entities.Facility, 0, len(facilities))
	seen := make(map[FacilityKey]struct{}, len(facilities))
	for _, f := range facilities {
		if strings.TrimSpace(f.Name) == "" {
			continue
		}
		key := DedupeKey(f)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

type scoredFacility struct {
	Facility entities.Facility
	Score    int
}

// Rank orders facilities by hint relevance and returns at most limit of them.
// Earlier hints weigh more; ties sort by name with unnamed entries last.
func Rank(facilities []entities.Facility, hints []string, limit int) []entities.Facility {
	scored := make([]scoredFacility, len(facilities))
	for i, f := range facilities {
		scored[i] = scoredFacility{Facility: f, Score: hintScore(f, hints)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return nameLess(scored[i].Facility.Name, scored[j].Facility.Name)
	})

	out := make([]entities.Facility, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.Facility)
	}
	return truncate(out, limit)
}

func hintScore(f entities.Facility, hints []string) int {
	haystack := strings.ToLower(f.Name + " " + f.Type)
	for i, hint := range hints {
		hint = strings.ToLower(strings.TrimSpace(hint))
		if hint == "" {
			continue
		}
		if strings.Contains(haystack, hint) {
			return len(hints) - i
		}
	}
	return 0
}

func nameLess(a, b string) bool {
	aLast, bLast := isUnnamed(a), isUnnamed(b)
	if aLast != bLast {
		return bLast
	}
	return a < b
}

func isUnnamed(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || name == entities.UnnamedPlaceholder
}

func truncate(facilities []entities.Facility, limit int) []entities.Facility {
	if limit >= 0 && len(facilities) > limit {
		return facilities[:limit]
	}
	return facilities
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
