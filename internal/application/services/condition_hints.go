package services

import "strings"

// ConditionKeywords maps one condition or symptom name to the facility keywords that suit it.
type ConditionKeywords struct {
	Condition string
	Keywords  []string
}

// defaultConditionTable is ordered; the first entry matching an input name wins.
var defaultConditionTable = []ConditionKeywords{
	{Condition: "dandruff", Keywords: []string{"dermatology", "skin", "clinic", "hospital"}},
	{Condition: "hair fall", Keywords: []string{"dermatology", "clinic", "hospital"}},
	{Condition: "pimples and acne", Keywords: []string{"dermatology", "skin", "clinic", "hospital"}},
	{Condition: "dry skin", Keywords: []string{"dermatology", "clinic", "hospital"}},
	{Condition: "dark spots and pigmentation", Keywords: []string{"dermatology", "clinic", "hospital"}},
	{Condition: "skin rash", Keywords: []string{"dermatology", "clinic", "hospital"}},
	{Condition: "Alzheimer's disease", Keywords: []string{"neurology", "geriatric", "hospital", "clinic"}},
	{Condition: "chest pain", Keywords: []string{"hospital", "cardiac", "clinic"}},
	{Condition: "shortness of breath", Keywords: []string{"hospital", "clinic"}},
	{Condition: "fever", Keywords: []string{"hospital", "clinic"}},
	{Condition: "cough", Keywords: []string{"hospital", "clinic"}},
	{Condition: "headache", Keywords: []string{"hospital", "clinic"}},
	{Condition: "stomach ache", Keywords: []string{"hospital", "clinic"}},
	{Condition: "diarrhea", Keywords: []string{"hospital", "clinic"}},
	{Condition: "vomiting", Keywords: []string{"hospital", "clinic"}},
	{Condition: "joint pain", Keywords: []string{"hospital", "clinic", "orthopaedic"}},
	{Condition: "fatigue", Keywords: []string{"hospital", "clinic"}},
	{Condition: "dizziness", Keywords: []string{"hospital", "clinic"}},
	{Condition: "eye redness", Keywords: []string{"hospital", "clinic", "eye"}},
	{Condition: "dental pain", Keywords: []string{"dentist", "dental", "clinic", "hospital"}},
}

// DefaultHints returns the fallback hint set used when no condition matches.
func DefaultHints() []string {
	return []string{"hospital", "clinic"}
}

// ConditionHints turns condition/symptom names into ranking keywords.
type ConditionHints struct {
	table []ConditionKeywords
}

// NewConditionHints creates a mapper over the built-in condition table
func NewConditionHints() *ConditionHints {
	return NewConditionHintsWithTable(defaultConditionTable)
}

// NewConditionHintsWithTable creates a mapper over a custom ordered table
func NewConditionHintsWithTable(table []ConditionKeywords) *ConditionHints {
	normalized := make([]ConditionKeywords, 0, len(table))
	for _, entry := range table {
		condition := normalizeName(entry.Condition)
		if condition == "" {
			continue
		}
		keywords := make([]string, 0, len(entry.Keywords))
		for _, k := range entry.Keywords {
			if k = normalizeName(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		normalized = append(normalized, ConditionKeywords{Condition: condition, Keywords: keywords})
	}
	return &ConditionHints{table: normalized}
}

// HintsFor returns the ordered, duplicate-free union of keywords for every matching name.
// Exact match and substring containment in either direction both count as a match.
func (h *ConditionHints) HintsFor(names []string) []string {
	var hints []string
	seen := make(map[string]struct{})

	for _, raw := range names {
		name := normalizeName(raw)
		if name == "" {
			continue
		}
		entry, ok := h.match(name)
		if !ok {
			continue
		}
		for _, k := range entry.Keywords {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			hints = append(hints, k)
		}
	}

	if len(hints) == 0 {
		return DefaultHints()
	}
	return hints
}

func (h *ConditionHints) match(name string) (ConditionKeywords, bool) {
	for _, entry := range h.table {
		if entry.Condition == name ||
			strings.Contains(entry.Condition, name) ||
			strings.Contains(name, entry.Condition) {
			return entry, true
		}
	}
	return ConditionKeywords{}, false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
