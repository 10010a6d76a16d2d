package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionHints_HintsFor(t *testing.T) {
	hints := NewConditionHints()

	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "dandruff maps to dermatology",
			input:    []string{"dandruff"},
			expected: []string{"dermatology", "skin", "clinic", "hospital"},
		},
		{
			name:     "empty input falls back",
			input:    nil,
			expected: []string{"hospital", "clinic"},
		},
		{
			name:     "unknown condition falls back",
			input:    []string{"broken heart syndrome of the soul"},
			expected: []string{"hospital", "clinic"},
		},
		{
			name:     "blank names are ignored",
			input:    []string{"   ", ""},
			expected: []string{"hospital", "clinic"},
		},
		{
			name:     "case and whitespace are normalized",
			input:    []string{"  Chest Pain "},
			expected: []string{"hospital", "cardiac", "clinic"},
		},
		{
			name:     "input containing a condition matches",
			input:    []string{"severe dental pain since monday"},
			expected: []string{"dentist", "dental", "clinic", "hospital"},
		},
		{
			name:     "input contained in a condition matches",
			input:    []string{"alzheimer"},
			expected: []string{"neurology", "geriatric", "hospital", "clinic"},
		},
		{
			name:     "union keeps first-seen order without duplicates",
			input:    []string{"fever", "eye redness", "dandruff"},
			expected: []string{"hospital", "clinic", "eye", "dermatology", "skin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hints.HintsFor(tt.input))
		})
	}
}

func TestConditionHints_FirstMatchingEntryWins(t *testing.T) {
	hints := NewConditionHintsWithTable([]ConditionKeywords{
		{Condition: "pain", Keywords: []string{"General"}},
		{Condition: "joint pain", Keywords: []string{"orthopaedic"}},
	})

	assert.Equal(t, []string{"general"}, hints.HintsFor([]string{"joint pain"}))
}

func TestDefaultHints_ReturnsFreshCopy(t *testing.T) {
	first := DefaultHints()
	first[0] = "mutated"

	assert.Equal(t, []string{"hospital", "clinic"}, DefaultHints())
}
