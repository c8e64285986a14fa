package maputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]bool
		expected []string
	}{
		{
			name:     "sorted keys",
			input:    map[string]bool{"zebra": true, "apple": true, "mango": true},
			expected: []string{"apple", "mango", "zebra"},
		},
		{
			name:     "single key",
			input:    map[string]bool{"only": true},
			expected: []string{"only"},
		},
		{
			name:     "empty map",
			input:    map[string]bool{},
			expected: []string{},
		},
		{
			name:     "nil map",
			input:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortedKeys(tt.input)
			assert.Equal(t, tt.expected, got, "SortedKeys(%v)", tt.input)
		})
	}
}

func TestSortedUnion(t *testing.T) {
	a := map[string]int{"/users": 1, "/pets": 2}
	b := map[string]int{"/pets": 3, "/orders": 4}
	assert.Equal(t, []string{"/orders", "/pets", "/users"}, SortedUnion(a, b))
	assert.Equal(t, []string{}, SortedUnion[string, int](nil, nil))
}

func TestOnlyIn(t *testing.T) {
	a := map[string]int{"c": 1, "a": 2, "b": 3}
	b := map[string]string{"b": "x"}
	assert.Equal(t, []string{"a", "c"}, OnlyIn(a, b))
	assert.Nil(t, OnlyIn(b, a))
}
