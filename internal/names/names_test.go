package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		expected int
	}{
		{name: "default length", length: 8, expected: 8},
		{name: "single character", length: 1, expected: 1},
		{name: "long name", length: 64, expected: 64},
		{name: "zero falls back to default", length: 0, expected: DefaultLength},
		{name: "negative falls back to default", length: -3, expected: DefaultLength},
	}

	gen := NewGenerator(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				got := gen.Generate(tt.length)
				require.Len(t, got, tt.expected)
				for _, c := range got {
					if c < 'a' || c > 'z' {
						t.Fatalf("Generate(%d) = %q contains non-lowercase character %q", tt.length, got, c)
					}
				}
			}
		})
	}
}

func TestGenerateSeeded(t *testing.T) {
	a := NewGenerator(42)
	b := NewGenerator(42)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Generate(8), b.Generate(8), "same seed should give the same sequence")
	}

	c := NewGenerator(43)
	assert.NotEqual(t, NewGenerator(42).NewSet(12), c.NewSet(12))
}

func TestNewSet(t *testing.T) {
	set := NewGenerator(7).NewSet(10)

	assert.Len(t, set.Namespace, 10)
	assert.Len(t, set.Table, 10)
	assert.Len(t, set.RenamedTable, 10)
	assert.NotEqual(t, set.Table, set.RenamedTable)
}

func TestGenerateUsesWholeAlphabet(t *testing.T) {
	seen := make(map[rune]bool)
	gen := NewGenerator(1)
	for i := 0; i < 200; i++ {
		for _, c := range gen.Generate(16) {
			seen[c] = true
		}
	}
	assert.Len(t, seen, len(alphabet))
}
