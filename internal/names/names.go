// Package names generates the short random identifiers used for catalog
// namespaces and tables.
package names

import (
	"math/rand/v2"
	"strings"
)

// DefaultLength is the name length used when a caller asks for zero or less.
const DefaultLength = 8

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Generator produces lowercase ASCII names. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator. A zero seed draws from the runtime's
// random source; any other seed yields a reproducible sequence of names.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		return &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate returns a name of the given length, each character chosen
// independently and uniformly from a-z.
func (g *Generator) Generate(length int) string {
	if length <= 0 {
		length = DefaultLength
	}

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(alphabet[g.rng.IntN(len(alphabet))])
	}
	return sb.String()
}

// Set holds the names used by one pass of the lifecycle scenario.
type Set struct {
	Namespace    string `json:"namespace" yaml:"namespace"`
	Table        string `json:"table" yaml:"table"`
	RenamedTable string `json:"renamedTable" yaml:"renamedTable"`
}

// NewSet generates a fresh namespace, table and renamed-table name.
func (g *Generator) NewSet(length int) Set {
	return Set{
		Namespace:    g.Generate(length),
		Table:        g.Generate(length),
		RenamedTable: g.Generate(length),
	}
}
