package core

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

const (
	idAlphabet = "0123456789abcdef"
	idLength   = 7
)

// IDGenerator produces identifiers for new wires.
type IDGenerator interface {
	NewID() string
}

type nanoidGenerator struct {
	generate func() string
}

// NewIDGenerator returns a generator producing 7-character lowercase hex
// ids. Collisions are possible at this length and are handled by the caller
// retrying with a fresh id.
func NewIDGenerator() (IDGenerator, error) {
	generate, err := nanoid.CustomASCII(idAlphabet, idLength)
	if err != nil {
		return nil, fmt.Errorf("building id generator: %w", err)
	}
	return &nanoidGenerator{generate: generate}, nil
}

func (g *nanoidGenerator) NewID() string {
	return g.generate()
}
