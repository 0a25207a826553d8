package bitcube

import (
	"errors"

	"github.com/SeamusWaldron/bitcube/internal/cube"
)

// Sentinel errors for the bitcube package.
var (
	// ErrNoDiscovery is returned when a finished search found no cube.
	ErrNoDiscovery = errors.New("bitcube: no cube found")

	// ErrInvalidCubeEncoding is returned by DecodeCube for malformed input.
	ErrInvalidCubeEncoding = cube.ErrInvalidEncoding
)
