package bitonic

import "errors"

// Sentinel errors returned by sorting operations.
var (
	// ErrInvalidLength is returned when a sequence length is not an
	// exact power of two or is less than 2. It is raised before any
	// mutation or device interaction.
	ErrInvalidLength = errors.New("bitonic: sequence length must be a power of two and at least 2")

	// ErrInvalidTileWidth is returned by NewLocalSorter when the tile
	// width is not a power of two or is less than 2.
	ErrInvalidTileWidth = errors.New("bitonic: tile width must be a power of two and at least 2")
)
