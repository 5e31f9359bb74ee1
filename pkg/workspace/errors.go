package workspace

import "github.com/pkg/errors"

var (
	// ErrSourceMissing is returned when an item that should be relocated
	// does not exist at its source path.
	ErrSourceMissing = errors.New("source does not exist")

	// ErrDestinationExists is returned when a move or clone target is
	// already present and the run was not forced.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrInvalidName is returned for design names that are not a single
	// safe path segment.
	ErrInvalidName = errors.New("invalid name")

	// ErrUnsafeLayout is returned when the staging folder would swallow the
	// working or home directory on removal.
	ErrUnsafeLayout = errors.New("unsafe layout")
)
