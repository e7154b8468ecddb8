// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"errors"
	"fmt"
)

var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrTooFewPositions     = fmt.Errorf("%w: a ring requires at least %d positions", ErrInvalidArgument, minRingPositions)
	ErrRingNotClosed       = fmt.Errorf("%w: the first and last positions of a ring must be equal", ErrInvalidArgument)
	ErrMultipleRings       = fmt.Errorf("%w: only polygons with a single ring are supported", ErrInvalidArgument)
	ErrNoRings             = fmt.Errorf("%w: polygon has no rings", ErrInvalidArgument)
	ErrNonFiniteCoordinate = fmt.Errorf("%w: coordinates must be finite numbers", ErrInvalidArgument)
)
