// SPDX-License-Identifier: MIT
// Package tsqr: sentinel error set.

package tsqr

import "errors"

// ErrNilMatrix indicates a nil input matrix.
var ErrNilMatrix = errors.New("tsqr: nil matrix")
