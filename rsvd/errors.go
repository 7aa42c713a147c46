// SPDX-License-Identifier: MIT
// Package rsvd: sentinel error set.

package rsvd

import "errors"

var (
	// ErrNilMatrix indicates a nil input matrix.
	ErrNilMatrix = errors.New("rsvd: nil matrix")

	// ErrBadEmbeddingDim is returned when Compute is invoked without a
	// positive embedding dimension (WithEmbeddingDim is mandatory).
	ErrBadEmbeddingDim = errors.New("rsvd: embedding dimension must be > 0")

	// ErrSVDFailed indicates the local dense SVD of the projected matrix did
	// not converge.
	ErrSVDFailed = errors.New("rsvd: local svd failed to converge")
)
