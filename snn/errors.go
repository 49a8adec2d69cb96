// Copyright 2025-2026 The CortexN Authors. SPDX-License-Identifier: Apache-2.0

package snn

import "github.com/pkg/errors"

// All failures surfaced by this package are local, recoverable conditions
// wrapping one of these sentinels; match with errors.Is. None of them are
// ever escalated to process termination. The only fatal condition is an
// internal contract violation (the manager handing a kernel mis-sized
// buffers), which panics -- a programming defect, not a runtime error.
var (
	// ErrConfig reports zero or invalid dimensions or parameters at layer
	// creation. Nothing is allocated for the failed attempt.
	ErrConfig = errors.New("invalid layer configuration")

	// ErrShapeMismatch reports a weight/bias source or an input vector
	// whose size does not match the layer's declared shape. Replacement
	// operations fail atomically: the previous tensors remain usable.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidHandle reports an operation on a released, zero or
	// unknown handle.
	ErrInvalidHandle = errors.New("invalid or released layer handle")

	// ErrMalformedSource reports a weight byte source that is shorter
	// than required or otherwise unreadable. Same atomic-fail semantics
	// as ErrShapeMismatch.
	ErrMalformedSource = errors.New("malformed weight source")
)
