// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package obdd

import "errors"

// ErrOutOfCapacity is reported when an operation cannot allocate a node
// because the inner-node table is full, even after a reclamation pass. The
// failed operation has no observable effect; the caller may release handles
// and retry.
var ErrOutOfCapacity = errors.New("inner node capacity exhausted")

// ErrCrossManager is reported when an operation receives operands owned by
// two different managers. The error is fatal to the operation, not to the
// managers involved.
var ErrCrossManager = errors.New("operands belong to different managers")

// ErrMalformedAssignment is reported when Eval or a substitution receives a
// mapping that is inconsistent with the diagram, for instance an evaluation
// path reaching a variable with no assigned value.
var ErrMalformedAssignment = errors.New("malformed assignment")

// ErrInvalidOperator is reported when an apply-with-operator call receives an
// operator tag outside the recognized set. It is detected before any node is
// created.
var ErrInvalidOperator = errors.New("invalid operator")

// errDepleted is the internal signal that the free list ran dry during a
// recursion. The top-level operation wrapper reclaims unused nodes and
// retries once before surfacing ErrOutOfCapacity.
var errDepleted = errors.New("node table depleted")
