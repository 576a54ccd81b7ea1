package linalg

import "errors"

var (
	ErrShape               = errors.New("linalg: dimension mismatch")
	ErrNotSquare           = errors.New("linalg: matrix is not square")
	ErrNotPositiveDefinite = errors.New("linalg: matrix is not positive definite")
	ErrSingular            = errors.New("linalg: matrix is singular")
)
