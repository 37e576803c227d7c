// Package service implements the demo apps on top of the analysis
// packages. Each service owns its datasets and returns plain values or
// component trees for the HTTP layer to encode.
package service

import (
	"errors"

	"github.com/vanshika/demolab/internal/network"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("unavailable")
	ErrNoPath       = network.ErrNoPath
)
