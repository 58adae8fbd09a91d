package core

import (
	"errors"
)

var (
	// ErrSwapchainBooting signals that the swapchain was stale and has been
	// rebuilt; the caller should skip drawing this tick and try again.
	ErrSwapchainBooting = errors.New("swapchain resized or recreated, booting")

	// Sprite batch protocol violations. The rejected operation never
	// mutates batch state.
	ErrBatchAlreadyBegun = errors.New("sprite batch already begun")
	ErrBatchNotBegun     = errors.New("sprite batch not begun, call Begin first")
	ErrBatchNotEnded     = errors.New("sprite batch not ended, call End first")
	ErrBatchFull         = errors.New("sprite batch capacity exceeded")
	ErrBatchWrongEngine  = errors.New("sprite batch created on a different engine")

	ErrUnknown = errors.New("unknown")
)
