package store

import (
	"errors"
	"fmt"
)

var (
	// ErrLocked indicates the bitmap already has an outstanding lock.
	ErrLocked = errors.New("store: bitmap already locked")
	// ErrNotLocked indicates UnlockBits was called with data that is not the outstanding lock.
	ErrNotLocked = errors.New("store: bitmap not locked")
	// ErrInvalidRegion indicates a lock rectangle that is empty or outside the bitmap.
	ErrInvalidRegion = errors.New("store: invalid lock region")
	// ErrClosed indicates the bitmap has been released.
	ErrClosed = errors.New("store: bitmap closed")
	// ErrInvalidSize indicates non-positive dimensions.
	ErrInvalidSize = errors.New("store: invalid bitmap size")
	// ErrInvalidFormat indicates an unknown pixel format tag.
	ErrInvalidFormat = errors.New("store: invalid pixel format")
	// ErrCodec is wrapped by every decode and encode failure.
	ErrCodec = errors.New("store: codec failure")
	// ErrUnknownEncoding indicates a path or name that maps to no encoder.
	ErrUnknownEncoding = fmt.Errorf("%w: unknown encoding", ErrCodec)
)
