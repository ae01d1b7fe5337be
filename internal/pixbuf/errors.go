package pixbuf

import "errors"

var (
	// ErrUnsupportedFormat indicates a backing store whose bit depth is not 8, 24 or 32.
	ErrUnsupportedFormat = errors.New("pixbuf: unsupported pixel format")
	// ErrNotLocked indicates Unlock on a buffer that holds no lock.
	ErrNotLocked = errors.New("pixbuf: buffer not locked")
	// ErrAlreadyLoaded indicates Load of the store the buffer already owns.
	ErrAlreadyLoaded = errors.New("pixbuf: store already loaded")
	// ErrClosed indicates use of a buffer after Close.
	ErrClosed = errors.New("pixbuf: buffer closed")
)
