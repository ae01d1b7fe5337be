//go:build !lockbitsdebug

package pixbuf

// Pixel access is unchecked unless built with -tags lockbitsdebug.
const checkBounds = false

func (b *Buffer) mustContain(x, y int) {}
