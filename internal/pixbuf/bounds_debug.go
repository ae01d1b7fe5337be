//go:build lockbitsdebug

package pixbuf

import "fmt"

const checkBounds = true

func (b *Buffer) mustContain(x, y int) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		panic(fmt.Sprintf("pixbuf: pixel (%d,%d) outside %dx%d", x, y, b.width, b.height))
	}
}
