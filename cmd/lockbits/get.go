package main

import (
	"fmt"
	"image"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcarmo/lockbits/internal/pixbuf"
)

var getCmd = &cobra.Command{
	Use:   "get [file] [x] [y]",
	Short: "Print the color of one pixel as #AARRGGBB",
	Args:  cobra.ExactArgs(3),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	x, y, err := parsePoint(args[1], args[2])
	if err != nil {
		return err
	}

	buf, err := pixbuf.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer buf.Close()

	if err := checkPoint(buf, x, y); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), buf.Pixel(x, y))
	return nil
}

func parsePoint(xs, ys string) (int, int, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q: %w", xs, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q: %w", ys, err)
	}
	return x, y, nil
}

// checkPoint guards the unchecked pixel accessors.
func checkPoint(buf *pixbuf.Buffer, x, y int) error {
	if !(image.Point{X: x, Y: y}.In(buf.Bounds())) {
		return fmt.Errorf("point (%d,%d) outside %dx%d image", x, y, buf.Width(), buf.Height())
	}
	return nil
}
