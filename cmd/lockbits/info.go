package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcarmo/lockbits/internal/pixbuf"
	"github.com/rcarmo/lockbits/internal/store"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Show the pixel layout an image locks into",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	buf, err := pixbuf.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer buf.Close()

	format := buf.PixelFormat()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:        %s\n", path)
	fmt.Fprintf(out, "File size:   %d bytes\n", st.Size())
	fmt.Fprintf(out, "Dimensions:  %d x %d\n", buf.Width(), buf.Height())
	fmt.Fprintf(out, "Format:      %s\n", format)
	fmt.Fprintf(out, "Bits/pixel:  %d\n", buf.BitsPerPixel())
	fmt.Fprintf(out, "Alpha:       %t\n", format.HasAlpha())
	fmt.Fprintf(out, "Pixels:      %d\n", buf.PixelCount())
	fmt.Fprintf(out, "Buffer:      %d bytes\n", len(buf.Bytes()))
	if bm, ok := buf.Backing().(*store.Bitmap); ok {
		fmt.Fprintf(out, "Stride:      %d bytes\n", bm.Stride())
	}

	return nil
}
