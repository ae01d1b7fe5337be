package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcarmo/lockbits/internal/logging"
	"github.com/rcarmo/lockbits/internal/pixbuf"
	"github.com/rcarmo/lockbits/internal/store"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Re-encode an image, optionally changing its pixel format",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().String("format", "", "Target pixel format: gray8, rgb24, rgb32, argb32")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	src, err := pixbuf.Open(input)
	if err != nil {
		return fmt.Errorf("opening %s: %w", input, err)
	}
	defer src.Close()

	dst := src
	if cmd.Flags().Changed("format") {
		format, err := cfg.Canvas.Format()
		if err != nil {
			return err
		}
		if format != src.PixelFormat() {
			if dst, err = reformat(src, format); err != nil {
				return err
			}
			defer dst.Close()
		}
	}

	if err := save(dst, output); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s (%s) to %s (%s)\n", input, src.PixelFormat(), output, dst.PixelFormat())
	return nil
}

// reformat copies every pixel of src into a new buffer of the given format.
func reformat(src *pixbuf.Buffer, format store.PixelFormat) (*pixbuf.Buffer, error) {
	dst, err := pixbuf.New(src.Width(), src.Height(), format)
	if err != nil {
		return nil, fmt.Errorf("creating %s buffer: %w", format, err)
	}

	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			dst.SetPixel(x, y, src.Pixel(x, y))
		}
	}

	logging.Debug("CLI: reformatted %dx%d %s to %s", src.Width(), src.Height(), src.PixelFormat(), format)
	return dst, nil
}
