package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcarmo/lockbits/internal/pixbuf"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a blank image",
	Args:  cobra.NoArgs,
	RunE:  runNew,
}

func init() {
	newCmd.Flags().StringP("output", "o", "", "Output image file (encoding chosen by extension)")
	newCmd.Flags().Int("width", 0, "Width in pixels (default from LOCKBITS_DEFAULT_WIDTH)")
	newCmd.Flags().Int("height", 0, "Height in pixels (default from LOCKBITS_DEFAULT_HEIGHT)")
	newCmd.Flags().String("format", "", "Pixel format: gray8, rgb24, rgb32, argb32 (default from LOCKBITS_DEFAULT_FORMAT)")
	newCmd.Flags().String("fill", "", "Fill color (#RRGGBB, #AARRGGBB or a name)")
	newCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	fillStr, _ := cmd.Flags().GetString("fill")

	if width == 0 {
		width = cfg.Canvas.DefaultWidth
	}
	if height == 0 {
		height = cfg.Canvas.DefaultHeight
	}
	if err := cfg.CheckSize(width, height); err != nil {
		return err
	}

	format, err := cfg.Canvas.Format()
	if err != nil {
		return err
	}

	buf, err := pixbuf.New(width, height, format)
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	defer buf.Close()

	if fillStr != "" {
		c, err := pixbuf.ParseColor(fillStr)
		if err != nil {
			return err
		}
		buf.Fill(c)
	}

	if err := save(buf, output); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %d x %d %s\n", output, width, height, format)
	return nil
}
