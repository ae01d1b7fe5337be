package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcarmo/lockbits/internal/pixbuf"
)

var setCmd = &cobra.Command{
	Use:   "set [file] [x] [y] [color]",
	Short: "Write one pixel and save the image",
	Args:  cobra.ExactArgs(4),
	RunE:  runSet,
}

func init() {
	setCmd.Flags().StringP("output", "o", "", "Output file (default overwrites the input)")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	input := args[0]
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = input
	}

	x, y, err := parsePoint(args[1], args[2])
	if err != nil {
		return err
	}
	c, err := pixbuf.ParseColor(args[3])
	if err != nil {
		return err
	}

	buf, err := pixbuf.Open(input)
	if err != nil {
		return fmt.Errorf("opening %s: %w", input, err)
	}
	defer buf.Close()

	if err := checkPoint(buf, x, y); err != nil {
		return err
	}
	buf.SetPixel(x, y, c)

	if err := save(buf, output); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set (%d,%d) to %s in %s\n", x, y, c, output)
	return nil
}
