package main

import (
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/image/tiff"

	"github.com/rcarmo/lockbits/internal/config"
	"github.com/rcarmo/lockbits/internal/logging"
	"github.com/rcarmo/lockbits/internal/pixbuf"
	"github.com/rcarmo/lockbits/internal/store"
)

const (
	appName    = "lockbits"
	appVersion = "v0.3.0"
)

var (
	cfg     *config.Config
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:               appName,
	Short:             "Lock images into flat B,G,R[,A] pixel buffers and edit them",
	Version:           appVersion,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { closeLog() },
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "append log output to this file")
	rootCmd.PersistentFlags().Int("jpeg-quality", 0, "JPEG quality 1-100 (default from LOCKBITS_JPEG_QUALITY)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		closeLog()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and points the logger at it.
func setup(cmd *cobra.Command, _ []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	file, _ := cmd.Flags().GetString("log-file")
	quality, _ := cmd.Flags().GetInt("jpeg-quality")

	opts := config.LoadOptions{
		LogLevel:    strings.TrimSpace(level),
		LogFile:     strings.TrimSpace(file),
		JPEGQuality: quality,
	}
	// a --format given to new or convert overrides the configured default
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		opts.DefaultFormat = strings.TrimSpace(f.Value.String())
	}

	c, err := config.LoadWithOverrides(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = c

	logging.SetLevelFromString(cfg.Logging.Level)
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logFile = f
		logging.SetOutput(f)
	}

	logging.Debug("CLI: %s %s, config %+v", appName, cmd.Name(), *cfg)
	return nil
}

func closeLog() {
	if logFile == nil {
		return
	}
	logging.SetOutput(os.Stderr)
	_ = logFile.Close()
	logFile = nil
}

// encodeOptions maps the codec configuration onto store encoder options.
func encodeOptions(c config.CodecConfig) store.EncodeOptions {
	opts := store.DefaultEncodeOptions()
	opts.JPEGQuality = c.JPEGQuality

	switch c.PNGCompression {
	case "none":
		opts.PNGCompression = png.NoCompression
	case "speed":
		opts.PNGCompression = png.BestSpeed
	case "best":
		opts.PNGCompression = png.BestCompression
	default:
		opts.PNGCompression = png.DefaultCompression
	}

	if c.TIFFCompression == "none" {
		opts.TIFFCompression = tiff.Uncompressed
		opts.TIFFPredictor = false
	}
	return opts
}

// configure applies the configured encoder options to the buffer's store.
func configure(buf *pixbuf.Buffer) {
	if bm, ok := buf.Backing().(*store.Bitmap); ok {
		bm.Options = encodeOptions(cfg.Codec)
	}
}

// save writes buf to path, relocking per configuration.
func save(buf *pixbuf.Buffer, path string) error {
	configure(buf)
	if err := buf.Save(path, cfg.Codec.RelockOnSave); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
