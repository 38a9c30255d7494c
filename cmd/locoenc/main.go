// Command locoenc encodes and decodes lossless still images using the
// loco codec, reading and writing the binary PGM/PPM raster formats.
//
// Usage:
//
//	locoenc enc [options] <input.ppm> <output.loco>
//	locoenc dec [options] <input.loco> <output.ppm>
//
// Grounded on github.com/deepteams/webp/cmd/gwebp/main.go's
// enc/dec subcommand CLI, adapted to this
// codec's PGM/PPM-only input and a single preset flag in place of
// gwebp's full quality/method flag set.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/loco-codec/loco"
	"github.com/loco-codec/loco/internal/telemetry"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "enc":
		err = runEnc(os.Args[2:])
	case "dec":
		err = runDec(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "locoenc: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "locoenc: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  locoenc enc [options] <input.ppm|pgm> <output.loco>
  locoenc dec [options] <input.loco> <output.ppm|pgm>

Run "locoenc <command> -h" for command-specific options.
`)
}

func parsePreset(name string) (loco.Preset, error) {
	switch name {
	case "fast":
		return loco.PresetFast, nil
	case "balanced", "":
		return loco.PresetBalanced, nil
	case "max":
		return loco.PresetMax, nil
	default:
		return 0, fmt.Errorf("unknown preset %q (want fast, balanced, or max)", name)
	}
}

func runEnc(args []string) error {
	fs := flag.NewFlagSet("enc", flag.ExitOnError)
	presetFlag := fs.String("preset", "balanced", "compression effort: fast, balanced, max")
	logPath := fs.String("log", "", "log file path (rotated via lumberjack); empty logs to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: locoenc enc [options] <input> <output>")
	}
	inPath, outPath := fs.Arg(0), fs.Arg(1)

	logger, err := telemetry.NewLogger(*logPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pr, err := parsePreset(*presetFlag)
	if err != nil {
		return err
	}

	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	img, err := readPNM(f)
	f.Close()
	if err != nil {
		return err
	}

	start := time.Now()
	var out []byte
	switch img.Channels {
	case 1:
		out, err = loco.EncodeLossless(img.Pix, img.W, img.H, pr)
	case 3:
		out, err = loco.EncodeColorLossless(img.Pix, img.W, img.H, pr)
	default:
		err = fmt.Errorf("unsupported channel count %d", img.Channels)
	}
	if err != nil {
		return err
	}
	logger.Info("encoded image",
		zap.Int("width", img.W), zap.Int("height", img.H),
		zap.Int("channels", img.Channels), zap.Int("bytes", len(out)),
		zap.Duration("elapsed", time.Since(start)))

	return os.WriteFile(outPath, out, 0o644)
}

func runDec(args []string) error {
	fs := flag.NewFlagSet("dec", flag.ExitOnError)
	logPath := fs.String("log", "", "log file path (rotated via lumberjack); empty logs to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: locoenc dec [options] <input> <output>")
	}
	inPath, outPath := fs.Arg(0), fs.Arg(1)

	logger, err := telemetry.NewLogger(*logPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	start := time.Now()
	pix, w, h, err := loco.Decode(data)
	if err != nil {
		return err
	}
	channels := len(pix) / (w * h)
	logger.Info("decoded image",
		zap.Int("width", w), zap.Int("height", h),
		zap.Int("channels", channels), zap.Duration("elapsed", time.Since(start)))

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return writePNM(out, image{W: w, H: h, Channels: channels, Pix: pix})
}
