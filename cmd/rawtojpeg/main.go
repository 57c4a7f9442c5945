// Command rawtojpeg converts a raw Bayer sensor dump to a baseline
// JPEG from the command line.
//
// Usage:
//
//	rawtojpeg -w 1920 -h 1080 [options] <input.raw>
//
// Use "-" as input to read from stdin, "-o -" to write to stdout.
// Inputs ending in .gz are decompressed on the fly. With -estimate the
// tool prints the workspace requirement and exits without converting.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	rawjpeg "github.com/rkarls/go-rawjpeg"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "rawtojpeg: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("rawtojpeg", flag.ContinueOnError)
	width := fs.Int("w", 0, "frame width in pixels (required)")
	height := fs.Int("h", 0, "frame height in pixels (required)")
	format := fs.String("f", "raw16", "pixel format: raw8/raw16/raw10p/raw12p/raw10/raw12")
	pattern := fs.String("p", "rggb", "Bayer pattern: rggb/bggr/grbg/gbrg")
	quality := fs.Int("q", 0, "JPEG quality 1-100 (0=default)")
	sub := fs.String("sub", "420", "chroma subsampling: 444/422/420")
	skip := fs.Int("skip", 0, "raw lines to discard before the frame")
	black := fs.Int("black", 0, "black level to subtract per sample")
	wb := fs.Bool("wb", false, "apply white-balance gains")
	gainR := fs.Float64("gr", 0, "red gain (0=calibrated default)")
	gainG := fs.Float64("gg", 0, "green gain (0=calibrated default)")
	gainB := fs.Float64("gb", 0, "blue gain (0=calibrated default)")
	reference := fs.Bool("reference", false, "use the floating-point reference path")
	memLimit := fs.Int("mem", 0, "workspace memory limit in bytes (0=no limit)")
	estimate := fs.Bool("estimate", false, "print the workspace requirement and exit")
	output := fs.String("o", "", `output path (default: <input>.jpg, "-" for stdout)`)

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := rawjpeg.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height
	cfg.Quality = *quality
	cfg.SkipLines = *skip
	cfg.BlackLevel = uint16(*black)
	cfg.WhiteBalance = *wb
	cfg.GainR = *gainR
	cfg.GainG = *gainG
	cfg.GainB = *gainB
	cfg.FastMode = !*reference
	cfg.MemoryLimit = *memLimit

	var err error
	if cfg.Format, err = parseFormat(*format); err != nil {
		return err
	}
	if cfg.Pattern, err = parsePattern(*pattern); err != nil {
		return err
	}
	if cfg.Subsampling, err = parseSubsampling(*sub); err != nil {
		return err
	}

	if *estimate {
		n, err := rawjpeg.EstimateMemory(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("%d bytes (%dx%d %s %s)\n", n, cfg.Width, cfg.Height, cfg.Format, cfg.Subsampling)
		return nil
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("missing input file\nUsage: rawtojpeg -w <width> -h <height> [options] <input.raw>")
	}
	inputPath := fs.Arg(0)

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	outputPath := *output
	if outputPath == "" {
		if inputPath == "-" {
			outputPath = "output.jpg"
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), rawExt(inputPath))
			outputPath = base + ".jpg"
		}
	}

	var out io.Writer = os.Stdout
	var outFile *os.File
	if outputPath != "-" {
		if outFile, err = os.Create(outputPath); err != nil {
			return err
		}
		out = outFile
	}

	enc := rawjpeg.NewEncoder()
	if err := enc.Encode(rawjpeg.NewStream(in, out), cfg); err != nil {
		if outFile != nil {
			outFile.Close()
			os.Remove(outputPath)
		}
		return err
	}
	if outFile != nil {
		if err := outFile.Close(); err != nil {
			os.Remove(outputPath)
			return err
		}
		fi, _ := os.Stat(outputPath)
		fmt.Fprintf(os.Stderr, "Encoded %s → %s (%d bytes)\n", inputPath, outputPath, fi.Size())
	}
	return nil
}

// openInput returns the raw byte source for path. "-" is stdin and
// .gz files are wrapped in a gzip reader.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &gzipInput{zr: zr, f: f}, nil
	}
	return f, nil
}

type gzipInput struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipInput) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipInput) Close() error {
	zerr := g.zr.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// rawExt strips ".raw.gz" style double extensions as one unit.
func rawExt(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".gz") {
		inner := filepath.Ext(path[:len(path)-3])
		return path[len(path)-3-len(inner):]
	}
	return filepath.Ext(path)
}

func parseFormat(s string) (rawjpeg.PixelFormat, error) {
	switch strings.ToLower(s) {
	case "raw8":
		return rawjpeg.FormatRaw8, nil
	case "raw16":
		return rawjpeg.FormatRaw16, nil
	case "raw10p":
		return rawjpeg.FormatRaw10Packed, nil
	case "raw12p":
		return rawjpeg.FormatRaw12Packed, nil
	case "raw10":
		return rawjpeg.FormatRaw10, nil
	case "raw12":
		return rawjpeg.FormatRaw12, nil
	default:
		return 0, fmt.Errorf("unknown pixel format %q", s)
	}
}

func parsePattern(s string) (rawjpeg.BayerPattern, error) {
	switch strings.ToLower(s) {
	case "rggb":
		return rawjpeg.PatternRGGB, nil
	case "bggr":
		return rawjpeg.PatternBGGR, nil
	case "grbg":
		return rawjpeg.PatternGRBG, nil
	case "gbrg":
		return rawjpeg.PatternGBRG, nil
	default:
		return 0, fmt.Errorf("unknown Bayer pattern %q", s)
	}
}

func parseSubsampling(s string) (rawjpeg.Subsampling, error) {
	switch s {
	case "444":
		return rawjpeg.Subsampling444, nil
	case "422":
		return rawjpeg.Subsampling422, nil
	case "420":
		return rawjpeg.Subsampling420, nil
	default:
		return 0, fmt.Errorf("unknown subsampling %q", s)
	}
}
