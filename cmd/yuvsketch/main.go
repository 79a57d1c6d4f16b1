package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	ys "yuvsketch/pkg/yuvsketch"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	format  string
	width   int
	height  int
	output  string
	rect    string
	median  bool
	color   bool
	workers int
	verbose bool
	quiet   bool
}

func run(args []string) error {
	var opts options
	fs := flag.NewFlagSet("yuvsketch", flag.ContinueOnError)
	fs.StringVar(&opts.format, "format", "yuy2", "pixel format: nv12, yuy2 or uyvy")
	fs.IntVar(&opts.width, "width", 0, "frame width in pixels (raw input)")
	fs.IntVar(&opts.height, "height", 0, "frame height in pixels (raw input)")
	fs.StringVar(&opts.output, "o", "", "output file: .yuv/.raw for a raw stream, .jpg/.png/.tif/.bmp for an image")
	fs.StringVar(&opts.rect, "rect", "", "destination rectangle x0,y0,x1,y1 (default: full frame)")
	fs.BoolVar(&opts.median, "median", true, "median-filter luma before edge detection")
	fs.BoolVar(&opts.color, "color", false, "full-colour gradient (yuy2 only)")
	fs.IntVar(&opts.workers, "workers", 1, "goroutines sharing the edge-detection rows")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	fs.BoolVar(&opts.quiet, "q", false, "only log warnings and errors")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: yuvsketch [flags] <input-file>")
	}
	inputFilePath := fs.Arg(0)

	log := logrus.New()
	switch {
	case opts.verbose:
		log.SetLevel(logrus.DebugLevel)
	case opts.quiet:
		log.SetLevel(logrus.WarnLevel)
	}

	format, err := ys.ParsePixelFormat(opts.format)
	if err != nil {
		return err
	}
	rect, err := parseRect(opts.rect)
	if err != nil {
		return err
	}

	params := ys.NewParams()
	params.MedianFilter = opts.median
	params.ColorEdges = opts.color
	params.Workers = opts.workers
	params.Logger = log
	engine := ys.NewEngine(params)
	engine.SetDestinationRect(rect)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Loading: %s\n", inputFilePath)
	startTime := time.Now()

	var last ys.Frame
	if isRawPath(inputFilePath) {
		last, err = processRaw(ctx, engine, inputFilePath, format, opts)
	} else {
		last, err = processImage(engine, inputFilePath, format, opts)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(startTime)

	printReport(engine, last, elapsed, opts.color)
	return nil
}

func isRawPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yuv", ".raw", ".nv12", ".yuy2", ".uyvy":
		return true
	}
	return false
}

// processRaw streams a raw file through the engine. With a raw output path
// every frame is written; with an image path the last frame is rendered.
func processRaw(ctx context.Context, engine *ys.Engine, path string, format ys.PixelFormat, opts options) (ys.Frame, error) {
	if opts.width <= 0 || opts.height <= 0 {
		return ys.Frame{}, fmt.Errorf("raw input needs -width and -height")
	}
	in, err := os.Open(path)
	if err != nil {
		return ys.Frame{}, fmt.Errorf("opening raw input: %w", err)
	}
	defer in.Close()

	fr, err := ys.NewFrameReader(in, format, opts.width, opts.height)
	if err != nil {
		return ys.Frame{}, err
	}

	if opts.output != "" && isRawPath(opts.output) {
		out, err := os.Create(opts.output)
		if err != nil {
			return ys.Frame{}, fmt.Errorf("creating raw output: %w", err)
		}
		defer out.Close()
		tee := &lastFrameWriter{w: out, size: fr.FrameSize()}
		stats, err := ys.ProcessStream(ctx, engine, fr, tee)
		if err != nil {
			return ys.Frame{}, err
		}
		if stats.Frames == 0 {
			return ys.Frame{}, fmt.Errorf("no frames in %s", path)
		}
		fmt.Printf("Frames processed: %d (%.1f fps)\n", stats.Frames, float64(stats.Frames)/stats.Elapsed.Seconds())
		return ys.ReadRawFrameFromBytes(tee.last, format, opts.width, opts.height)
	}

	tee := &lastFrameWriter{w: io.Discard, size: fr.FrameSize()}
	stats, err := ys.ProcessStream(ctx, engine, fr, tee)
	if err != nil {
		return ys.Frame{}, err
	}
	if stats.Frames == 0 {
		return ys.Frame{}, fmt.Errorf("no frames in %s", path)
	}
	last, err := ys.ReadRawFrameFromBytes(tee.last, format, opts.width, opts.height)
	if err != nil {
		return ys.Frame{}, err
	}
	if opts.output != "" {
		if err := ys.RenderFrame(last, opts.output, engine.Variant().String()); err != nil {
			return ys.Frame{}, err
		}
	}
	return last, nil
}

func processImage(engine *ys.Engine, path string, format ys.PixelFormat, opts options) (ys.Frame, error) {
	src, err := loadImageFrame(path, format)
	if err != nil {
		return ys.Frame{}, err
	}
	fmt.Printf("Image loaded: %dx%d as %s\n", src.Width, src.Height, format)

	if err := engine.Configure(format, src.Width, src.Height); err != nil {
		return ys.Frame{}, err
	}
	dst, err := ys.NewFrame(format, src.Width, src.Height)
	if err != nil {
		return ys.Frame{}, err
	}
	if err := engine.Transform(src, dst); err != nil {
		return ys.Frame{}, fmt.Errorf("transforming frame: %w", err)
	}

	if opts.output != "" {
		if isRawPath(opts.output) {
			out, err := os.Create(opts.output)
			if err != nil {
				return ys.Frame{}, fmt.Errorf("creating raw output: %w", err)
			}
			defer out.Close()
			if err := ys.WriteFrame(out, dst); err != nil {
				return ys.Frame{}, err
			}
		} else if err := ys.RenderFrame(dst, opts.output, engine.Variant().String()); err != nil {
			return ys.Frame{}, err
		}
	}
	return dst, nil
}

// lastFrameWriter forwards writes and keeps a copy of the most recent
// complete frame.
type lastFrameWriter struct {
	w    io.Writer
	size int
	cur  []byte
	last []byte
}

func (l *lastFrameWriter) Write(p []byte) (int, error) {
	n, err := l.w.Write(p)
	l.cur = append(l.cur, p[:n]...)
	for len(l.cur) >= l.size {
		l.last = append(l.last[:0], l.cur[:l.size]...)
		l.cur = append(l.cur[:0], l.cur[l.size:]...)
	}
	return n, err
}

func parseRect(s string) (*image.Rectangle, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("rect %q: want x0,y0,x1,y1", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("rect %q: %w", s, err)
		}
		v[i] = n
	}
	return &image.Rectangle{Min: image.Point{X: v[0], Y: v[1]}, Max: image.Point{X: v[2], Y: v[3]}}, nil
}

func printReport(engine *ys.Engine, last ys.Frame, elapsed time.Duration, color bool) {
	fmt.Println()
	fmt.Printf("=== Sketch Results (%.2fs) ===\n", elapsed.Seconds())
	fmt.Printf("  Format:          %s\n", engine.Format())
	fmt.Printf("  Frame size:      %d x %d (%d bytes)\n", last.Width, last.Height, engine.ImageSize())
	fmt.Printf("  Variant:         %s (median backend: %s)\n", engine.Variant(), ys.MedianBackend)
	fmt.Printf("  Region:          %v\n", engine.Region())

	analysis := ys.AnalyzeEdges(last, ys.DefaultInkThreshold, !color)
	if analysis == nil {
		fmt.Println("==============================")
		return
	}
	fmt.Printf("  Edge coverage:   %.1f%%\n", analysis.Coverage*100)
	fmt.Println()
	fmt.Println("=== Edge Zones (3x3) ===")
	for i, pos := range ys.ZoneOrder {
		z := analysis.Zones[pos]
		fmt.Printf("  %-8s ink=%5.1f%%  mean=%.1f  n=%d\n", z.Label, z.InkFraction*100, z.MeanLuma, z.Samples)
		if (i+1)%3 == 0 && i < 8 {
			fmt.Println("  ---")
		}
	}
	fmt.Printf("\n  Busiest:  %s\n  Quietest: %s\n", analysis.Busiest, analysis.Quietest)
	fmt.Println("==============================")
}
