// Command maskgen builds collision masks from sprite images.
//
// Usage:
//
//	maskgen [flags] sprite.png [more.png ...]
//
// Every input produces <out>/<name>.pxm. Inputs are processed in parallel.
//
//	# Alpha masks, printed to the terminal
//	maskgen -print -out masks/ player.png enemy.png
//
//	# Magenta color key with some slack, lz4 payloads
//	maskgen -mode color -color 255,0,255 -tolerance 8,8,8,0 -compress lz4 tiles.bmp
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/pixmask"
	"github.com/gogpu/pixmask/internal/image"
	"github.com/gogpu/pixmask/maskio"
)

func main() {
	var (
		mode      = flag.String("mode", "alpha", "mask builder: alpha or color")
		threshold = flag.Int("threshold", pixmask.DefaultAlphaThreshold, "alpha threshold (alpha mode)")
		colorStr  = flag.String("color", "0,0,0", "target color r,g,b (color mode)")
		tolStr    = flag.String("tolerance", "0,0,0,255", "tolerance r,g,b,a (color mode)")
		compStr   = flag.String("compress", "zstd", "payload compression: none, zstd or lz4")
		outDir    = flag.String("out", ".", "output directory")
		show      = flag.Bool("print", false, "print each mask to stdout")
		jobs      = flag.Int("j", runtime.NumCPU(), "maximum parallel jobs")
		verbose   = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if *verbose {
		pixmask.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	comp, err := maskio.ParseCompression(*compStr)
	if err != nil {
		log.Fatal(err)
	}
	build, err := newBuilder(*mode, *threshold, *colorStr, *tolStr)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(*outDir, 0o750); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	inputs := flag.Args()
	if err := checkOutputs(*outDir, inputs); err != nil {
		log.Fatal(err)
	}
	masks := make([]*pixmask.Mask, len(inputs))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(*jobs, 1))
	for i, path := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := process(path, *outDir, build, comp)
			if err != nil {
				return err
			}
			masks[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Failed: %v", err)
	}

	for i, m := range masks {
		w, h := m.Size()
		log.Printf("%s -> %s (%dx%d, %d set)\n", inputs[i], outputPath(*outDir, inputs[i]), w, h, m.Count())
		if *show {
			fmt.Printf("%s\n%s\n\n", inputs[i], m.Format('#', '.'))
		}
	}
}

// process loads one image, builds its mask and writes the .pxm file.
func process(path, outDir string, build builder, comp maskio.Compression) (*pixmask.Mask, error) {
	img, format, err := image.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m := build(img)
	pixmask.Logger().Debug("image processed", "path", path, "format", format, "count", m.Count())

	if err := maskio.WriteFile(outputPath(outDir, path), m, maskio.WithCompression(comp)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
