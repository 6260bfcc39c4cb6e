// Command maskview shows two collision masks in the terminal and lets you
// slide the second over the first to watch pixel-perfect overlap.
//
// Usage:
//
//	maskview [-tone=false] [-threshold N] a.png b.pxm
//
// Inputs are .pxm files written by maskgen or images (alpha masks).
// Arrow keys or hjkl move b, q or Esc quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gogpu/pixmask"
	"github.com/gogpu/pixmask/internal/image"
	"github.com/gogpu/pixmask/maskio"
)

func main() {
	var (
		tone      = flag.Bool("tone", true, "play a tone when the masks start to overlap")
		threshold = flag.Int("threshold", pixmask.DefaultAlphaThreshold, "alpha threshold for image inputs")
	)
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: maskview [flags] a b")
		flag.PrintDefaults()
		os.Exit(2)
	}

	a, err := loadMask(flag.Arg(0), *threshold)
	if err != nil {
		log.Fatal(err)
	}
	b, err := loadMask(flag.Arg(1), *threshold)
	if err != nil {
		log.Fatal(err)
	}

	v, err := newViewer(a, b)
	if err != nil {
		log.Fatalf("Failed to open screen: %v", err)
	}
	defer v.close()

	if *tone {
		if err := v.initAudio(); err != nil {
			// Non-fatal, the viewer works without sound
			log.Printf("Audio initialization failed: %v", err)
		}
	}

	v.run()
}

// loadMask reads a .pxm file, or builds an alpha mask from an image file.
func loadMask(path string, threshold int) (*pixmask.Mask, error) {
	if !image.IsImagePath(path) {
		return maskio.ReadFile(path)
	}
	img, _, err := image.Load(path)
	if err != nil {
		return nil, err
	}
	return pixmask.FromImageAlpha(img, pixmask.WithAlphaThreshold(threshold)), nil
}
