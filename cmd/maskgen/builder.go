package main

import (
	"fmt"
	stdimage "image"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/pixmask"
)

// builder turns a decoded image into a mask.
type builder func(stdimage.Image) *pixmask.Mask

func newBuilder(mode string, threshold int, colorStr, tolStr string) (builder, error) {
	switch mode {
	case "alpha":
		return func(img stdimage.Image) *pixmask.Mask {
			return pixmask.FromImageAlpha(img, pixmask.WithAlphaThreshold(threshold))
		}, nil

	case "color":
		c, err := parseInts(colorStr, 3)
		if err != nil {
			return nil, fmt.Errorf("-color: %w", err)
		}
		t, err := parseInts(tolStr, 4)
		if err != nil {
			return nil, fmt.Errorf("-tolerance: %w", err)
		}
		for _, v := range c {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("-color: component %d out of range 0..255", v)
			}
		}
		target := color.NRGBA{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: 255}
		tol := pixmask.Tolerance{R: t[0], G: t[1], B: t[2], A: t[3]}
		return func(img stdimage.Image) *pixmask.Mask {
			return pixmask.FromColorThreshold(pixmask.NewImageSource(img), target, pixmask.WithTolerance(tol))
		}, nil

	default:
		return nil, fmt.Errorf("unknown mode %q (want alpha or color)", mode)
	}
}

// parseInts parses exactly n comma-separated integers.
func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated values, got %q", n, s)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// outputPath maps an input image path to its .pxm file in outDir.
func outputPath(outDir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".pxm")
}

// checkOutputs rejects inputs that would be written to the same .pxm file.
func checkOutputs(outDir string, inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := outputPath(outDir, in)
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%s and %s both write %s", prev, in, out)
		}
		seen[out] = in
	}
	return nil
}
