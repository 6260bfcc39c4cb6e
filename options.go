package pixmask

// BuildOption configures mask construction in [FromAlpha] and
// [FromColorThreshold]. Use functional options to override defaults.
//
// Example:
//
//	// Default alpha threshold (127)
//	m := pixmask.FromAlpha(pm)
//
//	// Only nearly opaque pixels collide
//	m := pixmask.FromAlpha(pm, pixmask.WithAlphaThreshold(250))
type BuildOption func(*buildOptions)

// buildOptions holds optional configuration for mask builders.
type buildOptions struct {
	alphaThreshold int
	tolerance      Tolerance
}

// DefaultAlphaThreshold is the alpha value a pixel must exceed to be set
// by [FromAlpha].
const DefaultAlphaThreshold = 127

// exactTolerance selects exact RGB matching with a fully opaque pixel.
var exactTolerance = Tolerance{R: 0, G: 0, B: 0, A: 255}

// DefaultTolerance returns the tolerance used by [FromColorThreshold]:
// exact RGB matching with a fully opaque pixel.
func DefaultTolerance() Tolerance {
	return exactTolerance
}

// defaultBuildOptions returns the default builder options.
func defaultBuildOptions() buildOptions {
	return buildOptions{
		alphaThreshold: DefaultAlphaThreshold,
		tolerance:      exactTolerance,
	}
}

func applyBuildOptions(opts []BuildOption) buildOptions {
	o := defaultBuildOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithAlphaThreshold sets the alpha threshold for [FromAlpha].
// A pixel is set when its alpha is strictly greater than t.
func WithAlphaThreshold(t int) BuildOption {
	return func(o *buildOptions) {
		o.alphaThreshold = t
	}
}

// WithTolerance sets the per-channel tolerance for [FromColorThreshold].
//
// Note that only the [DefaultTolerance] value itself takes the exact-match path; any
// other value, including {0, 0, 0, 254}, uses range bounds. See
// [FromColorThreshold] for details.
func WithTolerance(t Tolerance) BuildOption {
	return func(o *buildOptions) {
		o.tolerance = t
	}
}
