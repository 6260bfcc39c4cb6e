package maskio

// DefaultMaxPixels is the largest width*height [Decode] accepts unless
// [WithMaxPixels] says otherwise.
const DefaultMaxPixels = 1 << 26

// Option configures [Encode], [Decode] and the file helpers.
type Option func(*options)

type options struct {
	compression Compression
	maxPixels   uint64
}

func applyOptions(opts []Option) options {
	o := options{
		compression: CompressionZstd,
		maxPixels:   DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCompression selects the payload compression. The default is zstd.
// LZ4 payloads that do not shrink are stored uncompressed.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMaxPixels sets the largest width*height [Decode] will allocate a mask
// for. Larger headers fail with [ErrTooLarge] before any payload is read.
// Values above 2^32-1 are clamped.
func WithMaxPixels(n uint64) Option {
	return func(o *options) {
		o.maxPixels = min(n, maxIndexSpace)
	}
}
