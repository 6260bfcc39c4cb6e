// Package pixmask provides bit-packed collision masks for 2D sprites.
//
// # Overview
//
// A [Mask] stores one bit per pixel, row-major, with each row backed by a
// word-packed bit vector from the bitvec package. Masks answer the question
// "do these two sprites touch?" at pixel precision:
//
//	a := pixmask.FromAlpha(playerPixels)
//	b := pixmask.FromAlpha(enemyPixels)
//
//	// Is the enemy, drawn at (ex-px, ey-py) relative to the player, touching it?
//	if a.Overlap(b, ex-px, ey-py) {
//	    // collision
//	}
//
// # Building masks
//
// Masks are derived from RGBA pixel data through the [PixelSource]
// interface. [FromAlpha] sets every pixel whose alpha exceeds a threshold;
// [FromColorThreshold] sets every pixel close to a color. [Pixmap] is a
// ready-made RGBA buffer and [ImageSource] adapts any image.Image.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// Offsets passed to [Mask.Overlap] and friends position the other mask's
// origin relative to the receiver's origin.
//
// # Concurrency
//
// Masks perform no internal locking. A mask may be read from several
// goroutines at once, but mutation must be serialized by the caller.
//
// # Logging
//
// pixmask is silent by default. See [SetLogger].
package pixmask

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
