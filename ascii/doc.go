// Package ascii converts RGB camera frames into glyph grids.
//
// The pipeline is a set of pure functions over byte buffers:
//
//   - Grayscale conversion (BT.601 integer weights)
//   - Downsampling to the character grid, with plain, contrast and
//     edge-preserving variants, plus a parallel color-averaging pass
//   - Sobel edge detection and per-cell edge direction analysis
//   - Brightness to glyph mapping: flat ramps, gamma correction,
//     Floyd-Steinberg and Bayer dithering, structure-aware selection
//   - Braille rendering with 2x4 sub-pixels per character
//
// Functions never fail. Degenerate input (a zero dimension, an empty
// buffer, an empty ramp) yields an empty or space-filled result.
//
// The *Into variants write into a caller-owned destination slice, growing
// it only when its capacity is too small, so a render loop can reuse the
// same buffers every frame.
package ascii
