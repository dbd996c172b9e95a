// Package media holds the input-side data model: a Reference is a borrowed,
// read-only handle on the caller's media file together with its
// extension-derived classification.
//
// Subpackages:
//   - format: extension classification
//   - ffprobe: typed ffprobe output used for diagnostics
package media
