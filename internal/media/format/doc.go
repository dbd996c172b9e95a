// Package format maps media file names onto the routing tags the
// normalization pipeline uses to pick an extraction strategy.
//
// Classification is a pure function of the lowercased extension. File
// contents are never inspected, so classifying is constant time and cannot
// fail: anything unrecognised is Unknown and goes to generic decoding.
package format
