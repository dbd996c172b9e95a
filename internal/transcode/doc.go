// Package transcode drives the external ffmpeg binary.
//
// Extract converts any input ffmpeg understands into the canonical
// recognition format: mono, 16 kHz, signed 16-bit little-endian PCM in a WAV
// container, with video streams dropped. Record captures the same shape from
// a live input device. Both go through a swappable command runner so tests
// never need a real ffmpeg.
package transcode
