// Package janitor owns every temporary file voxscribe creates.
//
// Temp files are named voxscribe-<uuid><suffix> inside one directory and are
// created exclusively, so concurrent sessions never collide. Release is
// idempotent and best effort: removal failures are logged, never returned.
// The janitor only removes paths it created itself; caller-supplied inputs
// are out of its reach.
package janitor
