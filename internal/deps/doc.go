// Package deps checks external binaries voxscribe can shell out to and
// captures their version lines for the dependency report.
package deps
