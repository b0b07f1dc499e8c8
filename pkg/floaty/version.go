// Package floaty holds module-wide constants for the floaty note store.
package floaty

// Version is the release version reported by the CLI and the HTTP surface.
const Version = "0.1.0"
