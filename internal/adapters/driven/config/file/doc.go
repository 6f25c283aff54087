// Package file provides file-based configuration loading for benefik.
// Configuration lives in a TOML file, with secrets resolved from the
// environment rather than stored on disk.
package file
