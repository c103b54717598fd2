// Package logging wraps a package-level *log.Logger, optionally redirected
// to a file, for the handful of operational lines STFS's CLI prints.
package logging

import (
	"fmt"
	"log"
	"os"
)

// Default is the package-wide logger, writing to stderr until Redirect is
// called.
var Default = log.New(os.Stderr, "stfs: ", log.LstdFlags)

// Redirect points Default at f, keeping the prefix and flags.
func Redirect(f *os.File) {
	Default = log.New(f, "stfs: ", log.LstdFlags)
}

// Infof logs an informational line.
func Infof(format string, args ...any) {
	Default.Printf(format, args...)
}

// Errorf logs an error line, prefixing the message distinctly so it is
// greppable in a shared log file.
func Errorf(format string, args ...any) {
	Default.Printf("ERROR: %s", fmt.Sprintf(format, args...))
}
