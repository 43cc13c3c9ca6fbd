// Package version contains information on the current version of the gocli
// framework. It is split from the main program for easy use by any binary
// embedding the framework.
package version

// Current is the string representing the current version of gocli.
const Current = "0.1.0"
