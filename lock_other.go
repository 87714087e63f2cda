//go:build !unix

package vending

import "os"

// Without flock appends are serialized by the FileLogger mutex only.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
