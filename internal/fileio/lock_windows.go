//go:build windows

package fileio

import "os"

// lockExclusive is a no-op on Windows: os.CreateTemp already opens the file
// exclusively for this process, and Windows denies other writers a handle
// to a file already open for writing, so there is no separate advisory-lock
// syscall needed here the way unix.Flock is needed on POSIX.
func lockExclusive(f *os.File) error { return nil }

func unlock(f *os.File) error { return nil }
