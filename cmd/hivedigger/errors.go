package main

import "fmt"

// wrapPath prefixes err with the hive it came from, keeping it matchable.
func wrapPath(path string, err error) error {
	return fmt.Errorf("%s: %w", path, err)
}
