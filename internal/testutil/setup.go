// Package testutil holds helpers shared by tests that need hive files on disk.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/hivedigger/hive"
	"github.com/joshuapare/hivedigger/internal/testutil/hivegen"
)

// WriteFile writes data to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteHive builds the tree under root and writes it as a hive file.
func WriteHive(t testing.TB, name string, root *hivegen.Key) string {
	t.Helper()
	return WriteFile(t, name, hivegen.Build(root))
}

// OpenHive writes the tree under root to disk and opens it the way the CLI
// does. The hive is closed when the test ends.
//
// Example:
//
//	h := testutil.OpenHive(t, &hivegen.Key{Name: "ROOT"}, hive.Options{})
//	root, err := h.Root()
func OpenHive(t testing.TB, root *hivegen.Key, opts hive.Options) *hive.Hive {
	t.Helper()
	h, err := hive.Open(WriteHive(t, "hive", root), opts)
	if err != nil {
		t.Fatalf("open hive: %v", err)
	}
	t.Cleanup(func() {
		if err := h.Close(); err != nil {
			t.Errorf("close hive: %v", err)
		}
	})
	return h
}
