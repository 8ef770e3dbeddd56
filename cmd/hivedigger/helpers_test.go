package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/internal/logger"
	"github.com/joshuapare/hivedigger/internal/testutil/hivegen"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// systemTree is an offline SYSTEM hive: two control sets, Select\Current
// pointing at the second, and boot key class names under Lsa.
func systemTree() *hivegen.Key {
	controlSet := func(name string, jd []byte) *hivegen.Key {
		lsa := &hivegen.Key{Name: "Lsa", Values: []*hivegen.Value{
			{Name: "JD", Type: types.REG_BINARY, Data: jd},
			{Name: "", Type: types.REG_SZ, Data: hivegen.EncodeUTF16("lsa")},
		}}
		for _, part := range [][2]string{{"JD", "00112233"}, {"Skew1", "44556677"}, {"GBG", "8899aabb"}, {"Data", "ccddeeff"}} {
			lsa.Keys = append(lsa.Keys, &hivegen.Key{Name: part[0], Class: part[1]})
		}
		return &hivegen.Key{Name: name, Keys: []*hivegen.Key{{Name: "Control", Keys: []*hivegen.Key{lsa}}}}
	}
	return &hivegen.Key{Name: "ROOT", List: format.ListLH, Keys: []*hivegen.Key{
		controlSet("ControlSet001", []byte{0x01, 0x02}),
		controlSet("ControlSet002", []byte{0xCA, 0xFE}),
		{Name: "Select", Values: []*hivegen.Value{{Name: "Current", Type: types.REG_DWORD, Data: []byte{2, 0, 0, 0}}}},
	}}
}

// run executes the command line args in an empty working directory and
// returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	prev := logger.Log
	t.Cleanup(func() { logger.Log = prev })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
