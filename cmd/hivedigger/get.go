package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivedigger/internal/output"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <hive> <key path> <value name>",
		Short: "Print the data of one value",
		Long: `The get command walks a key path from the hive root and prints the data of
a value of that key. Path segments are separated by \ or /, and a leading
HKLM\ (or any other predefined key) is ignored. Use "(default)" or "@" for
the unnamed default value.

Example:
  hivedigger get SYSTEM 'ControlSet001\Control\Lsa' JD
  hivedigger get -o raw SOFTWARE Microsoft/Windows/CurrentVersion ProgramFilesDir`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGet(cmd.OutOrStdout(), args[0], args[1], args[2])
		},
	}
}

func (a *app) runGet(w io.Writer, hivePath, keyPath, valueName string) error {
	h, err := a.openHive(hivePath)
	if err != nil {
		return err
	}
	defer h.Close()

	name := valueArg(valueName)
	k, err := h.FindKeyPath(keyPath)
	if err != nil {
		return wrapPath(hivePath, err)
	}
	v, err := h.FindValue(k, name)
	if err != nil {
		return wrapPath(hivePath, err)
	}
	data, err := h.ValueData(v)
	if err != nil {
		return wrapPath(hivePath, err)
	}
	return a.printer(w).Value(output.Value{
		Source: hivePath,
		Key:    keyPath,
		Name:   name,
		Type:   v.RegType(),
		Data:   data,
	})
}

// valueArg maps the command line spellings of the default value to its
// stored name.
func valueArg(s string) string {
	if s == "@" || strings.EqualFold(s, output.DefaultValueName) {
		return ""
	}
	return s
}
