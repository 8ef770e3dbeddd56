package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivedigger/internal/output"
)

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <hive> [key path]",
		Short: "List the subkeys and values of a key",
		Long: `The ls command prints the subkeys of a key, each followed by a backslash,
and then its values with their type and data length. Without a key path it
lists the root key.

Example:
  hivedigger ls SYSTEM
  hivedigger ls -o json SYSTEM 'ControlSet001\Control\Lsa'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyPath := ""
			if len(args) == 2 {
				keyPath = args[1]
			}
			return a.runLs(cmd.OutOrStdout(), args[0], keyPath)
		},
	}
}

func (a *app) runLs(w io.Writer, hivePath, keyPath string) error {
	h, err := a.openHive(hivePath)
	if err != nil {
		return err
	}
	defer h.Close()

	k, err := h.FindKeyPath(keyPath)
	if err != nil {
		return wrapPath(hivePath, err)
	}
	subkeys, err := h.Subkeys(k)
	if err != nil {
		return wrapPath(hivePath, err)
	}
	values, err := h.Values(k)
	if err != nil {
		return wrapPath(hivePath, err)
	}

	entries := make([]output.Entry, 0, len(subkeys)+len(values))
	for _, sk := range subkeys {
		entries = append(entries, output.Entry{Kind: "key", Name: sk.Name()})
	}
	for _, v := range values {
		entries = append(entries, output.Entry{
			Kind:   "value",
			Name:   v.Name(),
			Type:   v.RegType().String(),
			Length: v.Length(),
		})
	}
	return a.printer(w).Listing(entries)
}
