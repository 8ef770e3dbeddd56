// Package types holds the small set of public types shared by the decoder and
// its callers: the typed error taxonomy and registry value type codes.
//
// Errors carry a stable category (format, offset, not-found, data, state) so a
// caller can report "key or value absent" separately from "hive corrupt"
// without matching on message text.
package types
