package format

import "time"

const (
	filetimeOffset = 116444736000000000 // FILETIME epoch (1601) to Unix epoch in 100ns units
	filetimeUnit   = 100
)

// FiletimeToTime converts a Windows FILETIME to UTC. Values before the Unix
// epoch collapse to the epoch.
func FiletimeToTime(v uint64) time.Time {
	if v <= filetimeOffset {
		return time.Unix(0, 0).UTC()
	}
	ns := int64((v - filetimeOffset) * filetimeUnit)
	return time.Unix(0, ns).UTC()
}

// TimeToFiletime is the inverse of FiletimeToTime.
func TimeToFiletime(t time.Time) uint64 {
	ns := t.UnixNano()
	if ns < 0 {
		ns = 0
	}
	return uint64(ns)/filetimeUnit + filetimeOffset
}
