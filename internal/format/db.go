package format

import (
	"github.com/joshuapare/hivedigger/internal/buf"
)

// DBRecord is a big-data header. The segment list it points to is a bare
// array of Count cell offsets, each naming one chunk of the value.
//
//	Offset  Size  Field
//	0x00    2     'd' 'b'
//	0x02    2     Number of segments
//	0x04    4     Segment list offset
//	0x08    4     Unused
type DBRecord struct {
	Count      uint16
	ListOffset uint32
}

// IsDB reports whether a payload carries the big-data tag.
func IsDB(b []byte) bool {
	return len(b) >= SignatureSize && b[0] == 'd' && b[1] == 'b'
}

// DecodeDB decodes a big-data header payload.
func DecodeDB(b []byte) (DBRecord, error) {
	if err := checkSig(b, DBSignature, "db"); err != nil {
		return DBRecord{}, err
	}
	if len(b) < DBListOffset+OffsetFieldSize {
		return DBRecord{}, short("db", DBListOffset+OffsetFieldSize, len(b))
	}
	return DBRecord{
		Count:      buf.U16LE(b[DBCountOffset:]),
		ListOffset: buf.U32LE(b[DBListOffset:]),
	}, nil
}
