package hive

import (
	"github.com/joshuapare/hivedigger/internal/format"
)

// Census summarizes the bins and cells of a hive.
type Census struct {
	Bins           int
	BinBytes       int
	AllocatedCells int
	AllocatedBytes int
	FreeCells      int
	FreeBytes      int

	// Records counts allocated cells by record tag. Cells without a known
	// tag (value data, lists without a header) count under "data".
	Records map[string]int
}

var recordTags = map[[2]byte]string{
	{'n', 'k'}: "nk",
	{'v', 'k'}: "vk",
	{'s', 'k'}: "sk",
	{'d', 'b'}: "db",
	{'l', 'i'}: "li",
	{'l', 'f'}: "lf",
	{'l', 'h'}: "lh",
	{'r', 'i'}: "ri",
}

// Census walks every bin from the end of the base block up to the declared
// bin data size (or the end of the file, whichever is first). On a malformed
// bin or cell it returns what it counted so far along with the error.
func (h *Hive) Census() (Census, error) {
	c := Census{Records: map[string]int{}}
	data := h.view.Bytes()
	end := len(data)
	if declared := format.HeaderSize + int(h.base.HiveBinsDataSize); h.base.HiveBinsDataSize > 0 && declared < end {
		end = declared
	}
	for off := format.HiveDataBase; off < end; {
		bin, next, err := format.NextHBIN(data, off)
		if err != nil {
			return c, err
		}
		c.Bins++
		c.BinBytes += bin.Size
		for cellOff := off + format.HBINHeaderSize; cellOff < next; {
			cell, after, err := format.NextCell(data, bin, cellOff)
			if err != nil {
				return c, err
			}
			if cell.Free {
				c.FreeCells++
				c.FreeBytes += cell.Size
			} else {
				c.AllocatedCells++
				c.AllocatedBytes += cell.Size
				tag, ok := recordTags[cell.Tag]
				if !ok {
					tag = "data"
				}
				c.Records[tag]++
			}
			cellOff = after
		}
		off = next
	}
	return c, nil
}
