package clipfiles

import (
	"encoding/binary"
	"unicode/utf16"
)

// dropFilesHeaderSize is sizeof(DROPFILES): pFiles, pt.x, pt.y, fNC, fWide.
const dropFilesHeaderSize = 20

// EncodeDropFiles builds a wide-character DROPFILES payload for CF_HDROP.
func EncodeDropFiles(paths []string) []byte {
	var units []uint16
	for _, p := range paths {
		units = append(units, utf16.Encode([]rune(p))...)
		units = append(units, 0)
	}
	units = append(units, 0)

	buf := make([]byte, dropFilesHeaderSize+2*len(units))
	binary.LittleEndian.PutUint32(buf[0:], dropFilesHeaderSize)
	binary.LittleEndian.PutUint32(buf[16:], 1)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[dropFilesHeaderSize+2*i:], u)
	}
	return buf
}

// DecodeDropFiles parses a DROPFILES payload in either character width.
// Malformed input yields nil.
func DecodeDropFiles(b []byte) []string {
	if len(b) < dropFilesHeaderSize {
		return nil
	}
	offset := int(binary.LittleEndian.Uint32(b[0:]))
	wide := binary.LittleEndian.Uint32(b[16:]) != 0
	if offset < dropFilesHeaderSize || offset > len(b) {
		return nil
	}
	list := b[offset:]

	var out []string
	if wide {
		var cur []uint16
		for i := 0; i+1 < len(list); i += 2 {
			u := binary.LittleEndian.Uint16(list[i:])
			if u != 0 {
				cur = append(cur, u)
				continue
			}
			if len(cur) == 0 {
				break
			}
			out = append(out, string(utf16.Decode(cur)))
			cur = cur[:0]
		}
		return out
	}

	start := 0
	for i := 0; i < len(list); i++ {
		if list[i] != 0 {
			continue
		}
		if i == start {
			break
		}
		out = append(out, string(list[start:i]))
		start = i + 1
	}
	return out
}
