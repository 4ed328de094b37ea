package icon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/png"
	"io"
)

var errNilIcon = errors.New("nil icon")

// WritePNG encodes i as PNG.
func WritePNG(w io.Writer, i *Icon) error {
	if i == nil {
		return errNilIcon
	}
	return png.Encode(w, i.img)
}

// EncodeICO encodes i as a single-image ICO file with a PNG payload, which
// Windows accepts since Vista.
func EncodeICO(i *Icon) ([]byte, error) {
	if i == nil {
		return nil, errNilIcon
	}
	var pngData bytes.Buffer
	if err := png.Encode(&pngData, i.img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return wrapPNGInICO(pngData.Bytes(), i.Width(), i.Height()), nil
}

func wrapPNGInICO(pngData []byte, w, h int) []byte {
	const headerSize = 6
	const entrySize = 16

	// 0 means 256 or larger
	bw, bh := byte(w), byte(h)
	if w >= 256 {
		bw = 0
	}
	if h >= 256 {
		bh = 0
	}

	buf := make([]byte, headerSize+entrySize+len(pngData))

	// ICONDIR
	binary.LittleEndian.PutUint16(buf[0:], 0)
	binary.LittleEndian.PutUint16(buf[2:], 1) // type: icon
	binary.LittleEndian.PutUint16(buf[4:], 1) // image count

	// ICONDIRENTRY
	off := headerSize
	buf[off+0] = bw
	buf[off+1] = bh
	buf[off+2] = 0 // palette size
	buf[off+3] = 0
	binary.LittleEndian.PutUint16(buf[off+4:], 1)  // planes
	binary.LittleEndian.PutUint16(buf[off+6:], 32) // bits per pixel
	binary.LittleEndian.PutUint32(buf[off+8:], uint32(len(pngData)))
	binary.LittleEndian.PutUint32(buf[off+12:], headerSize+entrySize)

	copy(buf[headerSize+entrySize:], pngData)
	return buf
}
