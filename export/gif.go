package export

import (
	"bytes"
	"compress/lzw"
	"fmt"
)

const (
	// frameDelay is the per-frame delay in hundredths of a second,
	// round(100 / OutputFPS).
	frameDelay = 8

	// lzwLitWidth is the GIF minimum LZW code size for a full 256-entry
	// palette.
	lzwLitWidth = 8

	gifTrailer = 0x3B
)

// EncodeGIF assembles the complete GIF89a byte stream: header, logical
// screen with one global 256-entry color table, a Netscape infinite-loop
// block, one transparent restore-to-background frame per index buffer, and
// the trailer.
//
// Parameters:
//   - frames: palette index buffers, one per frame in display order
//   - width: logical screen and frame width in pixels
//   - height: logical screen and frame height in pixels
//   - p: the global palette; entry 0 is the transparent chroma key
//
// Returns:
//   - []byte: the encoded file
//   - error: error if inputs are inconsistent or compression fails
func EncodeGIF(frames [][]byte, width, height int, p *Palette) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("failed to encode gif: no frames")
	}
	if width < 1 || height < 1 || width > 0xFFFF || height > 0xFFFF {
		return nil, fmt.Errorf("failed to encode gif: size %dx%d out of range", width, height)
	}
	for i, f := range frames {
		if len(f) != width*height {
			return nil, fmt.Errorf("failed to encode gif: frame %d has %d indices, want %d",
				i, len(f), width*height)
		}
	}

	var buf bytes.Buffer
	// Indexed data compresses well below 1 byte per pixel; this avoids
	// regrowth for typical exports.
	buf.Grow(len(frames)*width*height/2 + 1024)

	buf.WriteString("GIF89a")
	writeUint16(&buf, uint16(width))
	writeUint16(&buf, uint16(height))
	// Global color table present, color resolution 7, table size 2^(7+1).
	buf.WriteByte(0xF7)
	buf.WriteByte(0) // background color index
	buf.WriteByte(0) // pixel aspect ratio
	for _, c := range p.Colors {
		buf.WriteByte(c.R)
		buf.WriteByte(c.G)
		buf.WriteByte(c.B)
	}

	writeNetscapeLoop(&buf)

	for i, frame := range frames {
		writeGraphicControl(&buf)
		writeImageDescriptor(&buf, uint16(width), uint16(height))
		if err := writeImageData(&buf, frame); err != nil {
			return nil, fmt.Errorf("failed to encode gif frame %d: %w", i, err)
		}
	}

	buf.WriteByte(gifTrailer)
	return buf.Bytes(), nil
}

// writeNetscapeLoop emits the application extension that makes conformant
// viewers loop forever.
func writeNetscapeLoop(buf *bytes.Buffer) {
	buf.Write([]byte{0x21, 0xFF, 0x0B})
	buf.WriteString("NETSCAPE2.0")
	buf.Write([]byte{0x03, 0x01})
	writeUint16(buf, 0) // loop count 0 = infinite
	buf.WriteByte(0)
}

// writeGraphicControl emits the per-frame extension: restore-to-background
// disposal so transparent regions do not smear between frames, and index 0
// transparent.
func writeGraphicControl(buf *bytes.Buffer) {
	buf.Write([]byte{0x21, 0xF9, 0x04})
	// Disposal 2 in bits 4-2, transparent color flag in bit 0.
	buf.WriteByte(2<<2 | 1)
	writeUint16(buf, frameDelay)
	buf.WriteByte(0) // transparent color index
	buf.WriteByte(0) // block terminator
}

func writeImageDescriptor(buf *bytes.Buffer, width, height uint16) {
	buf.WriteByte(0x2C)
	writeUint16(buf, 0) // left
	writeUint16(buf, 0) // top
	writeUint16(buf, width)
	writeUint16(buf, height)
	buf.WriteByte(0) // no local color table, not interlaced
}

// writeImageData LZW-compresses the index buffer and chops the stream into
// the GIF's 255-byte sub-blocks.
func writeImageData(buf *bytes.Buffer, indices []byte) error {
	buf.WriteByte(lzwLitWidth)

	bw := &blockWriter{buf: buf}
	lw := lzw.NewWriter(bw, lzw.LSB, lzwLitWidth)
	if _, err := lw.Write(indices); err != nil {
		return err
	}
	if err := lw.Close(); err != nil {
		return err
	}
	bw.flush()
	buf.WriteByte(0) // block terminator
	return nil
}

// blockWriter chops a byte stream into GIF sub-blocks of at most 255 bytes,
// each prefixed with its length.
type blockWriter struct {
	buf   *bytes.Buffer
	block [255]byte
	n     int
}

func (b *blockWriter) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		copied := copy(b.block[b.n:], p)
		b.n += copied
		p = p[copied:]
		if b.n == len(b.block) {
			b.flush()
		}
	}
	return total, nil
}

func (b *blockWriter) flush() {
	if b.n == 0 {
		return
	}
	b.buf.WriteByte(byte(b.n))
	b.buf.Write(b.block[:b.n])
	b.n = 0
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
}
