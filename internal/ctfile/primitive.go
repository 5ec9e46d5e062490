package ctfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
)

// byteOrder is the single endianness used across the entire CT layout:
// every multi-byte primitive is little-endian.
var byteOrder = binary.LittleEndian

func readUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("ctfile: read u8: %w", err)
	}
	return buf[0], nil
}

func readUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("ctfile: read u16: %w", err)
	}
	return byteOrder.Uint16(buf[:]), nil
}

func readInt16(r io.Reader) (int16, error) {
	v, err := readUint16(r)
	return int16(v), err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("ctfile: read u32: %w", err)
	}
	return byteOrder.Uint32(buf[:]), nil
}

func readInt32(r io.Reader) (int32, error) {
	v, err := readUint32(r)
	return int32(v), err
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("ctfile: read u64: %w", err)
	}
	return byteOrder.Uint64(buf[:]), nil
}

func readFloat32(r io.Reader) (float32, error) {
	bits, err := readUint32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

func writeUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	if err != nil {
		return fmt.Errorf("ctfile: write u8: %w", err)
	}
	return nil
}

func writeUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	byteOrder.PutUint16(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("ctfile: write u16: %w", err)
	}
	return nil
}

func writeInt16(w io.Writer, v int16) error { return writeUint16(w, uint16(v)) }

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	byteOrder.PutUint32(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("ctfile: write u32: %w", err)
	}
	return nil
}

func writeInt32(w io.Writer, v int32) error { return writeUint32(w, uint32(v)) }

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	byteOrder.PutUint64(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("ctfile: write u64: %w", err)
	}
	return nil
}

func writeFloat32(w io.Writer, v float32) error {
	return writeUint32(w, math.Float32bits(v))
}

// guardCount rejects a declared element count that could not possibly fit
// in the bytes remaining in the input, so a corrupt or truncated file with
// an implausible length prefix yields a clean error instead of an attempt
// to allocate gigabytes up front.
func guardCount(remaining int64, count uint64, minElemSize int, what string) error {
	need := count * uint64(minElemSize)
	if remaining < 0 || need > uint64(remaining) {
		return fmt.Errorf("ctfile: declared %s count %d needs at least %d bytes, only %d remain: %w", what, count, need, remaining, ErrDeclaredCount)
	}
	return nil
}

// readBodyString reads a 4-byte little-endian code-unit count followed by
// that many UTF-16LE code units, with no NUL terminator. An L=0 prefix is
// the legal empty string. r must be a *bytes.Reader so the declared count
// can be sanity-checked against the bytes actually remaining before the
// payload buffer is allocated.
func readBodyString(r *bytes.Reader) (string, error) {
	units, err := readUint32(r)
	if err != nil {
		return "", fmt.Errorf("ctfile: string length: %w", err)
	}
	if units == 0 {
		return "", nil
	}
	if err := guardCount(int64(r.Len()), uint64(units), 2, "string code-unit"); err != nil {
		return "", err
	}
	buf := make([]byte, int(units)*2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("ctfile: string payload: %w", err)
	}
	return decodeUTF16LE(buf), nil
}

// writeBodyString writes s as a body string: a 4-byte code-unit count then
// the UTF-16LE payload, re-encoding s without any normalization.
func writeBodyString(w io.Writer, s string) error {
	units := utf16.Encode([]rune(s))
	if uint64(len(units)) > 0xFFFFFFFF {
		return fmt.Errorf("ctfile: %d code units: %w", len(units), ErrStringTooLong)
	}
	if err := writeUint32(w, uint32(len(units))); err != nil {
		return err
	}
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		byteOrder.PutUint16(buf[i*2:], u)
	}
	if len(buf) == 0 {
		return nil
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("ctfile: string payload: %w", err)
	}
	return nil
}

// readHeaderString reads a UTF-16LE string terminated by a single 0x0000
// code unit, used only inside the 64-byte header. It returns the
// decoded string and the number of bytes consumed, including the terminator.
func readHeaderString(r io.Reader) (string, int, error) {
	var units []uint16
	consumed := 0
	for {
		u, err := readUint16(r)
		if err != nil {
			return "", consumed, fmt.Errorf("ctfile: header string: %w", err)
		}
		consumed += 2
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), consumed, nil
}

// writeHeaderString writes s as UTF-16LE followed by a single 0x0000
// terminator code unit, returning the total bytes written.
func writeHeaderString(w io.Writer, s string) (int, error) {
	units := utf16.Encode([]rune(s))
	buf := make([]byte, len(units)*2+2)
	for i, u := range units {
		byteOrder.PutUint16(buf[i*2:], u)
	}
	// trailing 0x0000 terminator is already zero in the allocated buffer
	if _, err := w.Write(buf); err != nil {
		return 0, fmt.Errorf("ctfile: write header string: %w", err)
	}
	return len(buf), nil
}

func decodeUTF16LE(b []byte) string {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = byteOrder.Uint16(b[i*2:])
	}
	return string(utf16.Decode(units))
}
