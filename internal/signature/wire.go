package signature

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Node tags.
const (
	tagPlain byte = 0x00
	tagUnion byte = 0x01
	tagLUB   byte = 0x02
)

// absent is the count written for a missing list.
const absent = -1

// maxDepth bounds descriptor nesting so corrupt input cannot exhaust the stack.
const maxDepth = 512

func writeByte(w io.Writer, b byte) {
	if _, err := w.Write([]byte{b}); err != nil {
		panic(ioError{err})
	}
}

func writeBool(w io.Writer, b bool) {
	if b {
		writeByte(w, 1)
	} else {
		writeByte(w, 0)
	}
}

func writeInt(w io.Writer, n int) {
	if int(int32(n)) != n {
		panic(corruptf("int %d out of range", n))
	}
	var bs [4]byte
	binary.LittleEndian.PutUint32(bs[:], uint32(int32(n)))
	if _, err := w.Write(bs[:]); err != nil {
		panic(ioError{err})
	}
}

func writeString(w io.Writer, s string) {
	writeInt(w, len(s))
	if _, err := io.WriteString(w, s); err != nil {
		panic(ioError{err})
	}
}

// writeCount writes the length of a list, or absent for a nil list.
func writeCount(w io.Writer, present bool, n int) {
	if !present {
		writeInt(w, absent)
		return
	}
	writeInt(w, n)
}

func readByte(r *bytes.Reader) byte {
	b, err := r.ReadByte()
	if err != nil {
		panic(ioError{io.ErrUnexpectedEOF})
	}
	return b
}

func readBool(r *bytes.Reader) bool {
	switch b := readByte(r); b {
	case 0:
		return false
	case 1:
		return true
	default:
		panic(corruptf("bad boolean byte 0x%02x", b))
	}
}

func readInt(r *bytes.Reader) int {
	var bs [4]byte
	if _, err := io.ReadFull(r, bs[:]); err != nil {
		panic(ioError{io.ErrUnexpectedEOF})
	}
	return int(int32(binary.LittleEndian.Uint32(bs[:])))
}

func readString(r *bytes.Reader) string {
	n := readInt(r)
	if n < 0 || n > r.Len() {
		panic(corruptf("bad string length %d", n))
	}
	bs := make([]byte, n)
	if _, err := io.ReadFull(r, bs); err != nil {
		panic(ioError{io.ErrUnexpectedEOF})
	}
	return string(bs)
}

// readCount reads a list length. present is false for the absent marker.
// Every element takes at least one byte, which bounds allocation.
func readCount(r *bytes.Reader) (n int, present bool) {
	n = readInt(r)
	if n == absent {
		return 0, false
	}
	if n < 0 || n > r.Len() {
		panic(corruptf("bad count %d", n))
	}
	return n, true
}
