package tablecodec

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/table"
)

const (
	// MagicNumber identifies encoded Cayley tables (ASCII: "CAY1").
	MagicNumber = 0x43415931
	// Version is the current encoding version.
	Version = 0x00010000

	// EntrySize is the wire size of one table cell: blade uint16 + sign int8.
	EntrySize = 3
)

// Header is the fixed-width header at the start of every encoded table.
type Header struct {
	Magic       uint32
	Version     uint32
	Compression uint8
	Padding1    [3]byte
	P           uint16
	Q           uint16
	R           uint16
	Padding2    uint16
	BasisCount  uint32
	PayloadLen  uint32
	Reserved    [4]byte
}

const headerSize = 32

// ErrCorruptData indicates that stored table bytes fail structural
// validation or checksum verification. It is never recoverable by retrying
// the read; the caller must recompute.
type ErrCorruptData struct {
	Reason   string
	Expected string // expected digest, if this is a checksum failure
	Actual   string // actual digest, if this is a checksum failure
}

func (e *ErrCorruptData) Error() string {
	if e.Expected != "" || e.Actual != "" {
		return fmt.Sprintf("corrupt table data: %s (expected %s, got %s)", e.Reason, e.Expected, e.Actual)
	}
	return fmt.Sprintf("corrupt table data: %s", e.Reason)
}

// Encode serializes a table: a fixed header followed by the row-major entry
// payload, compressed with the given algorithm.
func Encode(t *table.CayleyTable, c Compression) ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("unsupported compression type: %d", c)
	}

	raw := make([]byte, len(t.Entries)*EntrySize)
	for i, e := range t.Entries {
		binary.LittleEndian.PutUint16(raw[i*EntrySize:], uint16(e.Blade))
		raw[i*EntrySize+2] = byte(e.Sign)
	}

	payload, err := compressBlock(raw, c)
	if err != nil {
		return nil, err
	}

	header := Header{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: uint8(c),
		P:           uint16(t.Signature.P),
		Q:           uint16(t.Signature.Q),
		R:           uint16(t.Signature.R),
		BasisCount:  uint32(t.BasisCount),
		PayloadLen:  uint32(len(payload)),
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(payload))
	if err := binary.Write(&buf, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	buf.Write(payload)

	return buf.Bytes(), nil
}

// Decode reconstructs a table from encoded bytes. Build metadata
// (ComputedAt, ComputationTime) is not part of the encoding and is left
// zero; it lives on the surrounding storage record.
func Decode(data []byte) (*table.CayleyTable, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	payload := data[headerSize:]
	raw, err := decompressBlock(payload, Compression(header.Compression))
	if err != nil {
		return nil, err
	}

	sig := algebra.NewSignature(int(header.P), int(header.Q), int(header.R))
	basis := int(header.BasisCount)
	if basis != sig.BasisCount() {
		return nil, &ErrCorruptData{Reason: "basis count does not match signature"}
	}

	want := basis * basis * EntrySize
	if len(raw) != want {
		return nil, &ErrCorruptData{
			Reason: fmt.Sprintf("payload holds %d bytes, want %d", len(raw), want),
		}
	}

	entries := make([]table.Entry, basis*basis)
	for i := range entries {
		entries[i] = table.Entry{
			Blade: algebra.Blade(binary.LittleEndian.Uint16(raw[i*EntrySize:])),
			Sign:  int8(raw[i*EntrySize+2]),
		}
	}

	return &table.CayleyTable{
		Signature:  sig,
		Dimension:  sig.Dimension(),
		BasisCount: basis,
		Entries:    entries,
	}, nil
}

// ParseHeader validates and returns the header of encoded table bytes
// without decoding the payload.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < headerSize {
		return nil, &ErrCorruptData{Reason: "data shorter than header"}
	}

	var header Header
	if err := binary.Read(bytes.NewReader(data[:headerSize]), binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header.Magic != MagicNumber {
		return nil, &ErrCorruptData{Reason: fmt.Sprintf("invalid magic number 0x%08x", header.Magic)}
	}
	if header.Version != Version {
		return nil, &ErrCorruptData{Reason: fmt.Sprintf("unsupported version 0x%08x", header.Version)}
	}
	if len(data) != headerSize+int(header.PayloadLen) {
		return nil, &ErrCorruptData{
			Reason: fmt.Sprintf("declared payload %d bytes, have %d", header.PayloadLen, len(data)-headerSize),
		}
	}
	return &header, nil
}

// Checksum returns the SHA-256 digest of encoded table bytes, hex encoded.
//
// SHA-256 rather than a CRC: records may round-trip through remote object
// stores, and the digest doubles as a content address for the table.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum recomputes the digest of data and compares it against the
// stored digest. A mismatch is corruption, never silently accepted.
func VerifyChecksum(data []byte, expected string) error {
	actual := Checksum(data)
	if actual != expected {
		return &ErrCorruptData{
			Reason:   "checksum mismatch",
			Expected: expected,
			Actual:   actual,
		}
	}
	return nil
}
