package tablestore

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/cayleygo/algebra"
)

const (
	// recordMagic identifies marshaled records (ASCII: "CREC").
	recordMagic   = 0x43524543
	recordVersion = 1
)

// Record is the persisted form of a computed Cayley table.
//
// TableData holds the codec-encoded (and possibly compressed) table bytes;
// Checksum is the hex SHA-256 digest of exactly those bytes. The digest is
// re-verified whenever a record is loaded - retrieval from storage is never
// treated as proof of validity.
type Record struct {
	Signature         algebra.Signature `json:"signature"`
	Dimensions        int               `json:"dimensions"`
	BasisCount        int               `json:"basis_count"`
	TableData         []byte            `json:"-"`
	Checksum          string            `json:"checksum"`
	ComputedAt        time.Time         `json:"computed_at"`
	ComputationTimeMS float64           `json:"computation_time_ms"`
}

// Key returns the record's storage key, e.g. "cayley_4_1_0".
func (r *Record) Key() string {
	return r.Signature.Key()
}

// SizeBytes returns the stored table payload size.
func (r *Record) SizeBytes() int {
	return len(r.TableData)
}

// recordMeta is the JSON metadata section of a marshaled record.
type recordMeta struct {
	Record
	DataLen uint32 `json:"data_len"`
}

// MarshalRecord frames a record for storage backends that persist opaque
// bytes: a fixed header, a JSON metadata section, then the raw table data.
//
// Layout: [magic u32][version u32][metaLen u32][meta JSON][table data].
func MarshalRecord(rec *Record) ([]byte, error) {
	meta, err := json.Marshal(recordMeta{Record: *rec, DataLen: uint32(len(rec.TableData))})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(12 + len(meta) + len(rec.TableData))

	var header [12]byte
	binary.LittleEndian.PutUint32(header[0:4], recordMagic)
	binary.LittleEndian.PutUint32(header[4:8], recordVersion)
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(meta)))
	buf.Write(header[:])
	buf.Write(meta)
	buf.Write(rec.TableData)

	return buf.Bytes(), nil
}

// UnmarshalRecord parses bytes produced by MarshalRecord. Structural damage
// (bad magic, truncated sections) fails here; content damage inside the
// table data is caught later by checksum verification.
func UnmarshalRecord(data []byte) (*Record, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("record too short: %d bytes", len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != recordMagic {
		return nil, fmt.Errorf("invalid record magic 0x%08x", magic)
	}
	if version := binary.LittleEndian.Uint32(data[4:8]); version != recordVersion {
		return nil, fmt.Errorf("unsupported record version %d", version)
	}

	metaLen := binary.LittleEndian.Uint32(data[8:12])
	if uint32(len(data)-12) < metaLen {
		return nil, fmt.Errorf("record metadata truncated")
	}

	var meta recordMeta
	if err := json.Unmarshal(data[12:12+metaLen], &meta); err != nil {
		return nil, fmt.Errorf("record metadata: %w", err)
	}

	tableData := data[12+metaLen:]
	if uint32(len(tableData)) != meta.DataLen {
		return nil, fmt.Errorf("record data truncated: have %d bytes, want %d", len(tableData), meta.DataLen)
	}

	rec := meta.Record
	rec.TableData = make([]byte, len(tableData))
	copy(rec.TableData, tableData)
	return &rec, nil
}
