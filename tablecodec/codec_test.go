package tablecodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/table"
)

func buildTable(t *testing.T, p, q, r int) *table.CayleyTable {
	t.Helper()
	tbl, err := table.Build(algebra.NewSignature(p, q, r), 0)
	require.NoError(t, err)
	return tbl
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	signatures := [][3]int{
		{0, 0, 0}, {1, 0, 0}, {3, 0, 0}, {1, 1, 0}, {4, 1, 0}, {3, 0, 1}, {2, 2, 2},
	}
	compressions := []Compression{CompressionNone, CompressionLZ4, CompressionZstd}

	for _, sig := range signatures {
		for _, c := range compressions {
			tbl := buildTable(t, sig[0], sig[1], sig[2])

			data, err := Encode(tbl, c)
			require.NoError(t, err, "sig %v %s", sig, c)

			got, err := Decode(data)
			require.NoError(t, err, "sig %v %s", sig, c)
			assert.True(t, tbl.Equal(got), "sig %v %s", sig, c)
		}
	}
}

func TestEncode_Deterministic(t *testing.T) {
	tbl := buildTable(t, 3, 0, 0)

	a, err := Encode(tbl, CompressionZstd)
	require.NoError(t, err)
	b, err := Encode(tbl, CompressionZstd)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, Checksum(a), Checksum(b))
}

func TestEncode_CompressionShrinksLargeTables(t *testing.T) {
	tbl := buildTable(t, 5, 0, 0) // 32x32 entries

	plain, err := Encode(tbl, CompressionNone)
	require.NoError(t, err)
	zstd, err := Encode(tbl, CompressionZstd)
	require.NoError(t, err)

	assert.Less(t, len(zstd), len(plain))
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not a cayley table"))
	require.Error(t, err)
	var corrupt *ErrCorruptData
	require.ErrorAs(t, err, &corrupt)

	_, err = Decode(nil)
	require.ErrorAs(t, err, &corrupt)
}

func TestDecode_RejectsTruncatedPayload(t *testing.T) {
	tbl := buildTable(t, 3, 0, 0)
	data, err := Encode(tbl, CompressionNone)
	require.NoError(t, err)

	_, err = Decode(data[:len(data)-4])
	var corrupt *ErrCorruptData
	require.ErrorAs(t, err, &corrupt)
}

func TestDecode_RejectsWrongMagic(t *testing.T) {
	tbl := buildTable(t, 2, 0, 0)
	data, err := Encode(tbl, CompressionNone)
	require.NoError(t, err)

	data[0] ^= 0xff
	_, err = Decode(data)
	var corrupt *ErrCorruptData
	require.ErrorAs(t, err, &corrupt)
}

func TestVerifyChecksum(t *testing.T) {
	tbl := buildTable(t, 3, 0, 0)
	data, err := Encode(tbl, CompressionLZ4)
	require.NoError(t, err)

	sum := Checksum(data)
	require.Len(t, sum, 64) // sha256 hex
	require.NoError(t, VerifyChecksum(data, sum))

	// Flipping a single payload byte must fail verification.
	data[len(data)-1] ^= 0x01
	err = VerifyChecksum(data, sum)
	require.Error(t, err)
	var corrupt *ErrCorruptData
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, sum, corrupt.Expected)
	assert.NotEqual(t, corrupt.Expected, corrupt.Actual)
}

func TestParseHeader(t *testing.T) {
	tbl := buildTable(t, 4, 1, 0)
	data, err := Encode(tbl, CompressionZstd)
	require.NoError(t, err)

	header, err := ParseHeader(data)
	require.NoError(t, err)
	assert.Equal(t, uint16(4), header.P)
	assert.Equal(t, uint16(1), header.Q)
	assert.Equal(t, uint16(0), header.R)
	assert.Equal(t, uint32(32), header.BasisCount)
	assert.Equal(t, CompressionZstd, Compression(header.Compression))
}

func TestCompressionString(t *testing.T) {
	assert.Equal(t, "none", CompressionNone.String())
	assert.Equal(t, "lz4", CompressionLZ4.String())
	assert.Equal(t, "zstd", CompressionZstd.String())
}
