package tablecodec

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the payload compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, light ratio).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd block compression (better ratio).
	CompressionZstd Compression = 2
)

// String returns the stable name of the compression algorithm.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

func (c Compression) valid() bool {
	return c <= CompressionZstd
}

// zstd encoder/decoder pools; the encoders are expensive to construct.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Block framing: [UncompressedSize uint32][CompressedSize uint32][Data...].
// CompressedSize == 0 means the data is stored uncompressed, which happens
// when compression is disabled or does not shrink the payload.
const blockHeaderSize = 8

func compressBlock(raw []byte, c Compression) ([]byte, error) {
	stored := func() []byte {
		out := make([]byte, blockHeaderSize+len(raw))
		binary.LittleEndian.PutUint32(out[0:4], uint32(len(raw)))
		binary.LittleEndian.PutUint32(out[4:8], 0)
		copy(out[blockHeaderSize:], raw)
		return out
	}

	if c == CompressionNone || len(raw) == 0 {
		return stored(), nil
	}

	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 {
			// Incompressible input.
			return stored(), nil
		}
		compressed = buf[:n]
	case CompressionZstd:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("unsupported compression type: %d", c)
	}

	if len(compressed) >= len(raw) {
		return stored(), nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(raw)))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

func decompressBlock(block []byte, c Compression) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, &ErrCorruptData{Reason: "truncated compression block"}
	}

	rawSize := binary.LittleEndian.Uint32(block[0:4])
	compSize := binary.LittleEndian.Uint32(block[4:8])
	data := block[blockHeaderSize:]

	if compSize == 0 {
		if uint32(len(data)) != rawSize {
			return nil, &ErrCorruptData{Reason: "stored block size mismatch"}
		}
		out := make([]byte, rawSize)
		copy(out, data)
		return out, nil
	}

	if uint32(len(data)) != compSize {
		return nil, &ErrCorruptData{Reason: "compressed block size mismatch"}
	}

	switch c {
	case CompressionLZ4:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil || uint32(n) != rawSize {
			return nil, &ErrCorruptData{Reason: "lz4 block does not decompress"}
		}
		return out, nil
	case CompressionZstd:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(data, make([]byte, 0, rawSize))
		zstdDecoderPool.Put(dec)
		if err != nil || uint32(len(out)) != rawSize {
			return nil, &ErrCorruptData{Reason: "zstd block does not decompress"}
		}
		return out, nil
	default:
		return nil, &ErrCorruptData{Reason: fmt.Sprintf("unknown compression type %d", c)}
	}
}
