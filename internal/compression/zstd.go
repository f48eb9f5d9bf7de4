// Package compression wraps zstd for registry files stored as ".zst".
package compression

import (
	"bytes"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Ext is the file suffix that selects zstd output.
const Ext = ".zst"

// magic is the zstd frame header.
var magic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type Compressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewCompressor(level int) (*Compressor, error) {
	var encoderLevel zstd.EncoderLevel
	switch level {
	case 1:
		encoderLevel = zstd.SpeedFastest
	case 3:
		encoderLevel = zstd.SpeedBetterCompression
	case 4:
		encoderLevel = zstd.SpeedBestCompression
	default:
		encoderLevel = zstd.SpeedDefault
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(encoderLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}

	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		encoder.Close()
		return nil, err
	}

	return &Compressor{
		encoder: encoder,
		decoder: decoder,
	}, nil
}

func (c *Compressor) Compress(data []byte) []byte {
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
}

// Decompress returns data unchanged unless it starts with a zstd frame.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}
	return c.decoder.DecodeAll(data, nil)
}

func (c *Compressor) Close() error {
	c.encoder.Close()
	c.decoder.Close()
	return nil
}

// IsCompressed reports whether data starts with the zstd magic number.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// WantsCompression reports whether a file name selects zstd output.
func WantsCompression(name string) bool {
	return strings.HasSuffix(name, Ext)
}
