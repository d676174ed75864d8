// Package compression implements the batch codecs handed to the consumer.
// Fetched record batches carry a codec id; the consumer looks up the matching
// decompressor in a map keyed by that id. Compressors are provided for the
// codecs too so batches can be round-tripped in tests.
package compression

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/DataDog/zstd"
	"github.com/mkocikowski/libkafka/batch"
	"github.com/mkocikowski/libkafka/compression"
	"github.com/pierrec/lz4"
)

type None struct{}

func (c *None) Compress(src []byte) ([]byte, error)   { return src, nil }
func (c *None) Decompress(src []byte) ([]byte, error) { return src, nil }
func (c *None) Type() int16                           { return compression.None }

type Gzip struct {
	// Level is passed to gzip.NewWriterLevel. Zero value is gzip.NoCompression;
	// set gzip.DefaultCompression unless you mean that.
	Level int
}

func (c *Gzip) Compress(src []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w, err := gzip.NewWriterLevel(buf, c.Level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Gzip) Decompress(src []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (c *Gzip) Type() int16 { return compression.Gzip }

type Lz4 struct{}

func (c *Lz4) Compress(src []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := lz4.NewWriter(buf)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Lz4) Decompress(src []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
}

func (c *Lz4) Type() int16 { return compression.Lz4 }

type Zstd struct {
	Level int
}

func (c *Zstd) Compress(src []byte) ([]byte, error) {
	return zstd.CompressLevel(nil, src, c.Level)
}

func (c *Zstd) Decompress(src []byte) ([]byte, error) {
	return zstd.Decompress(nil, src)
}

func (c *Zstd) Type() int16 { return compression.Zstd }

// Decompressors returns the default decompressor map for the consumer: every
// codec this package implements, keyed by codec id.
func Decompressors() map[int16]batch.Decompressor {
	return map[int16]batch.Decompressor{
		compression.None: &None{},
		compression.Gzip: &Gzip{},
		compression.Lz4:  &Lz4{},
		compression.Zstd: &Zstd{},
	}
}
