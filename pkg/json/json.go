// Package json wraps goccy/go-json with pooled buffers and a streaming array
// encoder used for quote payloads and row documents
package json

import (
	"bytes"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"
)

// Number is a JSON number literal kept as text
type Number = gojson.Number

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// NewDecoder returns a decoder that keeps numbers as Number literals so that
// integer precision survives until a column type is chosen
func NewDecoder(r io.Reader) *gojson.Decoder {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	return dec
}

// NewEncoder returns an encoder that does not escape HTML
func NewEncoder(w io.Writer) *gojson.Encoder {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// GetBuffer gets a pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1024*1024 { // Don't pool very large buffers
		return
	}
	bufferPool.Put(buf)
}

// Marshal is a drop-in replacement for json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent is a drop-in replacement for json.MarshalIndent
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// DecodeReader decodes a single JSON document from r into v
func DecodeReader(r io.Reader, v interface{}) error {
	return NewDecoder(r).Decode(v)
}

// StreamingEncoder writes a JSON array one element at a time
type StreamingEncoder struct {
	writer      io.Writer
	buf         *bytes.Buffer
	encoder     *gojson.Encoder
	firstRecord bool
	err         error
}

// NewStreamingEncoder writes the opening bracket and returns the encoder
func NewStreamingEncoder(w io.Writer) (*StreamingEncoder, error) {
	if _, err := w.Write([]byte{'['}); err != nil {
		return nil, err
	}
	buf := GetBuffer()
	return &StreamingEncoder{
		writer:      w,
		buf:         buf,
		encoder:     NewEncoder(buf),
		firstRecord: true,
	}, nil
}

// Encode appends one array element
func (se *StreamingEncoder) Encode(v interface{}) error {
	if se.err != nil {
		return se.err
	}
	se.buf.Reset()
	if !se.firstRecord {
		se.buf.WriteByte(',')
	}
	if err := se.encoder.Encode(v); err != nil {
		se.err = err
		return err
	}
	// Encode terminates every value with a newline
	if n := se.buf.Len(); n > 0 && se.buf.Bytes()[n-1] == '\n' {
		se.buf.Truncate(n - 1)
	}
	if _, err := se.writer.Write(se.buf.Bytes()); err != nil {
		se.err = err
		return err
	}
	se.firstRecord = false
	return nil
}

// Close writes the closing bracket and releases the scratch buffer
func (se *StreamingEncoder) Close() error {
	if se.buf != nil {
		PutBuffer(se.buf)
		se.buf = nil
	}
	if se.err != nil {
		return se.err
	}
	_, err := se.writer.Write([]byte{']'})
	return err
}
