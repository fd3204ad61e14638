package spec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

type Compression uint8

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionGzip
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	}
	return fmt.Sprintf("Compression(%d)", uint8(c))
}

func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none":
		return CompressionNone, nil
	case "gzip":
		return CompressionGzip, nil
	}
	return CompressionUnknown, fmt.Errorf("libworld: unknown compression %q", s)
}

type Codec uint8

const (
	CodecUnknown Codec = iota
	CodecJSON
	CodecMsgpack
)

func (c Codec) String() string {
	switch c {
	case CodecJSON:
		return "json"
	case CodecMsgpack:
		return "msgpack"
	}
	return fmt.Sprintf("Codec(%d)", uint8(c))
}

func ParseCodec(s string) (Codec, error) {
	switch s {
	case "json":
		return CodecJSON, nil
	case "msgpack":
		return CodecMsgpack, nil
	}
	return CodecUnknown, fmt.Errorf("libworld: unknown codec %q", s)
}

// Header precedes the encoded model in a container file.
type Header struct {
	Magic         uint32
	Version       uint8
	Codec         Codec
	Compression   Compression
	PayloadLength uint64
	PayloadCRC    uint32 // IEEE CRC-32 of the stored (compressed) payload
}

const (
	HeaderMagic   uint32 = 0x004D574C // "LWM\x00"
	HeaderVersion uint8  = 1

	HeaderLength = 19
)

var (
	ErrInvalidHeader  = errors.New("libworld: invalid file header")
	ErrInvalidVersion = errors.New("libworld: invalid version")
)

func SerializeHeader(header *Header) []byte {
	var buffer bytes.Buffer
	writer := bufio.NewWriter(&buffer)
	binary.Write(writer, binary.LittleEndian, header)
	writer.Flush()
	return buffer.Bytes()
}

func DeserializeHeader(buffer []byte) (*Header, error) {
	header := Header{}
	reader := bytes.NewReader(buffer)
	err := binary.Read(reader, binary.LittleEndian, &header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if header.Magic != HeaderMagic {
		return nil, ErrInvalidHeader
	}
	if header.Version != HeaderVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, header.Version)
	}
	return &header, nil
}

// HasMagic reports whether data starts with the container magic.
func HasMagic(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == HeaderMagic
}
