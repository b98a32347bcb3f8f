package checkpoint

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// DType is a SafeTensors element type.
type DType string

// Supported element types.
const (
	F64 DType = "F64"
	F32 DType = "F32"
	F16 DType = "F16"
)

// Reserved header keys.
const (
	metadataKey = "__metadata__"
	checksumKey = "sha256"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxTensorCount   = 100_000           // Maximum number of tensors in a file
	MaxTensorNameLen = 4096              // Maximum tensor name length
)

// tensorHeader represents a tensor in the SafeTensors header.
type tensorHeader struct {
	DType       DType    `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// ParseDType parses "F64", "F32" or "F16".
func ParseDType(s string) (DType, error) {
	switch d := DType(s); d {
	case F64, F32, F16:
		return d, nil
	}
	return "", errors.Wrapf(ErrUnsupportedDType, "%q", s)
}

// Size returns the number of bytes per element.
func (d DType) Size() int {
	switch d {
	case F64:
		return 8
	case F32:
		return 4
	case F16:
		return 2
	}
	return 0
}

// encode appends values to buf in little-endian d.
func (d DType) encode(buf []byte, values []float64) []byte {
	for _, v := range values {
		switch d {
		case F64:
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		case F32:
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(v)))
		case F16:
			buf = binary.LittleEndian.AppendUint16(buf, float16.Fromfloat32(float32(v)).Bits())
		}
	}
	return buf
}

// decode widens little-endian d elements from src into dst.
func (d DType) decode(dst []float64, src []byte) {
	for i := range dst {
		switch d {
		case F64:
			dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[8*i:]))
		case F32:
			dst[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:])))
		case F16:
			dst[i] = float64(float16.Frombits(binary.LittleEndian.Uint16(src[2*i:])).Float32())
		}
	}
}
