package checkpoint

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"

	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
)

// File is the decoded content of a SafeTensors file.
type File struct {
	Tensors  map[string]*tensor.Tensor
	Metadata map[string]string
	DTypes   map[string]DType // element type each tensor was stored with
}

// ReadSafeTensors decodes a SafeTensors stream. Every tensor region is
// validated before it is read, and the data checksum is verified when the
// writer recorded one.
func ReadSafeTensors(r io.Reader) (*File, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, errors.Wrapf(ErrInvalidCheckpoint, "failed to read header size: %v", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}
	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, errors.Wrapf(ErrInvalidCheckpoint, "failed to read header: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read tensor data")
	}

	entries := make(map[string]json.RawMessage)
	if err := json.Unmarshal(headerJSON, &entries); err != nil {
		return nil, errors.Wrapf(ErrInvalidCheckpoint, "failed to parse header: %v", err)
	}

	f := &File{
		Tensors:  make(map[string]*tensor.Tensor, len(entries)),
		Metadata: make(map[string]string),
		DTypes:   make(map[string]DType, len(entries)),
	}
	if raw, ok := entries[metadataKey]; ok {
		if err := json.Unmarshal(raw, &f.Metadata); err != nil {
			return nil, errors.Wrapf(ErrInvalidCheckpoint, "failed to parse metadata: %v", err)
		}
		delete(entries, metadataKey)
	}
	if err := verifyChecksum(f.Metadata, data); err != nil {
		return nil, err
	}

	headers := make(map[string]tensorHeader, len(entries))
	spans := make([]span, 0, len(entries))
	for name, raw := range entries {
		if err := validateTensorName(name); err != nil {
			return nil, err
		}
		var h tensorHeader
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, errors.Wrapf(ErrInvalidCheckpoint, "tensor %q: %v", name, err)
		}
		headers[name] = h
		spans = append(spans, span{name: name, start: h.DataOffsets[0], end: h.DataOffsets[1]})
	}
	if err := validateOffsets(spans, int64(len(data))); err != nil {
		return nil, err
	}

	for name, h := range headers {
		t, err := decodeTensor(name, h, data)
		if err != nil {
			return nil, err
		}
		f.Tensors[name] = t
		f.DTypes[name] = h.DType
	}
	return f, nil
}

// ReadFile reads a SafeTensors file from path.
func ReadFile(path string) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open checkpoint")
	}
	f, err := ReadSafeTensors(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.WithMessagef(err, "checkpoint %s", path)
	}
	return f, nil
}

func decodeTensor(name string, h tensorHeader, data []byte) (*tensor.Tensor, error) {
	if h.DType.Size() == 0 {
		return nil, errors.Wrapf(ErrUnsupportedDType, "tensor %q has dtype %q", name, h.DType)
	}
	shape := make(tensor.Shape, len(h.Shape))
	for i, dim := range h.Shape {
		if dim < 0 {
			return nil, errors.Wrapf(ErrInvalidCheckpoint, "tensor %q has negative dimension %d", name, dim)
		}
		shape[i] = int(dim)
	}
	size := int64(shape.NumElements() * h.DType.Size())
	if h.DataOffsets[1]-h.DataOffsets[0] != size {
		return nil, errors.Wrapf(ErrInvalidCheckpoint, "tensor %q: %d bytes stored for shape %v of %s",
			name, h.DataOffsets[1]-h.DataOffsets[0], shape, h.DType)
	}
	t := tensor.Zeros(shape)
	h.DType.decode(t.Data(), data[h.DataOffsets[0]:h.DataOffsets[1]])
	return t, nil
}

func verifyChecksum(metadata map[string]string, data []byte) error {
	stored, ok := metadata[checksumKey]
	if !ok {
		return nil
	}
	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != stored {
		return ErrChecksumMismatch
	}
	return nil
}
