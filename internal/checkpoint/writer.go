package checkpoint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/born-ml/capsnet/internal/tensor"
	"github.com/pkg/errors"
)

// WriteSafeTensors writes tensors to w in SafeTensors format.
//
// Tensors are written in alphabetical order by name. metadata is stored under
// "__metadata__" together with the SHA-256 of the data section.
func WriteSafeTensors(w io.Writer, tensors map[string]*tensor.Tensor, dtype DType, metadata map[string]string) error {
	if dtype.Size() == 0 {
		return errors.Wrapf(ErrUnsupportedDType, "%q", dtype)
	}
	names := slices.Sorted(maps.Keys(tensors))

	header := make(map[string]any, len(names)+1)
	var data []byte
	for _, name := range names {
		if err := validateTensorName(name); err != nil {
			return err
		}
		t := tensors[name]
		start := int64(len(data))
		data = dtype.encode(data, t.Data())

		shape := make([]int64, t.Rank())
		for i, dim := range t.Shape() {
			shape[i] = int64(dim)
		}
		header[name] = tensorHeader{
			DType:       dtype,
			Shape:       shape,
			DataOffsets: [2]int64{start, int64(len(data))},
		}
	}

	meta := make(map[string]string, len(metadata)+1)
	maps.Copy(meta, metadata)
	sum := sha256.Sum256(data)
	meta[checksumKey] = hex.EncodeToString(sum[:])
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return errors.Wrap(err, "failed to write header size")
	}
	if _, err := w.Write(headerJSON); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write tensor data")
	}
	return nil
}

// WriteFile writes tensors to a SafeTensors file at path.
func WriteFile(path string, tensors map[string]*tensor.Tensor, dtype DType, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "failed to close file")
		}
	}()
	return WriteSafeTensors(file, tensors, dtype, metadata)
}
