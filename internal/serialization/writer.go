package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/born-ml/grad/internal/autodiff"
)

// Save writes the data of params, in order, as a checkpoint to w.
//
// FormatVersion, ParamCount and (if zero) CreatedAt are filled in from the
// arguments; the rest of header is written as given.
func Save(w io.Writer, params autodiff.ValueArray, header Header) error {
	return SaveValues(w, params.Data(), header)
}

// SaveValues writes raw values as a checkpoint to w.
func SaveValues(w io.Writer, values []float64, header Header) error {
	header.FormatVersion = FormatVersion
	header.ParamCount = len(values)
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}

	headerJSON, err := json.Marshal(&header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	data := make([]byte, len(values)*ValueSize)
	for i, v := range values {
		binary.LittleEndian.PutUint64(data[i*ValueSize:], math.Float64bits(v))
	}

	// Fixed header:
	// 0x00-0x03: magic
	// 0x04-0x07: version
	// 0x08-0x0B: flags
	// 0x0C-0x0F: reserved
	// 0x10-0x17: header size
	// 0x18-0x1F: data size
	// 0x20-0x3F: checksum
	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], header.flags())
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	sum := ComputeChecksum(headerJSON, data)
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], sum[:])

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := bw.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := bw.Write(make([]byte, padding(int64(len(headerJSON))))); err != nil {
		return fmt.Errorf("failed to write padding: %w", err)
	}
	if _, err := bw.Write(data); err != nil {
		return fmt.Errorf("failed to write values: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush checkpoint: %w", err)
	}
	return nil
}

// SaveFile writes a checkpoint of params to path, replacing any existing file.
func SaveFile(path string, params autodiff.ValueArray, header Header) error {
	//nolint:gosec // G304: checkpoint path is supplied by the caller
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Save(f, params, header); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}
