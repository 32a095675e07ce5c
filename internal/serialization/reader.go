package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/grad/internal/autodiff"
)

// Checkpoint is a decoded checkpoint file.
type Checkpoint struct {
	Header Header
	Flags  uint32
	Values []float64
}

// Load reads and verifies a checkpoint from r.
//
//nolint:gocyclo,cyclop // Sequential binary format parsing
func Load(r io.Reader) (*Checkpoint, error) {
	br := bufio.NewReader(r)

	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(br, fixed); err != nil {
		return nil, fmt.Errorf("failed to read fixed header: %w", truncated(err))
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, fmt.Errorf("%w: got %q, expected %q", ErrInvalidMagic, fixed[0:4], MagicBytes)
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	flags := binary.LittleEndian.Uint32(fixed[8:12])
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	var stored [32]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}
	if dataSize > MaxParamCount*ValueSize || dataSize%ValueSize != 0 {
		return nil, &ValidationError{
			Type:    "data_size",
			Details: fmt.Sprintf("%d bytes is not a valid value section", dataSize),
		}
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(br, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header JSON: %w", truncated(err))
	}
	if _, err := br.Discard(int(padding(int64(headerSize)))); err != nil {
		return nil, fmt.Errorf("failed to skip padding: %w", truncated(err))
	}
	data := make([]byte, dataSize)
	if _, err := io.ReadFull(br, data); err != nil {
		return nil, fmt.Errorf("failed to read values: %w", truncated(err))
	}

	if err := ValidateChecksum(ComputeChecksum(headerJSON, data), stored); err != nil {
		return nil, err
	}

	ckpt := &Checkpoint{Flags: flags}
	if err := json.Unmarshal(headerJSON, &ckpt.Header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	if err := ValidateHeader(&ckpt.Header, dataSize); err != nil {
		return nil, err
	}

	ckpt.Values = make([]float64, ckpt.Header.ParamCount)
	for i := range ckpt.Values {
		ckpt.Values[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*ValueSize:]))
	}
	return ckpt, nil
}

// LoadFile reads and verifies the checkpoint stored at path.
func LoadFile(path string) (*Checkpoint, error) {
	//nolint:gosec // G304: checkpoint path is supplied by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Apply overwrites the data of params with the stored values, in order.
// params must be the same length as the stored values, and every element must
// be a source leaf.
func (c *Checkpoint) Apply(params autodiff.ValueArray) error {
	if len(params) != len(c.Values) {
		return fmt.Errorf("%w: model has %d parameters, checkpoint has %d",
			ErrParamCountMismatch, len(params), len(c.Values))
	}
	params.SetData(c.Values)
	return nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
