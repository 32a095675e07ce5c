package serialization

import "time"

// Format constants.
const (
	MagicBytes      = "BGRD"
	FormatVersion   = 1
	HeaderAlignment = 64   // Data section starts on a 64-byte boundary
	FixedHeaderSize = 64   // Fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
	ValueSize       = 8    // Bytes per stored float64
)

// Flags stored in the fixed header.
const (
	FlagHasCheckpoint uint32 = 1 << 0 // bit 0: training state included
	FlagHasMetadata   uint32 = 1 << 1 // bit 1: custom metadata included
)

// Header is the JSON header of a checkpoint file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	CreatedAt     time.Time         `json:"created_at"`
	ModelType     string            `json:"model_type"`  // e.g. "MLP", "SmallCNN"
	ParamCount    int               `json:"param_count"` // Number of stored leaf values
	Metadata      map[string]string `json:"metadata,omitempty"`
	Checkpoint    *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// CheckpointMeta records where training stood when the values were saved.
type CheckpointMeta struct {
	Epoch     int     `json:"epoch"`
	Step      int64   `json:"step"`
	Loss      float64 `json:"loss"`
	Optimizer string  `json:"optimizer,omitempty"` // "SGD", "Adam", ...
	LR        float64 `json:"lr,omitempty"`
}

// flags derives the fixed-header flag bits from a header.
func (h *Header) flags() uint32 {
	var f uint32
	if h.Checkpoint != nil {
		f |= FlagHasCheckpoint
	}
	if len(h.Metadata) > 0 {
		f |= FlagHasMetadata
	}
	return f
}

// padding returns the number of zero bytes between the JSON header and the data.
func padding(headerSize int64) int64 {
	pos := int64(FixedHeaderSize) + headerSize
	return (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
}
