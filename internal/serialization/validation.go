package serialization

import "fmt"

// Validation limits for resource protection.
const (
	MaxHeaderSize   = 10 * 1024 * 1024 // 10MB - maximum JSON header size
	MaxParamCount   = 1 << 28          // Maximum number of stored values
	MaxMetadataSize = 1024 * 1024      // 1MB - maximum total metadata size
)

// ValidateHeader checks a decoded header against the data section it
// describes.
func ValidateHeader(h *Header, dataSize uint64) error {
	if h.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: header says %d", ErrUnsupportedVersion, h.FormatVersion)
	}
	if h.ParamCount < 0 || h.ParamCount > MaxParamCount {
		return &ValidationError{
			Type:    "param_count",
			Field:   "param_count",
			Details: fmt.Sprintf("got %d, max %d", h.ParamCount, MaxParamCount),
		}
	}
	if want := uint64(h.ParamCount) * ValueSize; want != dataSize {
		return &ValidationError{
			Type:    "data_size",
			Details: fmt.Sprintf("%d values need %d bytes, fixed header says %d", h.ParamCount, want, dataSize),
		}
	}

	var metaSize int
	for k, v := range h.Metadata {
		metaSize += len(k) + len(v)
	}
	if metaSize > MaxMetadataSize {
		return &ValidationError{
			Type:    "metadata_size",
			Field:   "metadata",
			Details: fmt.Sprintf("%d bytes, max %d", metaSize, MaxMetadataSize),
		}
	}
	return nil
}
