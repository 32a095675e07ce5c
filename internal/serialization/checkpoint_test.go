package serialization

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/grad/internal/autodiff"
)

func saveToBuffer(t *testing.T, values []float64, header Header) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, SaveValues(&buf, values, header))
	return buf.Bytes()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := autodiff.NewScope()
	params := s.FromRaw([]float64{0.5, -1.25, math.Pi, 0, math.SmallestNonzeroFloat64})

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := Save(&buf, params, Header{
		CreatedAt: created,
		ModelType: "MLP",
		Metadata:  map[string]string{"layers": "3-4-4-1"},
		Checkpoint: &CheckpointMeta{
			Epoch:     2,
			Step:      6,
			Loss:      0.125,
			Optimizer: "SGD",
			LR:        0.05,
		},
	})
	require.NoError(t, err)

	ckpt, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, ckpt.Header.FormatVersion)
	assert.Equal(t, "MLP", ckpt.Header.ModelType)
	assert.Equal(t, 5, ckpt.Header.ParamCount)
	assert.True(t, created.Equal(ckpt.Header.CreatedAt))
	assert.Equal(t, "3-4-4-1", ckpt.Header.Metadata["layers"])
	require.NotNil(t, ckpt.Header.Checkpoint)
	assert.Equal(t, int64(6), ckpt.Header.Checkpoint.Step)
	assert.Equal(t, FlagHasCheckpoint|FlagHasMetadata, ckpt.Flags)

	// Values are stored bit-exactly.
	require.Len(t, ckpt.Values, 5)
	for i, v := range params.Data() {
		assert.Equal(t, math.Float64bits(v), math.Float64bits(ckpt.Values[i]))
	}
}

func TestDataSectionAligned(t *testing.T) {
	raw := saveToBuffer(t, []float64{1, 2, 3}, Header{ModelType: "x"})

	headerSize := binary.LittleEndian.Uint64(raw[16:24])
	dataSize := binary.LittleEndian.Uint64(raw[24:32])
	assert.Equal(t, uint64(24), dataSize)

	dataOffset := int64(FixedHeaderSize) + int64(headerSize) + padding(int64(headerSize))
	assert.Zero(t, dataOffset%HeaderAlignment)
	assert.Equal(t, int(dataOffset)+int(dataSize), len(raw))
	assert.Equal(t, 2.0, math.Float64frombits(binary.LittleEndian.Uint64(raw[dataOffset+8:])))
}

func TestApplyRestoresParameters(t *testing.T) {
	src := autodiff.NewScope()
	trained := src.FromRaw([]float64{0.1, 0.2, 0.3})

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, trained, Header{}))
	ckpt, err := Load(&buf)
	require.NoError(t, err)

	dst := autodiff.NewScope()
	fresh := dst.FromRaw([]float64{9, 9, 9})
	require.NoError(t, ckpt.Apply(fresh))
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, fresh.Data())

	short := dst.FromRaw([]float64{1, 2})
	assert.ErrorIs(t, ckpt.Apply(short), ErrParamCountMismatch)
	assert.Equal(t, []float64{1, 2}, short.Data())
}

func TestLoadErrors(t *testing.T) {
	good := saveToBuffer(t, []float64{1, 2, 3, 4}, Header{ModelType: "MLP"})

	corrupt := func(f func(b []byte) []byte) []byte {
		b := append([]byte(nil), good...)
		return f(b)
	}

	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{
			name: "bad magic",
			raw:  corrupt(func(b []byte) []byte { copy(b, "BORN"); return b }),
			want: ErrInvalidMagic,
		},
		{
			name: "unsupported version",
			raw: corrupt(func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[4:8], 7)
				return b
			}),
			want: ErrUnsupportedVersion,
		},
		{
			name: "flipped data bit",
			raw:  corrupt(func(b []byte) []byte { b[len(b)-1] ^= 0x01; return b }),
			want: ErrChecksumMismatch,
		},
		{
			name: "flipped header byte",
			raw:  corrupt(func(b []byte) []byte { b[FixedHeaderSize+2] ^= 0x20; return b }),
			want: ErrChecksumMismatch,
		},
		{
			name: "header too large",
			raw: corrupt(func(b []byte) []byte {
				binary.LittleEndian.PutUint64(b[16:24], MaxHeaderSize+1)
				return b
			}),
			want: ErrHeaderTooLarge,
		},
		{
			name: "truncated values",
			raw:  corrupt(func(b []byte) []byte { return b[:len(b)-3] }),
			want: ErrTruncated,
		},
		{
			name: "truncated fixed header",
			raw:  corrupt(func(b []byte) []byte { return b[:10] }),
			want: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(bytes.NewReader(tt.raw))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadRejectsMisalignedDataSize(t *testing.T) {
	raw := saveToBuffer(t, []float64{1}, Header{})
	binary.LittleEndian.PutUint64(raw[24:32], 5)

	_, err := Load(bytes.NewReader(raw))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "data_size", verr.Type)
}

func TestValidateHeader(t *testing.T) {
	h := &Header{FormatVersion: FormatVersion, ParamCount: 3}
	require.NoError(t, ValidateHeader(h, 24))

	var verr *ValidationError
	require.ErrorAs(t, ValidateHeader(h, 16), &verr)
	assert.Equal(t, "data_size", verr.Type)

	h.ParamCount = -1
	require.ErrorAs(t, ValidateHeader(h, 0), &verr)
	assert.Equal(t, "param_count", verr.Type)

	assert.ErrorIs(t, ValidateHeader(&Header{FormatVersion: 9}, 0), ErrUnsupportedVersion)
}

func TestSaveFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.bgrd")
	s := autodiff.NewScope()
	params := s.FromRaw([]float64{3, 1, 4, 1, 5})

	require.NoError(t, SaveFile(path, params, Header{ModelType: "SmallCNN"}))

	ckpt, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SmallCNN", ckpt.Header.ModelType)
	assert.Equal(t, []float64{3, 1, 4, 1, 5}, ckpt.Values)
	assert.Zero(t, ckpt.Flags)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.bgrd"))
	assert.Error(t, err)
}

func TestEmptyCheckpoint(t *testing.T) {
	raw := saveToBuffer(t, nil, Header{})
	ckpt, err := Load(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Empty(t, ckpt.Values)
	assert.Equal(t, 0, ckpt.Header.ParamCount)
}
