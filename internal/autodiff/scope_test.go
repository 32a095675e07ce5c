package autodiff_test

import (
	"testing"

	"github.com/born-ml/grad/internal/autodiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScope_ResetKeepsParent checks that a step scope can be dropped without
// touching the parameters it referenced.
func TestScope_ResetKeepsParent(t *testing.T) {
	params := autodiff.NewScope()
	w := params.Source(3)
	step := params.Child()

	for i := range 3 {
		x := step.Source(float64(i + 1))
		loss := step.Square(step.Mul(w, x))
		autodiff.Backward(loss)
		require.Greater(t, step.Len(), 0)

		w.SetData(w.Data() - 0.01*w.Grad())
		w.ZeroGrad()
		step.Reset()

		assert.Equal(t, 0, step.Len())
		assert.True(t, w.IsValid())
	}

	assert.Equal(t, 1, params.Len())
	assert.Same(t, params, step.Parent())
}

// TestScope_StaleHandlePanics checks that handles do not survive a reset.
func TestScope_StaleHandlePanics(t *testing.T) {
	s := autodiff.NewScope()
	v := s.Source(1)
	s.Reset()
	_ = s.Source(2) // reuses slot 0

	assert.False(t, v.IsValid())
	assert.Panics(t, func() { v.Data() })
}

// TestScope_LongLivedCannotReferenceTransient enforces the allocation discipline.
func TestScope_LongLivedCannotReferenceTransient(t *testing.T) {
	params := autodiff.NewScope()
	step := params.Child()
	w := params.Source(1)
	x := step.Source(2)

	assert.NotPanics(t, func() { step.Mul(w, x) })
	assert.Panics(t, func() { params.Mul(w, x) })

	sibling := params.Child()
	assert.Panics(t, func() { sibling.Add(x, w) })
}

// TestScope_ZeroValuePanics checks that an unset handle is rejected.
func TestScope_ZeroValuePanics(t *testing.T) {
	s := autodiff.NewScope()

	assert.Panics(t, func() { s.Add(autodiff.Value{}, s.Source(1)) })
	assert.Panics(t, func() { autodiff.Backward(autodiff.Value{}) })
}

func TestScope_Outlives(t *testing.T) {
	root := autodiff.NewScope()
	child := root.Child()
	grandchild := child.Child()

	assert.True(t, root.Outlives(grandchild))
	assert.True(t, child.Outlives(child))
	assert.False(t, grandchild.Outlives(root))
}

// TestArray3D_Indexing checks row-major layout.
func TestArray3D_Indexing(t *testing.T) {
	s := autodiff.NewScope()
	data := make([]float64, 2*3*4)
	for i := range data {
		data[i] = float64(i)
	}
	a := s.FromRaw3D(data, 2, 3, 4)

	assert.Equal(t, 0.0, a.At(0, 0, 0).Data())
	assert.Equal(t, 7.0, a.At(0, 1, 3).Data())
	assert.Equal(t, 12.0, a.At(1, 0, 0).Data())
	assert.Equal(t, 23.0, a.At(1, 2, 3).Data())
	assert.Len(t, a.Channel(1), 12)
	assert.Equal(t, 12.0, a.Channel(1)[0].Data())
	assert.Panics(t, func() { a.At(2, 0, 0) })
	assert.Panics(t, func() { s.FromRaw3D(data, 1, 1, 1) })
}

func TestValueArray_SetData(t *testing.T) {
	s := autodiff.NewScope()
	xs := s.FromRaw([]float64{1, 2})

	xs.SetData([]float64{5, 6})

	assert.Equal(t, []float64{5, 6}, xs.Data())
	assert.Panics(t, func() { xs.SetData([]float64{1}) })
}
