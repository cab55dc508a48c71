package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigmoid_Bounds(t *testing.T) {
	assert.InDelta(t, 0.5, Sigmoid(0), 1e-9)
	assert.Greater(t, Sigmoid(100), 0.99)
	assert.Less(t, Sigmoid(-100), 0.01)
}

func TestSigmoid_NoOverflowForLargeMagnitude(t *testing.T) {
	assert.NotPanics(t, func() {
		Sigmoid(1e10)
		Sigmoid(-1e10)
	})
}

func TestTrain_SeparableData(t *testing.T) {
	x := [][]float32{
		{0.0, 0.0}, {0.05, 0.1}, {0.1, 0.0}, {0.0, 0.05},
		{1.0, 1.0}, {0.95, 0.9}, {0.9, 1.0}, {1.0, 0.95},
	}
	y := []int{1, 1, 1, 1, 0, 0, 0, 0}

	model, err := Train(x, y)
	require.NoError(t, err)

	for i, row := range x {
		p := model.Score(row)
		if y[i] == 1 {
			assert.Greater(t, p, 0.5, "row %d should score as match", i)
		} else {
			assert.Less(t, p, 0.5, "row %d should score as distinct", i)
		}
	}
}

func TestTrain_RejectsSingleClass(t *testing.T) {
	x := [][]float32{{0, 0}, {1, 1}}
	y := []int{1, 1}
	_, err := Train(x, y)
	assert.Error(t, err)
}

func TestTrain_RejectsEmpty(t *testing.T) {
	_, err := Train(nil, nil)
	assert.Error(t, err)
}
