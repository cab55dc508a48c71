package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/matchkit/record"
)

func TestGenerate_EmitsEachPairOnce(t *testing.T) {
	g := NewGenerator(0)
	// Two overlapping blocks both containing (1,2): must only be emitted once.
	g.Feed("block_a", "1")
	g.Feed("block_a", "2")
	g.Feed("block_b", "1")
	g.Feed("block_b", "2")
	g.Feed("block_b", "3")

	pairs, err := g.Generate(nil)
	require.NoError(t, err)

	seen := make(map[record.Pair]int)
	for _, p := range pairs {
		seen[p]++
	}
	for p, n := range seen {
		assert.Equal(t, 1, n, "pair %v emitted more than once", p)
	}
	assert.Contains(t, seen, record.NewPair("1", "2"))
	assert.Contains(t, seen, record.NewPair("1", "3"))
	assert.Contains(t, seen, record.NewPair("2", "3"))
}

func TestGenerate_SingletonBlockProducesNoPairs(t *testing.T) {
	g := NewGenerator(0)
	g.Feed("solo", "1")

	pairs, err := g.Generate(nil)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestGenerate_ExceedsMaxBlockSizeErrors(t *testing.T) {
	g := NewGenerator(2)
	g.Feed("big", "1")
	g.Feed("big", "2")
	g.Feed("big", "3")

	_, err := g.Generate(nil)
	assert.Error(t, err)
}

func TestGenerate_CancellationStopsEarly(t *testing.T) {
	g := NewGenerator(0)
	g.Feed("block_a", "1")
	g.Feed("block_a", "2")

	cancel := make(chan struct{})
	close(cancel)

	_, err := g.Generate(cancel)
	assert.Error(t, err)
}

func TestPosting_PromotesToBitmapPastThreshold(t *testing.T) {
	p := &posting{}
	for i := uint32(0); i <= smallPostingThreshold; i++ {
		p.add(i)
	}
	assert.Nil(t, p.small, "posting should have promoted to a bitmap")
	assert.NotNil(t, p.big)
	assert.Equal(t, smallPostingThreshold+1, p.cardinality())
}

func TestPosting_SmallModeStaysSortedSlice(t *testing.T) {
	p := &posting{}
	p.add(5)
	p.add(1)
	p.add(3)
	p.add(1) // duplicate, ignored

	assert.Nil(t, p.big)
	assert.Equal(t, []uint32{1, 3, 5}, p.members())
}

func TestPosting_BitmapMembersCorrect(t *testing.T) {
	p := &posting{}
	for i := uint32(0); i <= smallPostingThreshold; i++ {
		p.add(i)
	}
	members := p.members()
	require.Len(t, members, smallPostingThreshold+1)
	assert.Equal(t, uint32(0), members[0])
	assert.Equal(t, uint32(smallPostingThreshold), members[len(members)-1])
}
