package store

import (
	"math/bits"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

func TestCombineID_LiteralScenario(t *testing.T) {
	assert.Equal(t, VectorID(uint64(1)<<32|2), CombineID(1, 2))
}

func TestSplitID_LiteralScenario(t *testing.T) {
	f, c := SplitID(VectorID(uint64(3)<<32 | 7))
	assert.Equal(t, uint64(3), f)
	assert.Equal(t, uint64(7), c)
}

func TestSplitID_IsExactInverseOfCombineID(t *testing.T) {
	limit := uint64(1) << idHalfWidth
	f := quick.Check(func(fi, ci uint64) bool {
		fi %= limit
		ci %= limit
		gotF, gotC := SplitID(CombineID(fi, ci))
		return gotF == fi && gotC == ci
	}, &quick.Config{MaxCount: 2000})
	assert.NoError(t, f)
}

func TestIdHalfWidth_MatchesPointerWidth(t *testing.T) {
	assert.Equal(t, bits.UintSize/2, idHalfWidth)
}
