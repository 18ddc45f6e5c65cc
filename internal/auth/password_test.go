package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, ComparePassword(hash, "secret"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestHashCostOutOfRangeFallsBack(t *testing.T) {
	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1} {
		hash, err := HashPassword("secret", cost)
		require.NoError(t, err, "cost %d", cost)
		assert.NoError(t, ComparePassword(hash, "secret"))
	}
}

func TestHashProducesDistinctSalts(t *testing.T) {
	first, err := HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
