package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cnc-tsn/config"
)

func TestNewAppliesDefaults(t *testing.T) {
	c, err := config.New()
	require.NoError(t, err)
	require.Equal(t, 0.9, c.ACOq0)
	require.Equal(t, int64(0), c.BridgeDelay)
	require.Equal(t, config.AlgorithmACO, c.Algorithm)
}

func TestNewRejectsNegativeWeight(t *testing.T) {
	_, err := config.New(config.WithWeights(-1, 1, 1, 1))
	require.ErrorIs(t, err, config.ErrBadWeight)
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	_, err := config.New(config.WithAlgorithm("bogus"))
	require.ErrorIs(t, err, config.ErrBadAlgorithm)
}

func TestOptionsOverrideDefaults(t *testing.T) {
	c, err := config.New(config.WithACOq0(0.5), config.WithBridgeDelay(10), config.WithSeed(42))
	require.NoError(t, err)
	require.Equal(t, 0.5, c.ACOq0)
	require.Equal(t, int64(10), c.BridgeDelay)
	require.Equal(t, int64(42), c.Seed)
}
