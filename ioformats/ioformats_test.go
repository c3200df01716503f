package ioformats_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cnc-tsn/ioformats"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadNetworkBuildsBidirectionalEdges(t *testing.T) {
	path := writeTemp(t, "network.yaml", `
host_count: 2
switch_count: 1
edges:
  - u: 0
    v: 2
    bandwidth: 1500
  - u: 2
    v: 1
    bandwidth: 1500
`)

	g, err := ioformats.LoadNetwork(path)
	require.NoError(t, err)
	require.Equal(t, 3, g.NodeCount())
	require.Equal(t, 4, g.EdgeCount())
}

func TestLoadStreamsAppliesFold(t *testing.T) {
	path := writeTemp(t, "streams.yaml", `
tsns:
  - {src: 0, dst: 3, size: 1500, period: 300, max_delay: 200, offset: 0}
avbs:
  - {src: 0, dst: 3, size: 1500, period: 300, max_delay: 5000, class: "A"}
`)

	tsns, avbs, err := ioformats.LoadStreams(path, 3)
	require.NoError(t, err)
	require.Len(t, tsns, 3)
	require.Len(t, avbs, 3)
}

func TestLoadConfigAppliesDefaultsWhenKnobsOmitted(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
w0: 10
w1: 1
w2: 1
w3: 1
fast_stop: true
tsn_memory: 1.5
avb_memory: 1.5
t_limit: 500000
algorithm: "aco"
seed: 7
`)

	cfg, err := ioformats.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 10.0, cfg.W0)
	require.True(t, cfg.FastStop)
	require.Equal(t, 0.9, cfg.ACOq0)
	require.Equal(t, int64(0), cfg.BridgeDelay)
}
