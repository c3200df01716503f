// Package ioformats loads the three YAML-encoded logical schemas spec §6
// fixes (Network, Streams, Config) and builds the in-memory types the core
// consumes (graph.Graph, streamtable specs, config.Config).
package ioformats

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/cnc-tsn/config"
	"github.com/katalvlaran/cnc-tsn/graph"
	"github.com/katalvlaran/cnc-tsn/streamtable"
)

// networkFile mirrors spec §6's Network schema.
type networkFile struct {
	HostCount   int `yaml:"host_count"`
	SwitchCount int `yaml:"switch_count"`
	Edges       []struct {
		U         int     `yaml:"u"`
		V         int     `yaml:"v"`
		Bandwidth float64 `yaml:"bandwidth"`
	} `yaml:"edges"`
}

// LoadNetwork reads a Network YAML file and builds the corresponding
// graph.Graph: hosts get ids [0, host_count), switches follow, and every
// listed edge generates both directions with identical bandwidth (spec §6).
func LoadNetwork(path string) (*graph.Graph, error) {
	var nf networkFile
	if err := readYAML(path, &nf); err != nil {
		return nil, err
	}

	g := graph.NewGraph()
	for i := 0; i < nf.HostCount; i++ {
		g.AddNode(graph.KindEndDevice)
	}
	for i := 0; i < nf.SwitchCount; i++ {
		g.AddNode(graph.KindBridge)
	}

	for _, e := range nf.Edges {
		if _, err := g.AddEdge(e.U, e.V, e.Bandwidth); err != nil {
			return nil, err
		}
		if _, err := g.AddEdge(e.V, e.U, e.Bandwidth); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// streamsFile mirrors spec §6's Streams schema.
type streamsFile struct {
	TSNs []struct {
		Src      int   `yaml:"src"`
		Dst      int   `yaml:"dst"`
		Size     int64 `yaml:"size"`
		Period   int64 `yaml:"period"`
		MaxDelay int64 `yaml:"max_delay"`
		Offset   int64 `yaml:"offset"`
	} `yaml:"tsns"`
	AVBs []struct {
		Src      int    `yaml:"src"`
		Dst      int    `yaml:"dst"`
		Size     int64  `yaml:"size"`
		Period   int64  `yaml:"period"`
		MaxDelay int64  `yaml:"max_delay"`
		Class    string `yaml:"class"`
	} `yaml:"avbs"`
}

// LoadStreams reads a Streams YAML file and returns fold copies of its TSN
// and AVB specs, replicating the lists fold times (stream ids remain
// distinct: callers append the returned slices via streamtable.Table, whose
// own ids are assigned by insertion order, per spec §6's `fold` parameter).
func LoadStreams(path string, fold uint32) ([]streamtable.TSNSpec, []streamtable.AVBSpec, error) {
	var sf streamsFile
	if err := readYAML(path, &sf); err != nil {
		return nil, nil, err
	}

	if fold == 0 {
		fold = 1
	}

	var tsns []streamtable.TSNSpec
	var avbs []streamtable.AVBSpec

	for i := uint32(0); i < fold; i++ {
		for _, s := range sf.TSNs {
			tsns = append(tsns, streamtable.TSNSpec{
				Src: s.Src, Dst: s.Dst, Size: s.Size, Period: s.Period, MaxDelay: s.MaxDelay, Offset: s.Offset,
			})
		}
		for _, s := range sf.AVBs {
			class := streamtable.ClassB
			if s.Class == "A" {
				class = streamtable.ClassA
			}
			avbs = append(avbs, streamtable.AVBSpec{
				Src: s.Src, Dst: s.Dst, Size: s.Size, Period: s.Period, MaxDelay: s.MaxDelay, Class: class,
			})
		}
	}

	return tsns, avbs, nil
}

// configFile mirrors spec §6's Config schema, plus the two open-question
// knobs (spec §9) exposed as optional fields with the documented defaults.
type configFile struct {
	W0          float64 `yaml:"w0"`
	W1          float64 `yaml:"w1"`
	W2          float64 `yaml:"w2"`
	W3          float64 `yaml:"w3"`
	FastStop    bool    `yaml:"fast_stop"`
	TSNMemory   float64 `yaml:"tsn_memory"`
	AVBMemory   float64 `yaml:"avb_memory"`
	TLimitUS    int64   `yaml:"t_limit"`
	Algorithm   string  `yaml:"algorithm"`
	Seed        int64   `yaml:"seed"`
	ACOq0       float64 `yaml:"aco_q0"`
	BridgeDelay int64   `yaml:"bridge_delay"`
}

// LoadConfig reads a Config YAML file and returns a validated config.Config.
func LoadConfig(path string) (config.Config, error) {
	var cf configFile
	if err := readYAML(path, &cf); err != nil {
		return config.Config{}, err
	}

	opts := []config.Option{
		config.WithWeights(cf.W0, cf.W1, cf.W2, cf.W3),
		config.WithFastStop(cf.FastStop),
		config.WithMemory(cf.TSNMemory, cf.AVBMemory),
		config.WithTimeLimit(microseconds(cf.TLimitUS)),
		config.WithAlgorithm(config.Algorithm(cf.Algorithm)),
		config.WithSeed(cf.Seed),
	}
	if cf.ACOq0 > 0 {
		opts = append(opts, config.WithACOq0(cf.ACOq0))
	}
	if cf.BridgeDelay != 0 {
		opts = append(opts, config.WithBridgeDelay(cf.BridgeDelay))
	}

	return config.New(opts...)
}

// microseconds converts spec §6's t_limit (an integer count of
// microseconds) into a time.Duration.
func microseconds(us int64) time.Duration {
	return time.Duration(us) * time.Microsecond
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, out)
}
