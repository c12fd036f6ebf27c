package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ============================================================
// MAIN CONFIG
// ============================================================

type Config struct {
	Chain   ChainConfig   `yaml:"chain"`
	Network NetworkConfig `yaml:"network"`
	Reports ReportsConfig `yaml:"reports"`
}

// ============================================================
// CHAIN CONFIG
// ============================================================

type ChainConfig struct {
	NetworkID      int      `yaml:"network_id"`
	SpecFile       string   `yaml:"spec_file"`
	Validators     []string `yaml:"validators"`
	MaliciousIndex int      `yaml:"malicious_index"`
	Users          []string `yaml:"users"`
	Binary         string   `yaml:"binary"`
	MaliciousBin   string   `yaml:"malicious_binary"`
}

// ============================================================
// NETWORK CONFIG
// ============================================================

type NetworkConfig struct {
	BasePort    int `yaml:"base_port"`
	RPCBasePort int `yaml:"rpc_base_port"`
	WSBasePort  int `yaml:"ws_base_port"`

	// QueryPortOffset picks the node the capture scripts query, counted
	// from the RPC base port. It defaults to 1 so captures never read the
	// chain through node 0, the node the experiment replaces with a
	// misbehaving build.
	QueryPortOffset int `yaml:"query_port_offset"`
}

// ============================================================
// REPORTS CONFIG
// ============================================================

type ReportsConfig struct {
	TimestampLayout string        `yaml:"timestamp_layout"`
	HashPrefixLen   int           `yaml:"hash_prefix_len"`
	HashSuffixLen   int           `yaml:"hash_suffix_len"`
	Loss            []LossPattern `yaml:"loss"`
	CyclePair       []int         `yaml:"cycle_pair"`
	MetricsPrefix   string        `yaml:"metrics_prefix"`
	MetricsFile     string        `yaml:"metrics_file"`
}

// LossPattern lists the adjacent author-index pairs counted as evidence that
// a validator's turn was skipped. The counts are heuristic, not exact.
type LossPattern struct {
	Validator int     `yaml:"validator"`
	Pairs     [][]int `yaml:"pairs"`
}

// ============================================================
// LOAD FUNCTION
// ============================================================

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills in the testbed constants for anything the file omits.
func ApplyDefaults(cfg *Config) {
	if cfg.Chain.NetworkID == 0 {
		cfg.Chain.NetworkID = 2025
	}
	if cfg.Chain.SpecFile == "" {
		cfg.Chain.SpecFile = "21chain.json"
	}
	if cfg.Chain.Binary == "" {
		cfg.Chain.Binary = "openethereum"
	}
	if cfg.Network.BasePort == 0 {
		cfg.Network.BasePort = 30300
	}
	if cfg.Network.RPCBasePort == 0 {
		cfg.Network.RPCBasePort = 8650
	}
	if cfg.Network.WSBasePort == 0 {
		cfg.Network.WSBasePort = 8750
	}
	if cfg.Network.QueryPortOffset == 0 {
		cfg.Network.QueryPortOffset = 1
	}
	if cfg.Reports.TimestampLayout == "" {
		cfg.Reports.TimestampLayout = "2006-01-02 15:04:05"
	}
	if cfg.Reports.HashPrefixLen == 0 {
		cfg.Reports.HashPrefixLen = 6
	}
	if cfg.Reports.HashSuffixLen == 0 {
		cfg.Reports.HashSuffixLen = 4
	}
	if len(cfg.Reports.Loss) == 0 {
		cfg.Reports.Loss = DefaultLossPatterns()
	}
	if len(cfg.Reports.CyclePair) == 0 {
		cfg.Reports.CyclePair = []int{15, 16}
	}
	if cfg.Reports.MetricsPrefix == "" {
		cfg.Reports.MetricsPrefix = "testchain"
	}
}

// DefaultLossPatterns reproduces the pair tables of the original
// five-active-validator experiment. The tables do not generalize; deployments
// with a different rotation should override them in the config file.
func DefaultLossPatterns() []LossPattern {
	return []LossPattern{
		{Validator: 0, Pairs: [][]int{{20, 1}, {20, 2}, {20, 3}}},
		{Validator: 1, Pairs: [][]int{{0, 2}, {0, 3}, {0, 4}}},
		{Validator: 2, Pairs: [][]int{{1, 3}, {0, 3}, {0, 4}}},
		{Validator: 3, Pairs: [][]int{{2, 4}, {0, 4}, {1, 4}}},
	}
}

// Validate rejects configs the report generators cannot work with.
func Validate(cfg *Config) error {
	if len(cfg.Chain.Validators) == 0 {
		return fmt.Errorf("chain.validators must list at least one address")
	}
	if cfg.Chain.MaliciousIndex < 0 || cfg.Chain.MaliciousIndex >= len(cfg.Chain.Validators) {
		return fmt.Errorf("chain.malicious_index %d out of range [0, %d)", cfg.Chain.MaliciousIndex, len(cfg.Chain.Validators))
	}
	if cfg.Network.QueryPortOffset < 1 || cfg.Network.QueryPortOffset >= len(cfg.Chain.Validators) {
		return fmt.Errorf("network.query_port_offset %d out of range [1, %d)", cfg.Network.QueryPortOffset, len(cfg.Chain.Validators))
	}
	if len(cfg.Reports.CyclePair) != 2 {
		return fmt.Errorf("reports.cycle_pair must have exactly two entries, got %d", len(cfg.Reports.CyclePair))
	}
	for _, lp := range cfg.Reports.Loss {
		for _, p := range lp.Pairs {
			if len(p) != 2 {
				return fmt.Errorf("reports.loss: validator %d has a pattern with %d entries, want 2", lp.Validator, len(p))
			}
		}
	}
	return nil
}
