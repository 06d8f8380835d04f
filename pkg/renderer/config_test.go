package renderer

import (
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"negative width", func(c *Config) { c.Width = -1 }, true},
		{"zero height", func(c *Config) { c.Height = 0 }, true},
		{"zero samples", func(c *Config) { c.Samples = 0 }, true},
		{"negative shards", func(c *Config) { c.Shards = -2 }, true},
		{"negative interval", func(c *Config) { c.CheckpointInterval = -1 }, true},
		{"negative bounces", func(c *Config) { c.MaxBounces = -1 }, true},
		{"zero bounces", func(c *Config) { c.MaxBounces = 0 }, true},
		{"single bounce", func(c *Config) { c.MaxBounces = 1 }, false},
		{"zero epsilon", func(c *Config) { c.TMin = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Height = 90
	cfg.Samples = 3

	resolved, err := cfg.resolve(16.0/9.0, HostInfo{LogicalCores: 8})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Width != 160 {
		t.Errorf("width = %d, want 160", resolved.Width)
	}
	if resolved.Shards != 3 {
		t.Errorf("shards = %d, want capped at 3 samples", resolved.Shards)
	}
	if resolved.CheckpointInterval != 3 {
		t.Errorf("interval = %d, want all samples in one round", resolved.CheckpointInterval)
	}
}

func TestConfig_DefaultShardsIndependentOfHost(t *testing.T) {
	cfg := DefaultConfig()
	var shards []int
	for _, cores := range []int{1, 4, 64} {
		resolved, err := cfg.resolve(2, HostInfo{LogicalCores: cores})
		if err != nil {
			t.Fatalf("resolve with %d cores: %v", cores, err)
		}
		shards = append(shards, resolved.Shards)
	}
	for _, n := range shards {
		if n != DefaultShards {
			t.Errorf("default shards resolved to %v across hosts, want %d everywhere", shards, DefaultShards)
			break
		}
	}

	cfg.Shards = 0
	resolved, err := cfg.resolve(2, HostInfo{LogicalCores: 4})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Shards != 4 {
		t.Errorf("shards=0 resolved to %d, want the 4 logical cores", resolved.Shards)
	}
}

func TestConfig_ShardPasses(t *testing.T) {
	cfg := Config{Samples: 10, Shards: 4}
	want := []int{3, 3, 2, 2}
	total := 0
	for k := range want {
		if got := cfg.shardPasses(k); got != want[k] {
			t.Errorf("shard %d: %d passes, want %d", k, got, want[k])
		}
		total += cfg.shardPasses(k)
	}
	if total != cfg.Samples {
		t.Errorf("shards sum to %d passes, want %d", total, cfg.Samples)
	}
}
