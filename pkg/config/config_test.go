package config

import "testing"

// TestDefault Ensure the fixed sweep matches 100MiB, 500MiB and 1GiB
func TestDefault(t *testing.T) {
	cfg := Default(4)
	want := []int{100 * 1024 * 1024, 500 * 1024 * 1024, 1024 * 1024 * 1024}
	if len(cfg.Sizes) != len(want) {
		t.Fatalf("Expected %d sizes, got %d", len(want), len(cfg.Sizes))
	}
	for i := range want {
		if cfg.Sizes[i] != want[i] {
			t.Fatalf("Size %d: expected %d, got %d", i, want[i], cfg.Sizes[i])
		}
	}
	if cfg.Repetitions != 5 || cfg.MinWorkers != 1 || cfg.MaxWorkers != 4 {
		t.Fatalf("Unexpected defaults %+v", cfg)
	}
	if cfg.Chunk != 1024*1024 {
		t.Fatalf("Expected 1MiB chunks, got %d", cfg.Chunk)
	}
}

// TestParseSize Check quantities and plain byte counts
func TestParseSize(t *testing.T) {
	good := map[string]int{
		"1":       1,
		"1500000": 1500000,
		"4Ki":     4096,
		"100Mi":   100 * 1024 * 1024,
		"1Gi":     1024 * 1024 * 1024,
		"1.5Mi":   1572864,
		"2M":      2000000,
	}
	for in, want := range good {
		got, err := ParseSize(in)
		if err != nil {
			t.Fatalf("ParseSize(%q) failed: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseSize(%q) = %d, want %d", in, got, want)
		}
	}
	for _, in := range []string{"", "0", "-1Mi", "100Mb", "0.5", "lots"} {
		if _, err := ParseSize(in); err == nil {
			t.Fatalf("ParseSize(%q) should have failed but succeeded", in)
		}
	}
}

// TestComplete Unset fields pick up defaults
func TestComplete(t *testing.T) {
	cfg := Config{BlockSizes: []string{"2Mi"}, Repetitions: DefaultRepetitions}
	if err := Complete(&cfg, 3); err != nil {
		t.Fatal(err)
	}
	if cfg.Repetitions != DefaultRepetitions || cfg.MinWorkers != 1 || cfg.MaxWorkers != 3 || cfg.Sizes[0] != 2*1024*1024 || cfg.Chunk != 1024*1024 {
		t.Fatalf("Unexpected completed config %+v", cfg)
	}
	bad := Config{BlockSizes: []string{"1Mi"}, Repetitions: 1, ChunkSize: "nope"}
	if err := Complete(&bad, 3); err == nil {
		t.Fatal("Complete should reject an invalid chunk size")
	}
}

// TestCompleteRejectsZeroRepetitions An explicit zero is not replaced by the default
func TestCompleteRejectsZeroRepetitions(t *testing.T) {
	cfg := Config{BlockSizes: []string{"1Mi"}, Repetitions: 0}
	if err := Complete(&cfg, 2); err == nil {
		t.Fatalf("Complete should reject zero repetitions, got %+v", cfg)
	}
}
