package batchwatch

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"BATCHWATCH_STORE", "BATCHWATCH_CACHE_TTL", "BATCHWATCH_SCAN_PAGE_SIZE"} {
		t.Setenv(k, "")
	}
	t.Setenv("BATCHWATCH_STORE", "memory")

	cfg := LoadConfig()
	if cfg.Store != "memory" {
		t.Errorf("Store = %q, want memory", cfg.Store)
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Errorf("CacheTTL = %v, want 60s", cfg.CacheTTL)
	}
	if cfg.ScanPageSize != 100 {
		t.Errorf("ScanPageSize = %d, want 100", cfg.ScanPageSize)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("BATCHWATCH_STORE", "Redis")
	t.Setenv("BATCHWATCH_STORE_TIMEOUT", "2s")
	t.Setenv("BATCHWATCH_SCAN_PAGE_SIZE", "25")
	t.Setenv("BATCHWATCH_SCAN_RATE", "4.5")
	t.Setenv("BATCHWATCH_CACHE_TTL", "not-a-duration")

	cfg := LoadConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"store lowercased", cfg.Store, "redis"},
		{"timeout", cfg.StoreTimeout, 2 * time.Second},
		{"page size", cfg.ScanPageSize, 25},
		{"scan rate", cfg.ScanRate, 4.5},
		{"bad ttl falls back", cfg.CacheTTL, 60 * time.Second},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadConfig_EmptyScheduleDisablesReport(t *testing.T) {
	t.Setenv("BATCHWATCH_REPORT_SCHEDULE", "")

	if got := LoadConfig().ReportSchedule; got != "" {
		t.Fatalf("ReportSchedule = %q, want empty", got)
	}
}
