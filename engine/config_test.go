package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.RecentTradesCap != 1000 {
		t.Errorf("expected default RecentTradesCap 1000, got %d", cfg.RecentTradesCap)
	}
	if cfg.DefaultDepth != 20 {
		t.Errorf("expected default DefaultDepth 20, got %d", cfg.DefaultDepth)
	}
	if len(cfg.Symbols) != 0 {
		t.Errorf("expected no symbols registered by default, got %d", len(cfg.Symbols))
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	contents := `
recent_trades_cap: 500
default_depth: 10
symbols:
  BTCUSDT:
    price_scale: 2
    qty_scale: 8
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.RecentTradesCap != 500 {
		t.Errorf("expected RecentTradesCap 500, got %d", cfg.RecentTradesCap)
	}
	if cfg.DefaultDepth != 10 {
		t.Errorf("expected DefaultDepth 10, got %d", cfg.DefaultDepth)
	}
	sc, ok := cfg.Symbols["BTCUSDT"]
	if !ok {
		t.Fatal("expected BTCUSDT to be registered from config")
	}
	if sc.PriceScale != 2 || sc.QtyScale != 8 {
		t.Errorf("expected scales (2, 8), got (%d, %d)", sc.PriceScale, sc.QtyScale)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/engine.yaml"); err == nil {
		t.Fatal("expected an error loading a nonexistent config file")
	}
}
