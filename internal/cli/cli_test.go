package cli

import (
	"testing"

	"github.com/lucaskjaero/casia/internal/config"
)

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "casia" {
		t.Errorf("expected Use 'casia', got '%s'", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]*struct{ seen bool }{
		"fetch":    {},
		"export":   {},
		"stats":    {},
		"datasets": {},
		"config":   {},
		"version":  {},
	}
	for _, cmd := range rootCmd.Commands() {
		if entry, ok := want[cmd.Name()]; ok {
			entry.seen = true
			if cmd.Short == "" {
				t.Errorf("command %s has no Short description", cmd.Name())
			}
		}
	}
	for name, entry := range want {
		if !entry.seen {
			t.Errorf("command %s is not registered", name)
		}
	}
}

func TestSelectDatasets(t *testing.T) {
	cfg := config.DefaultConfig()

	all, err := selectDatasets(cfg, nil)
	if err != nil {
		t.Fatalf("selectDatasets failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected full catalog by default, got %d", len(all))
	}

	one, err := selectDatasets(cfg, []string{"competition-gnt"})
	if err != nil {
		t.Fatalf("selectDatasets failed: %v", err)
	}
	if len(one) != 1 || one[0].Name != "competition-gnt" {
		t.Errorf("expected competition-gnt, got %v", one)
	}

	cfg.Datasets = []string{"HWDB1.1tst_gnt"}
	fromCfg, err := selectDatasets(cfg, nil)
	if err != nil {
		t.Fatalf("selectDatasets failed: %v", err)
	}
	if len(fromCfg) != 1 || fromCfg[0].Name != "HWDB1.1tst_gnt" {
		t.Errorf("expected configured selection, got %v", fromCfg)
	}

	if _, err := selectDatasets(cfg, []string{"bogus"}); err == nil {
		t.Error("expected error for unknown dataset name")
	}
}

func TestLabelDir(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"你", "你"},
		{"AB", "AB"},
		{"", "empty"},
		{".", "u002E"},
		{"a/b", "u0061u002Fu0062"},
	}
	for _, tt := range tests {
		if got := labelDir(tt.label); got != tt.want {
			t.Errorf("labelDir(%q) = %q, expected %q", tt.label, got, tt.want)
		}
	}
}
