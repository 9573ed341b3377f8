package config

import (
	"os"
	"path/filepath"
	"testing"

	"ippi/internal/stats"
	"ippi/pkg/source"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[run]
max_steps = 1000
trace = true
format = "text"

[output]
color = false

[stats]
file = "out.stats"
metrics = ["vars", "insts"]
history = "runs.db"
`
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Run.MaxSteps != 1000 {
		t.Errorf("max_steps = %d, want 1000", c.Run.MaxSteps)
	}
	if !c.Run.Trace {
		t.Errorf("trace = false, want true")
	}
	if c.Format() != source.FormatText {
		t.Errorf("format = %s, want text", c.Format())
	}
	if c.Output.Color {
		t.Errorf("color = true, want false")
	}
	if c.Stats.File != "out.stats" || c.Stats.History != "runs.db" {
		t.Errorf("stats = %+v", c.Stats)
	}

	metrics, err := c.Metrics()
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if len(metrics) != 2 || metrics[0] != stats.Vars || metrics[1] != stats.Insts {
		t.Errorf("metrics = %v, want [vars insts]", metrics)
	}
	if c.Path != path {
		t.Errorf("path = %q, want %q", c.Path, path)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("[run]\ntrace = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !c.Output.Color {
		t.Errorf("color should default to true")
	}
	if c.Format() != source.FormatAuto {
		t.Errorf("format = %s, want auto", c.Format())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[run\n"},
		{"unknown key", "[run]\nspeed = 3\n"},
		{"negative steps", "[run]\nmax_steps = -1\n"},
		{"bad format", "[run]\nformat = \"json\"\n"},
		{"bad metric", "[stats]\nmetrics = [\"time\"]\n"},
		{"wrong type", "[run]\ntrace = \"yes\"\n"},
	}

	for _, test := range tests {
		path := filepath.Join(t.TempDir(), FileName)
		if err := os.WriteFile(path, []byte(test.content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected an error", test.name)
		}
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("[run]\nmax_steps = 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c.Run.MaxSteps != 5 {
		t.Errorf("max_steps = %d, want 5", c.Run.MaxSteps)
	}
}
