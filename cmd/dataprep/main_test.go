package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const upperNames = `
steps:
  - action: uppercase
    parameters: {column_id: "0000"}
`

type envelope struct {
	Records []map[string]any `json:"records"`
}

// workspace writes a config file, a stored preparation and two CSV inputs.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"config.yml": "environment: production\nlogging:\n  level: error\ncache:\n  provider: memory\n" +
			"pipeline:\n  preparation_dirs:\n    - " + filepath.Join(dir, "preps") + "\n",
		"preps/upper.yaml": upperNames,
		"north.csv":        "name,city\nann,oslo\nbo,bergen\n",
		"south.csv":        "name,city\ncy,rome\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func names(t *testing.T, data []byte) []any {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("expected an envelope, got %v: %s", err, data)
	}
	var out []any
	for _, r := range env.Records {
		out = append(out, r["0000"])
	}
	return out
}

func TestTransform_FileToFile(t *testing.T) {
	dir := workspace(t)
	out := filepath.Join(dir, "out.json")

	_, err := run(t, "", "transform", filepath.Join(dir, "north.csv"),
		"--config", filepath.Join(dir, "config.yml"),
		"--preparation", filepath.Join(dir, "preps", "upper.yaml"),
		"-o", out)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if diff := cmp.Diff([]any{"ANN", "BO"}, names(t, data)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_StdinToStdoutWithStoredPreparation(t *testing.T) {
	dir := workspace(t)
	stdout, err := run(t, "name\ndee\n", "transform", "--csv",
		"--config", filepath.Join(dir, "config.yml"),
		"--preparation", "upper")
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if diff := cmp.Diff([]any{"DEE"}, names(t, []byte(stdout))); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_Partitions(t *testing.T) {
	dir := workspace(t)
	outDir := filepath.Join(dir, "out")

	_, err := run(t, "", "transform",
		filepath.Join(dir, "north.csv"), filepath.Join(dir, "south.csv"),
		"--config", filepath.Join(dir, "config.yml"),
		"--preparation", "upper",
		"--output-dir", outDir)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	want := map[string][]any{"north.json": {"ANN", "BO"}, "south.json": {"CY"}}
	for file, expected := range want {
		data, err := os.ReadFile(filepath.Join(outDir, file))
		if err != nil {
			t.Fatalf("expected %s: %v", file, err)
		}
		if diff := cmp.Diff(expected, names(t, data)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", file, diff)
		}
	}
}

func TestTransform_Errors(t *testing.T) {
	dir := workspace(t)
	cfg := filepath.Join(dir, "config.yml")

	tests := []struct {
		name string
		args []string
	}{
		{"several inputs without output dir", []string{"transform", filepath.Join(dir, "north.csv"), filepath.Join(dir, "south.csv")}},
		{"unknown preparation", []string{"transform", filepath.Join(dir, "north.csv"), "--preparation", "missing"}},
		{"missing input", []string{"transform", filepath.Join(dir, "nope.csv")}},
		{"bad separator", []string{"transform", "--separator", ";;"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, "", append(tt.args, "--config", cfg)...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestActions(t *testing.T) {
	dir := workspace(t)

	stdout, err := run(t, "", "actions", "--config", filepath.Join(dir, "config.yml"))
	if err != nil {
		t.Fatalf("actions failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "NAME") || !strings.Contains(stdout, "uppercase") {
		t.Errorf("unexpected listing:\n%s", stdout)
	}

	stdout, err = run(t, "", "actions", "--json", "--config", filepath.Join(dir, "config.yml"))
	if err != nil {
		t.Fatalf("actions --json failed: %v", err)
	}
	var descriptors []map[string]any
	if err := json.Unmarshal([]byte(stdout), &descriptors); err != nil || len(descriptors) == 0 {
		t.Errorf("expected JSON descriptors, got %v: %s", err, stdout)
	}
}

func TestVersion(t *testing.T) {
	stdout, err := run(t, "", "version", "--config", "/does/not/exist.yml")
	if err != nil {
		t.Fatalf("version should not load config, got %v", err)
	}
	if !strings.HasPrefix(stdout, "dataprep ") {
		t.Errorf("unexpected banner %q", stdout)
	}
}

func TestAppConfig_EnvOverride(t *testing.T) {
	dir := workspace(t)
	t.Setenv("DATAPREP_PIPELINE__PARTITION_LIMIT", "3")
	t.Setenv("DATAPREP_SERVER__PORT", "9090")

	a := &app{configFile: filepath.Join(dir, "config.yml")}
	if err := a.load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if a.cfg.Pipeline.PartitionLimit != 3 {
		t.Errorf("expected partition limit 3, got %d", a.cfg.Pipeline.PartitionLimit)
	}
	if a.cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", a.cfg.Server.Port)
	}
	if a.cfg.Cache.Provider != "memory" || a.cfg.Environment != "production" {
		t.Errorf("unexpected config %+v", a.cfg.ServiceConfig)
	}
}

func TestAppConfig_Validate(t *testing.T) {
	var cfg AppConfig
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	cfg.Pipeline.PartitionLimit = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected a negative partition limit to fail")
	}
}
