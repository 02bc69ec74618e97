package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohammedazif/keystone-map3d-sub002/internal/config"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/pipeline"
)

const testSite = `
name: cli-block
frame: local
plot:
  type: Polygon
  coordinates: [[[0, 0], [60, 0], [60, 40], [0, 40], [0, 0]]]
setback:
  uniform: 6
typology: perimeter
params:
  depth: 10
`

func writeSite(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunGenerate(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheNone
	out := filepath.Join(t.TempDir(), "out.json")
	seed := uint64(11)

	err := runGenerate(context.Background(), cfg, writeSite(t, testSite), generateOptions{out: out, seed: &seed})
	if err != nil {
		t.Fatalf("runGenerate: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var res pipeline.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if res.Seed != 11 || res.Typology != "perimeter" {
		t.Errorf("seed/typology = %d/%s", res.Seed, res.Typology)
	}
	if len(res.Footprints.Features) != 1 {
		t.Errorf("got %d footprints, want 1", len(res.Footprints.Features))
	}
}

func TestRunValidate(t *testing.T) {
	var buf bytes.Buffer
	if err := runValidate(&buf, writeSite(t, testSite)); err != nil {
		t.Errorf("runValidate: %v\n%s", err, buf.String())
	}

	bad := writeSite(t, "plot:\n  type: Polygon\n  coordinates: [[[0, 0], [60, 0], [60, 40], [0, 40], [0, 0]]]\nsetback:\n  uniform: -3\ntypology: tower\n")
	buf.Reset()
	if err := runValidate(&buf, bad); err == nil {
		t.Error("expected a validation error")
	}
}

func TestRunValidateMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := runValidate(&buf, filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
