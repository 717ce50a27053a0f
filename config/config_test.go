package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/js-arias/camgen/config"
)

func TestDefaultValidate(t *testing.T) {
	c := config.Default()
	c.BeamEnergy = 500
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	c := config.Default()
	c.BeamEnergy = 500
	c.MultichannelThreshold = 2
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for threshold > 1")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	c := config.Default()
	c.BeamEnergy = 1000
	c.GridBins = 80

	dir := t.TempDir()
	name := filepath.Join(dir, "config.tab")
	if err := c.Write(name); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := config.Read(name)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.GridBins != 80 {
		t.Fatalf("GridBins = %d, want 80", got.GridBins)
	}
	if got.BeamEnergy != 1000 {
		t.Fatalf("BeamEnergy = %v, want 1000", got.BeamEnergy)
	}
	if got.InitialState != c.InitialState {
		t.Fatalf("InitialState = %v, want %v", got.InitialState, c.InitialState)
	}
}

func TestReadUnknownOption(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "bad.tab")
	content := "# bad config\noption\tvalue\nbogus_option\t1\n"
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Read(name); err == nil {
		t.Fatal("expected error for unknown option")
	}
}
