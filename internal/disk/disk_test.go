package disk

import (
	"context"
	"testing"

	"diskvault/internal/geometry"
	"diskvault/pkg/logger"
	"diskvault/pkg/options"
)

func testConfig(t *testing.T, dir string) *Config {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.Geometry.Platters = 1
	opts.Geometry.Tracks = 2
	opts.Geometry.Sectors = 4
	opts.Geometry.SectorSize = 32
	return &Config{Options: &opts, Logger: logger.New("disk-test")}
}

func openTestDisk(t *testing.T) *Disk {
	t.Helper()
	d, err := New(context.Background(), testConfig(t, t.TempDir()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestNewInitializesFreshDisk(t *testing.T) {
	d := openTestDisk(t)

	if got, want := d.TotalSectors(), 1*geometry.SurfacesPerPlatter*2*4; got != want {
		t.Errorf("TotalSectors() = %d, want %d", got, want)
	}
	for s := 0; s < d.TotalSectors(); s++ {
		if d.SectorOccupied(s) {
			t.Errorf("sector %d should start unoccupied", s)
		}
	}
}

func TestReopenPreservesOccupancy(t *testing.T) {
	dir := t.TempDir()

	d1, err := New(context.Background(), testConfig(t, dir))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := d1.MarkFragmentPlaced(3); err != nil {
		t.Fatalf("MarkFragmentPlaced() error = %v", err)
	}
	if err := d1.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	d2, err := New(context.Background(), testConfig(t, dir))
	if err != nil {
		t.Fatalf("reopen New() error = %v", err)
	}
	defer d2.Close()

	if !d2.SectorOccupied(3) {
		t.Error("sector 3 should still be occupied after reopening the disk")
	}
}

func TestRefcountedOccupancy(t *testing.T) {
	d := openTestDisk(t)

	if err := d.MarkFragmentPlaced(0); err != nil {
		t.Fatalf("MarkFragmentPlaced() error = %v", err)
	}
	if err := d.MarkFragmentPlaced(0); err != nil {
		t.Fatalf("MarkFragmentPlaced() error = %v", err)
	}
	if !d.SectorOccupied(0) {
		t.Fatal("sector should be occupied after two placements")
	}

	if err := d.MarkFragmentFreed(0); err != nil {
		t.Fatalf("MarkFragmentFreed() error = %v", err)
	}
	if !d.SectorOccupied(0) {
		t.Error("sector should still be occupied after freeing only one of two fragments")
	}

	if err := d.MarkFragmentFreed(0); err != nil {
		t.Fatalf("MarkFragmentFreed() error = %v", err)
	}
	if d.SectorOccupied(0) {
		t.Error("sector should be free once every fragment has been reclaimed")
	}
}

func TestFindFreeSectorsContiguousRun(t *testing.T) {
	d := openTestDisk(t)

	if err := d.MarkFragmentPlaced(1); err != nil {
		t.Fatalf("MarkFragmentPlaced() error = %v", err)
	}

	got, err := d.FindFreeSectors(2)
	if err != nil {
		t.Fatalf("FindFreeSectors(2) error = %v", err)
	}
	want := []int{2, 3}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("FindFreeSectors(2) = %v, want %v", got, want)
	}
}

func TestFindFreeSectorsOutOfSpace(t *testing.T) {
	d := openTestDisk(t)

	if _, err := d.FindFreeSectors(d.TotalSectors() + 1); err == nil {
		t.Error("FindFreeSectors should fail when more sectors are requested than exist")
	}
}

func TestStatusReflectsOccupancy(t *testing.T) {
	d := openTestDisk(t)

	if err := d.MarkFragmentPlaced(0); err != nil {
		t.Fatalf("MarkFragmentPlaced() error = %v", err)
	}

	s := d.Status()
	if s.UsedSectors != 1 {
		t.Errorf("UsedSectors = %d, want 1", s.UsedSectors)
	}
	if s.FreeSectors != s.TotalSectors-1 {
		t.Errorf("FreeSectors = %d, want %d", s.FreeSectors, s.TotalSectors-1)
	}
	if s.UsedSpace != s.SectorSize {
		t.Errorf("UsedSpace = %d, want %d", s.UsedSpace, s.SectorSize)
	}
}
