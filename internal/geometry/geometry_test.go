package geometry

import (
	"testing"

	"diskvault/pkg/options"
)

func TestNewValidatesDimensions(t *testing.T) {
	tests := []struct {
		name    string
		opts    *options.GeometryOptions
		wantErr bool
	}{
		{"nil options", nil, true},
		{"zero platters", &options.GeometryOptions{Platters: 0, Tracks: 1, Sectors: 1, SectorSize: 16}, true},
		{"zero tracks", &options.GeometryOptions{Platters: 1, Tracks: 0, Sectors: 1, SectorSize: 16}, true},
		{"zero sectors", &options.GeometryOptions{Platters: 1, Tracks: 1, Sectors: 0, SectorSize: 16}, true},
		{"zero sector size", &options.GeometryOptions{Platters: 1, Tracks: 1, Sectors: 1, SectorSize: 0}, true},
		{"valid", &options.GeometryOptions{Platters: 1, Tracks: 4, Sectors: 4, SectorSize: 64}, false},
		{
			"total sectors overflows uint16 addressing",
			&options.GeometryOptions{Platters: 100, Tracks: 1000, Sectors: 1000, SectorSize: 16},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%+v) error = %v, wantErr %v", tt.opts, err, tt.wantErr)
			}
		})
	}
}

func TestTotalSectorsAndCapacity(t *testing.T) {
	geo, err := New(&options.GeometryOptions{Platters: 2, Tracks: 40, Sectors: 16, SectorSize: 512})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	wantSectors := 2 * SurfacesPerPlatter * 40 * 16
	if got := geo.TotalSectors(); got != wantSectors {
		t.Errorf("TotalSectors() = %d, want %d", got, wantSectors)
	}
	if got := geo.TotalCapacity(); got != wantSectors*512 {
		t.Errorf("TotalCapacity() = %d, want %d", got, wantSectors*512)
	}
}

func TestLocateIsABijection(t *testing.T) {
	geo, err := New(&options.GeometryOptions{Platters: 2, Tracks: 3, Sectors: 4, SectorSize: 64})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	seen := map[Location]bool{}
	for s := 0; s < geo.TotalSectors(); s++ {
		loc, err := geo.Locate(s)
		if err != nil {
			t.Fatalf("Locate(%d) error = %v", s, err)
		}
		if loc.Platter < 0 || loc.Platter >= geo.Platters {
			t.Errorf("Locate(%d) platter %d out of range", s, loc.Platter)
		}
		if loc.Surface < 0 || loc.Surface >= SurfacesPerPlatter {
			t.Errorf("Locate(%d) surface %d out of range", s, loc.Surface)
		}
		if loc.Track < 0 || loc.Track >= geo.Tracks {
			t.Errorf("Locate(%d) track %d out of range", s, loc.Track)
		}
		if loc.Sector < 0 || loc.Sector >= geo.Sectors {
			t.Errorf("Locate(%d) sector %d out of range", s, loc.Sector)
		}
		if seen[loc] {
			t.Fatalf("Locate(%d) produced duplicate location %+v", s, loc)
		}
		seen[loc] = true
	}

	if len(seen) != geo.TotalSectors() {
		t.Fatalf("got %d distinct locations, want %d", len(seen), geo.TotalSectors())
	}
}

func TestLocateRejectsOutOfRange(t *testing.T) {
	geo, err := New(&options.GeometryOptions{Platters: 1, Tracks: 2, Sectors: 2, SectorSize: 64})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := geo.Locate(-1); err == nil {
		t.Error("Locate(-1) should error")
	}
	if _, err := geo.Locate(geo.TotalSectors()); err == nil {
		t.Error("Locate(TotalSectors()) should error")
	}
}
