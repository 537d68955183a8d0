package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProfiles(t *testing.T) {
	content := `
default: hub
profiles:
  hub:
    origin: "From Hub"
    destination: "To Hub"
    delivery_time: "Delivered"
  station:
    origin: "ORIGIN"
    destination: "DESTINATION"
    delivery_time: "DEL TIME"
`
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles failed: %v", err)
	}

	if set.Default != "hub" {
		t.Errorf("Expected default hub, got %s", set.Default)
	}
	hub, ok := set.Lookup("")
	if !ok || hub.Origin != "From Hub" || hub.DeliveryTime != "Delivered" {
		t.Errorf("Unexpected default profile: %+v", hub)
	}
	station, _ := set.Lookup("station")
	if station.Origin != "ORIGIN" {
		t.Errorf("Expected file profile to override built-in station, got %+v", station)
	}
	if _, ok := set.Lookup("airport"); !ok {
		t.Error("Expected built-in airport profile to be kept")
	}

	names := ProfileNames(set)
	if strings.Join(names, ",") != "airport,hub,station" {
		t.Errorf("Unexpected profile names: %v", names)
	}
}

func TestLoadProfilesMissingFile(t *testing.T) {
	set, err := LoadProfiles(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Expected built-in profiles, got error %v", err)
	}
	cfg, ok := set.Lookup("")
	if !ok || cfg.Origin != "Origin Airport" {
		t.Errorf("Expected airport default, got %+v", cfg)
	}
}

func TestLoadProfilesInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad yaml", content: "profiles: [unterminated"},
		{name: "incomplete profile", content: "profiles:\n  x:\n    origin: A\n"},
		{name: "unknown default", content: "default: nope\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadProfilesFromReader(strings.NewReader(tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
