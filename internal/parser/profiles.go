package parser

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/lane-analytics/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultProfiles returns the built-in column conventions.
func DefaultProfiles() *models.ProfileSet {
	return &models.ProfileSet{
		Default: "airport",
		Profiles: map[string]models.FieldConfig{
			"airport": {
				Origin:       "Origin Airport",
				Destination:  "Destination Airport",
				DeliveryTime: "DEL TIME",
			},
			"station": {
				Origin:       "ORIG",
				Destination:  "DEST",
				DeliveryTime: "DEL TIME",
			},
		},
	}
}

// LoadProfiles reads a YAML profile file and merges it over the built-in
// profiles. A missing file yields the built-in profiles.
func LoadProfiles(filePath string) (*models.ProfileSet, error) {
	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return DefaultProfiles(), nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadProfilesFromReader(file)
}

// LoadProfilesFromReader parses profiles from an io.Reader.
func LoadProfilesFromReader(r io.Reader) (*models.ProfileSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var parsed models.ProfileSet
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid profile file: %w", err)
	}

	set := DefaultProfiles()
	for name, cfg := range parsed.Profiles {
		if cfg.Origin == "" || cfg.Destination == "" || cfg.DeliveryTime == "" {
			return nil, fmt.Errorf("profile %q: origin, destination and delivery_time are required", name)
		}
		set.Profiles[name] = cfg
	}
	if parsed.Default != "" {
		set.Default = parsed.Default
	}
	if _, ok := set.Profiles[set.Default]; !ok {
		return nil, fmt.Errorf("default profile %q is not defined", set.Default)
	}

	return set, nil
}

// ProfileNames returns the profile names in sorted order.
func ProfileNames(set *models.ProfileSet) []string {
	names := make([]string, 0, len(set.Profiles))
	for name := range set.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
