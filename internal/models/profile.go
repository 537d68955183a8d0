package models

// ProfileSet is the YAML file that names spreadsheet column conventions.
//
//	default: airport
//	profiles:
//	  airport:
//	    origin: Origin Airport
//	    destination: Destination Airport
//	    delivery_time: DEL TIME
type ProfileSet struct {
	Default  string                 `json:"default" yaml:"default"`
	Profiles map[string]FieldConfig `json:"profiles" yaml:"profiles"`
}

// Lookup returns the named profile, or the default profile when name is empty.
func (p *ProfileSet) Lookup(name string) (FieldConfig, bool) {
	if name == "" {
		name = p.Default
	}
	cfg, ok := p.Profiles[name]
	return cfg, ok
}
