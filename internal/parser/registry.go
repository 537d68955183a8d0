package parser

import (
	"fmt"
	"strings"
)

// Registry holds all available loaders and provides auto-detection.
type Registry struct {
	loaders []Loader
}

// NewRegistry returns a registry with the XLSX and CSV loaders, in that order.
func NewRegistry() *Registry {
	return &Registry{
		loaders: []Loader{
			NewXLSXLoader(),
			NewCSVLoader(),
		},
	}
}

// NewRegistryWith returns a registry holding exactly the given loaders.
func NewRegistryWith(loaders ...Loader) *Registry {
	return &Registry{loaders: loaders}
}

// Register adds a new loader to the registry.
func (r *Registry) Register(l Loader) {
	r.loaders = append(r.loaders, l)
}

// FindLoader detects the correct loader for a file.
func (r *Registry) FindLoader(fileName string, head []byte) (Loader, error) {
	for _, l := range r.loaders {
		if l.CanLoad(fileName, head) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
}

// GetLoaderByName returns a loader by its name.
func (r *Registry) GetLoaderByName(name string) (Loader, error) {
	name = strings.ToLower(name)
	for _, l := range r.loaders {
		if strings.ToLower(l.Name()) == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("loader not found: %s", name)
}
