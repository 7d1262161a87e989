// ABOUTME: Spatial audio backend detection
// ABOUTME: Runs a host probe once at startup and degrades to absent on failure
package spatial

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Probe asks the host for the active spatializer plugin name.
// An empty name means none is loaded.
type Probe func() (string, error)

// Backend is the result of a detection run
type Backend struct {
	Name    string
	Present bool
}

// Detect runs the probe. Errors and panics are treated as no backend.
func Detect(probe Probe) Backend {
	name, err := safeProbe(probe)
	if err != nil {
		log.Warn("Spatializer probe failed, assuming none", "err", err)
		return Backend{}
	}

	if name == "" {
		log.Warn("No spatializer plugin detected")
		return Backend{}
	}

	log.Info("Spatializer reported by host", "name", name)
	return Backend{Name: name, Present: true}
}

func safeProbe(probe Probe) (name string, err error) {
	if probe == nil {
		return "", nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe panicked: %v", r)
		}
	}()

	return probe()
}

// Static returns a probe that always reports name
func Static(name string) Probe {
	return func() (string, error) { return name, nil }
}
