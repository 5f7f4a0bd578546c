// Package store defines how satellite definitions are looked up.
package store

import "go.ngs.io/satstress/internal/domain"

// SatelliteLoader is the interface for loading satellite definitions.
type SatelliteLoader interface {
	// LoadBody loads and validates the named satellite (e.g., "europa.satellite").
	LoadBody(name string) (domain.Body, error)
}
