// Package domain defines the core entities of the configuration store:
// environments, typed configuration values, versioned entries and their
// immutable history records.
package domain

import (
	"strings"

	"github.com/allisson/llm-config/internal/errors"
)

// Environment identifies the deployment environment a configuration entry
// belongs to. The same namespace/key pair can hold a different value per
// environment.
type Environment string

const (
	// EnvBase holds defaults shared by every environment.
	EnvBase Environment = "base"

	// EnvDevelopment is the local/dev environment.
	EnvDevelopment Environment = "development"

	// EnvStaging is the pre-production environment.
	EnvStaging Environment = "staging"

	// EnvProduction is the live environment.
	EnvProduction Environment = "production"

	// EnvEdge is for edge deployments, isolated from the
	// development/staging/production promotion chain.
	EnvEdge Environment = "edge"
)

// Environments lists every valid environment.
var Environments = []Environment{EnvBase, EnvDevelopment, EnvStaging, EnvProduction, EnvEdge}

// ParseEnvironment converts a string into an Environment. Matching is
// case-insensitive and accepts the short aliases dev, stage and prod.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "base":
		return EnvBase, nil
	case "development", "dev":
		return EnvDevelopment, nil
	case "staging", "stage":
		return EnvStaging, nil
	case "production", "prod":
		return EnvProduction, nil
	case "edge":
		return EnvEdge, nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidInput, "unknown environment %q", s)
	}
}

// String implements fmt.Stringer.
func (e Environment) String() string {
	return string(e)
}

// Valid reports whether e is one of the known environments.
func (e Environment) Valid() bool {
	switch e {
	case EnvBase, EnvDevelopment, EnvStaging, EnvProduction, EnvEdge:
		return true
	}
	return false
}

// OverrideChain returns the environments layered on top of base when
// resolving a value for e, in application order. Base resolves from base
// alone, edge overrides base directly, and the promotion environments
// accumulate: production sees development and staging overrides first.
func (e Environment) OverrideChain() []Environment {
	switch e {
	case EnvDevelopment:
		return []Environment{EnvDevelopment}
	case EnvStaging:
		return []Environment{EnvDevelopment, EnvStaging}
	case EnvProduction:
		return []Environment{EnvDevelopment, EnvStaging, EnvProduction}
	case EnvEdge:
		return []Environment{EnvEdge}
	default:
		return nil
	}
}
