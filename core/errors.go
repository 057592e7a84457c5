package core

import "fmt"

// ConfigError reports an invalid construction: a chain or parallel group with
// no agents, or an agent whose configuration violates an invariant (e.g.
// save-history enabled without a store or session id). It is raised
// immediately at construction and never retried.
type ConfigError struct {
	Component string // "agent", "chain", "parallel"
	Name      string // Name of the offending component
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s configuration for %q: %s", e.Component, e.Name, e.Reason)
}

// NewConfigError creates a ConfigError for the given component and name.
func NewConfigError(component, name, reason string) *ConfigError {
	return &ConfigError{Component: component, Name: name, Reason: reason}
}
