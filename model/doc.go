// Package model defines the provider invocation capability consumed by
// agents: a normalized Request/Response pair and the Model interface whose
// Generate method streams responses over channels. Concrete providers live in
// the openai and anthropic subpackages; MockModel offers a deterministic
// in-memory implementation for tests and examples.
package model
