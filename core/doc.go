// Package core defines the shared contracts of the agentchain framework: the
// Agent capability interface consumed by the orchestration strategies, the
// chat message data model, and the collaborator contracts (history stores,
// semantic search stores) implemented outside the core.
//
// The orchestration packages are generic over these interfaces and never
// inspect concrete implementations.
package core
