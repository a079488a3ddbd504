// Package core defines the shared vocabulary of the EduPilot backend: scoped
// state keys, immutable session events, the session/state store contract,
// the error taxonomy and the interfaces of the external collaborators
// (generation steps, course repository, memory index, artifact store).
//
// Packages higher in the dependency graph (state, orchestrator, server)
// depend on core; core depends only on logging and the standard library.
package core
