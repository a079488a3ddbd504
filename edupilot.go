// Package edupilot provides a high-level façade over the conversation
// orchestrator and its service abstractions (state, memory, artifacts,
// repository & logging). Most applications interact with this package by:
//  1. Creating an EduPilot via New() (optionally overriding default
//     in-memory services and generation steps)
//  2. Calling Chat() per user turn
//
// The façade delegates turn processing to orchestrator.Orchestrator while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply an
// LLM-backed generation step and a structured logger.
package edupilot

import (
	"context"

	"github.com/edupilot-ai/edupilot/artifact"
	"github.com/edupilot-ai/edupilot/core"
	"github.com/edupilot-ai/edupilot/logging"
	"github.com/edupilot-ai/edupilot/memory"
	"github.com/edupilot-ai/edupilot/orchestrator"
	"github.com/edupilot-ai/edupilot/repository"
	"github.com/edupilot-ai/edupilot/state"
	"github.com/edupilot-ai/edupilot/toolkit"
)

// Version is the application version advertised under the app:version state
// key.
const Version = "0.1.0"

// SupportedLanguages lists the locales the prompts and confirmation tokens
// cover.
var SupportedLanguages = []string{"en", "fr"}

// Options configures the EduPilot instance.
type Options struct {
	// StateStore backs session event logs (defaults to in-memory).
	StateStore core.StateStore
	// MemoryIndex backs long-term recall (defaults to in-memory).
	MemoryIndex core.MemoryIndex
	// ArtifactStore persists generated assessments (defaults to in-memory).
	ArtifactStore core.ArtifactStore
	// Repository resolves course records (defaults to the sample-seeded
	// in-memory repository).
	Repository core.Repository
	// Extractor is the objective-extraction step (defaults to the
	// deterministic toolkit implementation).
	Extractor core.ObjectiveExtractor
	// Generator is the assessment-generation step (defaults to the
	// deterministic toolkit implementation).
	Generator core.AssessmentGenerator
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// EduPilot is the high-level façade aggregating the orchestrator and its
// services.
type EduPilot struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates an EduPilot instance with optional overrides. Any unset service
// is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *EduPilot {
	opts := Options{
		StateStore:    state.NewInMemoryStore(),
		MemoryIndex:   memory.NewInMemoryIndex(),
		ArtifactStore: artifact.NewInMemoryStore(),
		Repository:    repository.NewInMemoryRepository(),
		Extractor:     toolkit.NewObjectiveExtractor(),
		Generator:     toolkit.NewAssessmentBuilder(),
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	// Seed process-wide defaults; app: keys fold over the whole store, so a
	// single bootstrap session makes them visible everywhere.
	if _, err := opts.StateStore.CreateSession("system", core.StateDelta{
		core.KeyAppVersion:   Version,
		core.KeyAppLanguages: SupportedLanguages,
	}); err != nil {
		opts.Logger.Warn("app defaults not seeded", "error", err)
	}

	orch := orchestrator.New(opts.StateStore, opts.Extractor, opts.Generator, func(o *orchestrator.Options) {
		o.Memory = opts.MemoryIndex
		o.Artifacts = opts.ArtifactStore
		o.Repository = opts.Repository
		o.Logger = opts.Logger
	})

	return &EduPilot{opts: opts, orch: orch}
}

// Chat processes one user turn.
func (p *EduPilot) Chat(ctx context.Context, req orchestrator.TurnRequest) (*orchestrator.TurnResponse, error) {
	return p.orch.HandleTurn(ctx, req)
}

// Orchestrator exposes the underlying orchestrator for advanced use
// (refinement loops, explicit phase advancement).
func (p *EduPilot) Orchestrator() *orchestrator.Orchestrator { return p.orch }

// StateStore exposes the configured state store.
func (p *EduPilot) StateStore() core.StateStore { return p.opts.StateStore }

// MemoryIndex exposes the configured memory index.
func (p *EduPilot) MemoryIndex() core.MemoryIndex { return p.opts.MemoryIndex }

// ArtifactStore exposes the configured artifact store.
func (p *EduPilot) ArtifactStore() core.ArtifactStore { return p.opts.ArtifactStore }
