package orchestrator

import (
	"context"
	"fmt"

	"github.com/edupilot-ai/edupilot/core"
)

// MaxRefineIterations bounds the refinement loop so a refiner that never
// settles cannot spin forever.
const MaxRefineIterations = 5

// Refiner improves a generated assessment. Refine returns the (possibly
// replaced) assessment and whether another pass is wanted.
type Refiner interface {
	Refine(ctx context.Context, assessment *core.Assessment, snap core.Snapshot) (*core.Assessment, bool, error)
}

// RefineAssessment runs the refiner over the session's latest generated
// assessment, up to MaxRefineIterations passes, and persists the final
// version as a single appended event. The session must have completed
// assessment generation first.
func (o *Orchestrator) RefineAssessment(ctx context.Context, sessionID string, refiner Refiner) (*core.Assessment, error) {
	unlock := o.lockSession(sessionID)
	defer unlock()

	snap, err := o.store.Snapshot(sessionID)
	if err != nil {
		return nil, err
	}

	assessment := latestAssessment(snap)
	if assessment == nil {
		return nil, fmt.Errorf("no generated assessment in session %s: %w", sessionID, core.ErrInvalidTransition)
	}

	for i := 0; i < MaxRefineIterations; i++ {
		refined, again, rerr := refiner.Refine(ctx, assessment, snap)
		if rerr != nil {
			return nil, fmt.Errorf("refinement pass %d: %w", i+1, rerr)
		}
		if refined != nil {
			assessment = refined
		}
		if !again {
			break
		}
	}

	delta := core.StateDelta{core.KeyAssessments: []*core.Assessment{assessment}}
	if err := o.store.AppendEvent(sessionID, delta, core.AuthorAgent); err != nil {
		return nil, err
	}
	o.saveArtifact(sessionID, assessment)
	return assessment, nil
}

// latestAssessment pulls the most recent generated assessment out of a
// folded snapshot.
func latestAssessment(snap core.Snapshot) *core.Assessment {
	raw, ok := snap[core.KeyAssessments]
	if !ok {
		return nil
	}
	list, ok := raw.([]*core.Assessment)
	if !ok || len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}
