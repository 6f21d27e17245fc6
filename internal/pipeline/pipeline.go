// Package pipeline sequences the two generation passes: Pass A turns a
// campaign record into a validated Decision Map, Pass B renders a narrative
// brief from the Decision Map alone, and the pair is persisted as one case.
// Any stage-1 failure aborts before stage 2 and before anything is stored;
// there is no partial persistence and no retry.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"decisionmap/internal/campaign"
	"decisionmap/internal/provider"
	"decisionmap/internal/schema"
)

// CaseWriter is the slice of the case store the pipeline needs: append one
// finished run. The connection lifecycle belongs to the caller, which opens
// per invocation and releases on every exit path.
type CaseWriter interface {
	Insert(in campaign.Input, dm *schema.DecisionMap, decisionMapJSON, briefText string) (int64, error)
}

// Models names the per-pass model identifiers.
type Models struct {
	PassA string
	PassB string
}

// Runner executes the two-pass pipeline with one injected provider instance.
// Stateless between invocations; safe for concurrent Run calls as long as the
// generator and writer are.
type Runner struct {
	gen    provider.Generator
	writer CaseWriter
	models Models
	log    *zap.Logger
}

// New builds a Runner. A nil logger is replaced with a no-op one.
func New(gen provider.Generator, writer CaseWriter, models Models, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{gen: gen, writer: writer, models: models, log: log}
}

// Result is the outcome of one successful pipeline invocation.
type Result struct {
	RunID           string
	CaseID          int64
	DecisionMap     *schema.DecisionMap
	DecisionMapJSON string
	Brief           string
}

// Run executes Pass A, Pass B, and persistence, in that order. The returned
// error classifies into exactly one failure kind (see Classify).
func (r *Runner) Run(ctx context.Context, in campaign.Input) (*Result, error) {
	runID := uuid.NewString()
	log := r.log.With(zap.String("run_id", runID))

	in = in.Trimmed()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	campaignJSON, err := in.JSON()
	if err != nil {
		return nil, err
	}

	// Pass A: structured reasoning.
	log.Info("pass A: generating decision map", zap.String("model", r.models.PassA))
	raw, err := r.gen.GenerateStructured(ctx, r.models.PassA, passASystem,
		fmt.Sprintf(passAUserTemplate, campaignJSON), schema.ResponseSchema())
	if err != nil {
		log.Warn("pass A failed", zap.Error(err))
		return nil, err
	}
	dm, err := schema.Parse(raw)
	if err != nil {
		log.Warn("pass A output rejected", zap.Error(err))
		return nil, err
	}
	dmJSON, err := dm.JSON()
	if err != nil {
		return nil, err
	}

	// Pass B: narrative rendering. The serialized decision map is the only
	// ground truth handed over; the raw campaign input must not leak in.
	log.Info("pass B: rendering brief", zap.String("model", r.models.PassB))
	brief, err := r.gen.GenerateText(ctx, r.models.PassB, passBSystem,
		fmt.Sprintf(passBUserTemplate, dmJSON))
	if err != nil {
		log.Warn("pass B failed", zap.Error(err))
		return nil, err
	}

	// Persist. A storage failure fails the whole run: the case library and
	// the caller-visible result must never diverge.
	caseID, err := r.writer.Insert(in, dm, dmJSON, brief)
	if err != nil {
		log.Error("case insert failed", zap.Error(err))
		return nil, err
	}

	log.Info("pipeline complete", zap.Int64("case_id", caseID))
	return &Result{
		RunID:           runID,
		CaseID:          caseID,
		DecisionMap:     dm,
		DecisionMapJSON: dmJSON,
		Brief:           brief,
	}, nil
}
