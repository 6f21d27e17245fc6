package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"decisionmap/internal/campaign"
	"decisionmap/internal/provider"
	"decisionmap/internal/schema"
	"decisionmap/internal/store"
)

func testInput() campaign.Input {
	return campaign.Input{
		Category:      "Retail",
		Objective:     "Drive in-store footfall during promo window",
		Channels:      "DOOH, Display",
		Market:        "US - NYC",
		AudienceLogic: "Commuter corridors near retail clusters",
	}
}

// memWriter records Insert calls without a database.
type memWriter struct {
	calls  int
	lastIn campaign.Input
	lastDM *schema.DecisionMap
	err    error
}

func (m *memWriter) Insert(in campaign.Input, dm *schema.DecisionMap, decisionMapJSON, briefText string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.calls++
	m.lastIn = in
	m.lastDM = dm
	return int64(m.calls), nil
}

// recorder wraps a Generator and captures the prompts each pass received.
type recorder struct {
	inner         provider.Generator
	passAPrompt   string
	passBPrompt   string
	structuredErr error
	textErr       error
}

func (r *recorder) GenerateStructured(ctx context.Context, model, sys, user string, s map[string]interface{}) ([]byte, error) {
	r.passAPrompt = user
	if r.structuredErr != nil {
		return nil, r.structuredErr
	}
	return r.inner.GenerateStructured(ctx, model, sys, user, s)
}

func (r *recorder) GenerateText(ctx context.Context, model, sys, user string) (string, error) {
	r.passBPrompt = user
	if r.textErr != nil {
		return "", r.textErr
	}
	return r.inner.GenerateText(ctx, model, sys, user)
}

func TestRunOfflineEndToEnd(t *testing.T) {
	w := &memWriter{}
	r := New(provider.NewOffline(), w, Models{PassA: "a", PassB: "b"}, nil)

	res, err := r.Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID == "" {
		t.Error("missing run id")
	}
	if res.CaseID != 1 {
		t.Errorf("case id = %d", res.CaseID)
	}
	if res.DecisionMap == nil || res.DecisionMap.DecisionType != schema.DecisionImpulseCapture {
		t.Errorf("unexpected decision map: %+v", res.DecisionMap)
	}
	if _, perr := schema.Parse([]byte(res.DecisionMapJSON)); perr != nil {
		t.Errorf("persisted decision map JSON is invalid: %v", perr)
	}
	if !strings.Contains(res.Brief, "Confidence Classification") {
		t.Error("brief missing its confidence section")
	}
	if w.calls != 1 {
		t.Errorf("writer called %d times, want 1", w.calls)
	}
}

func TestRunPassBSeesOnlyDecisionMap(t *testing.T) {
	rec := &recorder{inner: provider.NewOffline()}
	r := New(rec, &memWriter{}, Models{}, nil)

	in := testInput()
	res, err := r.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(rec.passBPrompt, res.DecisionMapJSON) {
		t.Error("pass B prompt does not embed the serialized decision map")
	}
	if strings.Contains(rec.passBPrompt, in.Objective) {
		t.Error("raw campaign objective leaked into the pass B prompt")
	}
	if !strings.Contains(rec.passAPrompt, in.Objective) {
		t.Error("pass A prompt is missing the campaign record")
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	w := &memWriter{}
	r := New(provider.NewOffline(), w, Models{}, nil)

	in := testInput()
	in.Market = "  "
	_, err := r.Run(context.Background(), in)
	var mf *campaign.MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if mf.Field != "Market" {
		t.Errorf("field = %q", mf.Field)
	}
	if w.calls != 0 {
		t.Error("nothing may be persisted for invalid input")
	}
}

func TestRunStageOneFailureAborts(t *testing.T) {
	w := &memWriter{}
	rec := &recorder{
		inner:         provider.NewOffline(),
		structuredErr: &provider.QuotaError{Provider: provider.NameOffline, Detail: "denied"},
	}
	r := New(rec, w, Models{}, nil)

	_, err := r.Run(context.Background(), testInput())
	var qe *provider.QuotaError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QuotaError, got %v", err)
	}
	if rec.passBPrompt != "" {
		t.Error("pass B ran after a pass A failure")
	}
	if w.calls != 0 {
		t.Error("a failed run must not be persisted")
	}
}

func TestRunRejectsContractBreach(t *testing.T) {
	w := &memWriter{}
	bad := &staticGenerator{structured: []byte(`{"decision_being_influenced": "x", "decision_type": "nonsense"}`)}
	r := New(bad, w, Models{}, nil)

	_, err := r.Run(context.Background(), testInput())
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if w.calls != 0 {
		t.Error("invalid output must not be persisted")
	}
}

func TestRunStorageFailureFailsRun(t *testing.T) {
	w := &memWriter{err: &store.IOError{Op: "insert", Err: errors.New("disk full")}}
	r := New(provider.NewOffline(), w, Models{}, nil)

	_, err := r.Run(context.Background(), testInput())
	var ioErr *store.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
}

// staticGenerator returns fixed bytes for pass A and fixed text for pass B.
type staticGenerator struct {
	structured []byte
	text       string
}

func (s *staticGenerator) GenerateStructured(context.Context, string, string, string, map[string]interface{}) ([]byte, error) {
	return s.structured, nil
}

func (s *staticGenerator) GenerateText(context.Context, string, string, string) (string, error) {
	return s.text, nil
}
