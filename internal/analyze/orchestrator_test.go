package analyze

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/readypath/backend/internal/database"
	"github.com/readypath/backend/internal/logger"
	"github.com/readypath/backend/internal/scoring"
	"github.com/readypath/backend/internal/store"
)

type memQuerier struct {
	records map[string]database.UserRecord
}

func newMemQuerier() *memQuerier {
	return &memQuerier{records: map[string]database.UserRecord{}}
}

func (m *memQuerier) UpsertUserRecord(ctx context.Context, arg database.UpsertUserRecordParams) error {
	m.records[arg.UserKey+"/"+arg.Kind] = database.UserRecord{
		UserKey: arg.UserKey,
		Kind:    arg.Kind,
		Data:    arg.Data,
	}
	return nil
}

func (m *memQuerier) GetUserRecord(ctx context.Context, arg database.GetUserRecordParams) (database.UserRecord, error) {
	rec, ok := m.records[arg.UserKey+"/"+arg.Kind]
	if !ok {
		return database.UserRecord{}, sql.ErrNoRows
	}
	return rec, nil
}

type fakeJobs struct {
	statuses []string
	errors   []sql.NullString
}

func (f *fakeJobs) UpdateAnalysisJobStatus(ctx context.Context, arg database.UpdateAnalysisJobStatusParams) error {
	f.statuses = append(f.statuses, arg.Status)
	f.errors = append(f.errors, arg.Error)
	return nil
}

func (f *fakeJobs) last() string {
	if len(f.statuses) == 0 {
		return ""
	}
	return f.statuses[len(f.statuses)-1]
}

type fakeScorer struct {
	calls    int
	lastReq  scoring.Request
	response scoring.Response
	err      error
}

func (f *fakeScorer) Analyze(ctx context.Context, req scoring.Request) (scoring.Response, error) {
	f.calls++
	f.lastReq = req
	return f.response, f.err
}

type fakePublisher struct {
	updates []Update
}

func (f *fakePublisher) Publish(update Update) error {
	f.updates = append(f.updates, update)
	return nil
}

func testOrchestrator(t *testing.T, q *memQuerier, scorer *fakeScorer) (*Orchestrator, *fakeJobs, *fakePublisher) {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	jobs := &fakeJobs{}
	pub := &fakePublisher{}
	return NewOrchestrator(store.NewStores(q), jobs, scorer, nil, pub, log), jobs, pub
}

func seedOnboarding(t *testing.T, q *memQuerier, userKey string) {
	t.Helper()
	stores := store.NewStores(q)
	ctx := context.Background()
	err := stores.JobRoles.Upsert(ctx, userKey, store.JobRole{
		Domain:          "Backend Development",
		RoleLevel:       "Senior",
		ExperienceRange: "4 years",
		EmploymentType:  "full-time",
	})
	if err != nil {
		t.Fatalf("seed job role: %v", err)
	}
	if err := stores.UserSkills.Upsert(ctx, userKey, store.UserSkills{Skills: []string{"Python", "Docker"}}); err != nil {
		t.Fatalf("seed skills: %v", err)
	}
}

func TestRunMissingPrerequisiteSkipsScorer(t *testing.T) {
	scorer := &fakeScorer{}
	orch, jobs, _ := testOrchestrator(t, newMemQuerier(), scorer)

	err := orch.Run(context.Background(), Job{ID: uuid.New(), UserKey: "guest_nothing"})
	if !errors.Is(err, ErrMissingPrerequisite) {
		t.Fatalf("expected ErrMissingPrerequisite, got %v", err)
	}
	if scorer.calls != 0 {
		t.Fatalf("scorer must not be called without onboarding data")
	}
	if jobs.last() != string(StatusError) {
		t.Fatalf("expected error status, got %q", jobs.last())
	}
}

func TestRunEmptySkillsIsMissingPrerequisite(t *testing.T) {
	q := newMemQuerier()
	stores := store.NewStores(q)
	ctx := context.Background()
	if err := stores.JobRoles.Upsert(ctx, "guest_abc", store.JobRole{RoleLevel: "mid", ExperienceRange: "2 years"}); err != nil {
		t.Fatalf("seed job role: %v", err)
	}
	if err := stores.UserSkills.Upsert(ctx, "guest_abc", store.UserSkills{Skills: []string{}}); err != nil {
		t.Fatalf("seed skills: %v", err)
	}

	scorer := &fakeScorer{}
	orch, _, _ := testOrchestrator(t, q, scorer)
	err := orch.Run(ctx, Job{ID: uuid.New(), UserKey: "guest_abc"})
	if !errors.Is(err, ErrMissingPrerequisite) {
		t.Fatalf("expected ErrMissingPrerequisite, got %v", err)
	}
	if scorer.calls != 0 {
		t.Fatalf("scorer must not be called with empty skills")
	}
}

func TestRunInvalidLevelFailsClosed(t *testing.T) {
	q := newMemQuerier()
	stores := store.NewStores(q)
	ctx := context.Background()
	if err := stores.JobRoles.Upsert(ctx, "guest_abc", store.JobRole{RoleLevel: "wizard", ExperienceRange: "2 years"}); err != nil {
		t.Fatalf("seed job role: %v", err)
	}
	if err := stores.UserSkills.Upsert(ctx, "guest_abc", store.UserSkills{Skills: []string{"Go"}}); err != nil {
		t.Fatalf("seed skills: %v", err)
	}

	scorer := &fakeScorer{}
	orch, jobs, _ := testOrchestrator(t, q, scorer)
	err := orch.Run(ctx, Job{ID: uuid.New(), UserKey: "guest_abc"})
	var invalid *scoring.ErrInvalidLevel
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *scoring.ErrInvalidLevel, got %v", err)
	}
	if scorer.calls != 0 {
		t.Fatalf("scorer must not be called with an unrecognized level")
	}
	if jobs.last() != string(StatusError) {
		t.Fatalf("expected error status, got %q", jobs.last())
	}
}

func TestRunFullScenario(t *testing.T) {
	q := newMemQuerier()
	seedOnboarding(t, q, "guest_abc123")

	score := 62.0
	fit := 70.0
	scorer := &fakeScorer{response: scoring.Response{
		ReadinessScore:  &score,
		ReadinessStatus: "needs_upskilling",
		MatchedSkills:   []string{"Docker"},
		MissingSkills:   []string{"AI Integration"},
		ResumeFitScore:  &fit,
		ScoreBreakdown:  []scoring.BreakdownEntry{{Skill: "Docker", Impact: "High"}},
	}}
	orch, jobs, pub := testOrchestrator(t, q, scorer)

	job := Job{ID: uuid.New(), UserKey: "guest_abc123"}
	if err := orch.Run(context.Background(), job); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if scorer.lastReq.RoleID != "Backend Development" {
		t.Fatalf("unexpected role id: %q", scorer.lastReq.RoleID)
	}
	if scorer.lastReq.Level != scoring.LevelSenior {
		t.Fatalf("unexpected level: %q", scorer.lastReq.Level)
	}
	if scorer.lastReq.ExperienceYears != 4 {
		t.Fatalf("unexpected experience years: %v", scorer.lastReq.ExperienceYears)
	}

	stores := store.NewStores(q)
	result, found, err := stores.Analyses.GetCurrent(context.Background(), "guest_abc123")
	if err != nil || !found {
		t.Fatalf("analysis not persisted: found=%v err=%v", found, err)
	}
	if result.ReadinessScore != 62 || result.ReadinessStatus != "needs_upskilling" || result.ResumeFitScore != 70 {
		t.Fatalf("unexpected analysis: %+v", result)
	}
	if len(result.MatchedSkills) != 1 || result.MatchedSkills[0] != "Docker" {
		t.Fatalf("unexpected matched skills: %#v", result.MatchedSkills)
	}
	if len(result.MissingSkills) != 1 || result.MissingSkills[0] != "AI Integration" {
		t.Fatalf("unexpected missing skills: %#v", result.MissingSkills)
	}
	if len(result.ScoreBreakdown) != 1 || result.ScoreBreakdown[0].Skill != "Docker" || result.ScoreBreakdown[0].Impact != "High" {
		t.Fatalf("unexpected breakdown: %#v", result.ScoreBreakdown)
	}

	roadmap, found, err := stores.Roadmaps.GetCurrent(context.Background(), "guest_abc123")
	if err != nil || !found {
		t.Fatalf("roadmap not persisted: found=%v err=%v", found, err)
	}
	if len(roadmap.Weeks) != 2 || roadmap.Weeks[0].WeekNumber != 1 || roadmap.Weeks[1].WeekNumber != 2 {
		t.Fatalf("unexpected roadmap: %+v", roadmap)
	}

	want := []Status{StatusCollecting, StatusCallingService, StatusSavingAnalysis, StatusSavingRoadmap, StatusComplete}
	if len(jobs.statuses) != len(want) {
		t.Fatalf("unexpected status transitions: %v", jobs.statuses)
	}
	for i, status := range want {
		if jobs.statuses[i] != string(status) {
			t.Fatalf("transition %d = %q, want %q", i, jobs.statuses[i], status)
		}
	}
	if len(pub.updates) != len(want) {
		t.Fatalf("expected %d published updates, got %d", len(want), len(pub.updates))
	}
	if pub.updates[len(pub.updates)-1].Status != StatusComplete {
		t.Fatalf("last update should be complete, got %q", pub.updates[len(pub.updates)-1].Status)
	}
}

func TestRunNormalizesPartialResponse(t *testing.T) {
	q := newMemQuerier()
	seedOnboarding(t, q, "guest_abc123")

	score := 55.0
	scorer := &fakeScorer{response: scoring.Response{ReadinessScore: &score}}
	orch, _, _ := testOrchestrator(t, q, scorer)

	if err := orch.Run(context.Background(), Job{ID: uuid.New(), UserKey: "guest_abc123"}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	result, found, err := store.NewStores(q).Analyses.GetCurrent(context.Background(), "guest_abc123")
	if err != nil || !found {
		t.Fatalf("analysis not persisted: found=%v err=%v", found, err)
	}
	if result.ScoreBreakdown == nil || len(result.ScoreBreakdown) != 0 {
		t.Fatalf("expected empty breakdown, got %#v", result.ScoreBreakdown)
	}
	if result.MatchedSkills == nil || result.MissingSkills == nil {
		t.Fatalf("expected empty skill lists, got %#v / %#v", result.MatchedSkills, result.MissingSkills)
	}
	if result.ReadinessStatus != "needs_upskilling" {
		t.Fatalf("expected default status, got %q", result.ReadinessStatus)
	}
}

func TestRunUpstreamFailure(t *testing.T) {
	q := newMemQuerier()
	seedOnboarding(t, q, "guest_abc123")

	scorer := &fakeScorer{err: &scoring.StatusError{StatusCode: 502, Body: "model unavailable"}}
	orch, jobs, _ := testOrchestrator(t, q, scorer)

	err := orch.Run(context.Background(), Job{ID: uuid.New(), UserKey: "guest_abc123"})
	if err == nil {
		t.Fatalf("expected upstream failure to propagate")
	}
	if jobs.last() != string(StatusError) {
		t.Fatalf("expected error status, got %q", jobs.last())
	}
	if _, found, _ := store.NewStores(q).Analyses.GetCurrent(context.Background(), "guest_abc123"); found {
		t.Fatalf("analysis must not be persisted on upstream failure")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	q := newMemQuerier()
	seedOnboarding(t, q, "guest_abc123")

	score := 62.0
	scorer := &fakeScorer{response: scoring.Response{ReadinessScore: &score}}
	orch, _, _ := testOrchestrator(t, q, scorer)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := orch.Run(ctx, Job{ID: uuid.New(), UserKey: "guest_abc123"}); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	}
	// One analysis, one roadmap, plus the two seeded onboarding records.
	if len(q.records) != 4 {
		t.Fatalf("expected 4 records after repeated runs, got %d", len(q.records))
	}
}
