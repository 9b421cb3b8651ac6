package analyze

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/readypath/backend/internal/database"
	"github.com/readypath/backend/internal/logger"
	"github.com/readypath/backend/internal/scoring"
	"github.com/readypath/backend/internal/store"
)

// ErrMissingPrerequisite means onboarding data (job role or skills) is absent
// or empty; the orchestrator refuses to call the scorer rather than guess.
var ErrMissingPrerequisite = errors.New("missing prerequisite onboarding data")

// Scorer is the external scoring service. Satisfied by *scoring.Client.
type Scorer interface {
	Analyze(ctx context.Context, req scoring.Request) (scoring.Response, error)
}

// JobTracker persists the job status machine. Satisfied by *database.Queries.
type JobTracker interface {
	UpdateAnalysisJobStatus(ctx context.Context, arg database.UpdateAnalysisJobStatusParams) error
}

// ResumeTexts supplies the user's extracted resume text, or "" when the user
// never uploaded one.
type ResumeTexts interface {
	Text(ctx context.Context, userKey string) (string, error)
}

// Publisher broadcasts status transitions. Satisfied by *AMQPPublisher.
type Publisher interface {
	Publish(update Update) error
}

// Orchestrator turns persisted onboarding data into a readiness assessment:
// load JobRole and UserSkills, call the scorer, upsert the normalized
// AnalysisResult and the roadmap. Re-running a job regenerates both records
// from the same inputs, so a run that died between the two writes is healed
// by running it again.
type Orchestrator struct {
	stores    *store.Stores
	jobs      JobTracker
	scorer    Scorer
	resumes   ResumeTexts
	publisher Publisher
	log       *logger.Logger
}

func NewOrchestrator(stores *store.Stores, jobs JobTracker, scorer Scorer, resumes ResumeTexts, publisher Publisher, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		stores:    stores,
		jobs:      jobs,
		scorer:    scorer,
		resumes:   resumes,
		publisher: publisher,
		log:       log,
	}
}

// Run executes one analyze job to completion or to the error state.
func (o *Orchestrator) Run(ctx context.Context, job Job) error {
	if err := o.analyze(ctx, job); err != nil {
		o.setStatus(ctx, job, StatusError, err.Error())
		return err
	}
	o.setStatus(ctx, job, StatusComplete, "analysis completed")
	return nil
}

func (o *Orchestrator) analyze(ctx context.Context, job Job) error {
	o.setStatus(ctx, job, StatusCollecting, "gathering onboarding data")

	jobRole, haveRole, err := o.stores.JobRoles.GetCurrent(ctx, job.UserKey)
	if err != nil {
		return err
	}
	userSkills, haveSkills, err := o.stores.UserSkills.GetCurrent(ctx, job.UserKey)
	if err != nil {
		return err
	}
	if !haveRole || !haveSkills || jobRole.RoleLevel == "" || jobRole.ExperienceRange == "" || len(userSkills.Skills) == 0 {
		return ErrMissingPrerequisite
	}

	level, err := scoring.ParseLevel(jobRole.RoleLevel)
	if err != nil {
		return err
	}

	req := scoring.Request{
		Skills: userSkills.Skills,
		// The scorer keys roles by id; we only store the domain string, so
		// that is what gets sent.
		RoleID:          jobRole.Domain,
		Level:           level,
		ExperienceYears: scoring.ParseExperienceYears(jobRole.ExperienceRange),
	}
	if o.resumes != nil {
		text, err := o.resumes.Text(ctx, job.UserKey)
		if err != nil {
			// Analysis is still meaningful without a resume.
			o.log.Warn("resume text unavailable, scoring without it", "user_key", job.UserKey, "error", err)
		} else {
			req.ResumeText = text
		}
	}

	o.setStatus(ctx, job, StatusCallingService, "computing readiness score")
	resp, err := o.scorer.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("scoring service: %w", err)
	}
	result := scoring.Normalize(resp)

	o.setStatus(ctx, job, StatusSavingAnalysis, "saving analysis")
	breakdown := make([]store.ScoreEntry, 0, len(result.ScoreBreakdown))
	for _, e := range result.ScoreBreakdown {
		breakdown = append(breakdown, store.ScoreEntry{Skill: e.Skill, Impact: e.Impact})
	}
	err = o.stores.Analyses.Upsert(ctx, job.UserKey, store.AnalysisResult{
		ReadinessScore:  result.ReadinessScore,
		ReadinessStatus: result.ReadinessStatus,
		MatchedSkills:   result.MatchedSkills,
		MissingSkills:   result.MissingSkills,
		ResumeFitScore:  result.ResumeFitScore,
		ScoreBreakdown:  breakdown,
	})
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}

	o.setStatus(ctx, job, StatusSavingRoadmap, "saving roadmap")
	if err := o.stores.Roadmaps.Upsert(ctx, job.UserKey, placeholderRoadmap()); err != nil {
		return fmt.Errorf("save roadmap: %w", err)
	}
	return nil
}

// placeholderRoadmap is the fixed two-week plan written for every user.
// TODO: derive weeks from the analysis' missing skills once the scorer
// exposes gap-ranked learning resources.
func placeholderRoadmap() store.Roadmap {
	return store.Roadmap{
		Weeks: []store.RoadmapWeek{
			{
				WeekNumber:    1,
				FocusSkill:    "Foundations",
				Courses:       []string{"Essential Concepts"},
				ResourceLinks: []string{"Crash Course"},
			},
			{
				WeekNumber:    2,
				FocusSkill:    "Advanced Topics",
				Courses:       []string{"Deep Dive"},
				ResourceLinks: []string{"Expert Series"},
			},
		},
	}
}

// setStatus persists the transition and broadcasts it. Failures here are
// logged and swallowed: status plumbing must not fail the analysis itself.
func (o *Orchestrator) setStatus(ctx context.Context, job Job, status Status, message string) {
	errText := sql.NullString{}
	if status == StatusError {
		errText = sql.NullString{String: message, Valid: true}
	}
	if err := o.jobs.UpdateAnalysisJobStatus(ctx, database.UpdateAnalysisJobStatusParams{
		Status: string(status),
		Error:  errText,
		ID:     job.ID,
	}); err != nil {
		o.log.Error("failed to update job status", "job_id", job.ID, "status", status, "error", err)
	}
	if o.publisher == nil {
		return
	}
	update := Update{
		JobID:     job.ID,
		UserKey:   job.UserKey,
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err := o.publisher.Publish(update); err != nil {
		o.log.Error("failed to publish update", "job_id", job.ID, "status", status, "error", err)
	}
}
