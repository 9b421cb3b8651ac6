package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/readypath/backend/internal/analyze"
	"github.com/readypath/backend/internal/database"
	"github.com/readypath/backend/internal/identity"
	"github.com/readypath/backend/internal/resume"
	"github.com/readypath/backend/internal/store"
)

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SyncUser creates the users row on first authenticated login. Insert-only:
// an existing row is never patched. Guests cannot sync.
func (s *Server) SyncUser(c *gin.Context) {
	subject := subjectOf(c)
	if subject == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": identity.ErrUnauthorized.Error()})
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	err := s.q.CreateUser(c.Request.Context(), database.CreateUserParams{
		UserKey: subject,
		Email:   req.Email,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "synced"})
}

func (s *Server) GetMe(c *gin.Context) {
	subject := subjectOf(c)
	if subject == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": identity.ErrUnauthorized.Error()})
		return
	}
	user, err := s.q.GetUserByKey(c.Request.Context(), subject)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// NewGuest issues a guest identity for unauthenticated clients to store
// locally and send back on later requests.
func (s *Server) NewGuest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"guest_id": identity.NewGuestID()})
}

// saveRecord is the shared write path for all entity kinds: resolve identity
// (guest id rides in the body), then upsert the bound entity wholesale.
func saveRecord[T any](c *gin.Context, st *store.Store[T]) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return
	}
	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	var meta struct {
		GuestID string `json:"guest_id"`
	}
	_ = json.Unmarshal(body, &meta)

	userKey, err := identity.Resolve(subjectOf(c), meta.GuestID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err := st.Upsert(c.Request.Context(), userKey, value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// getRecord is the shared read path: an unresolvable identity or a missing
// record both answer with a null field, never an error.
func getRecord[T any](c *gin.Context, st *store.Store[T], field string) {
	userKey := identity.ResolveRead(subjectOf(c), c.Query("guest_id"))
	value, found, err := st.GetCurrent(c.Request.Context(), userKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{field: nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{field: value})
}

func (s *Server) SaveJobRole(c *gin.Context)    { saveRecord(c, s.stores.JobRoles) }
func (s *Server) GetJobRole(c *gin.Context)     { getRecord(c, s.stores.JobRoles, "jobRole") }
func (s *Server) SaveUserSkills(c *gin.Context) { saveRecord(c, s.stores.UserSkills) }
func (s *Server) GetUserSkills(c *gin.Context)  { getRecord(c, s.stores.UserSkills, "userSkills") }
func (s *Server) SaveAnalysis(c *gin.Context)   { saveRecord(c, s.stores.Analyses) }
func (s *Server) GetAnalysis(c *gin.Context)    { getRecord(c, s.stores.Analyses, "analysis") }
func (s *Server) SaveRoadmap(c *gin.Context)    { saveRecord(c, s.stores.Roadmaps) }
func (s *Server) GetRoadmap(c *gin.Context)     { getRecord(c, s.stores.Roadmaps, "roadmap") }

// UploadResume stores the file in the bucket and records it against the user
// key. One resume per user; a new upload replaces the record.
func (s *Server) UploadResume(c *gin.Context) {
	userKey, err := identity.Resolve(subjectOf(c), c.PostForm("guest_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	mime := fileHeader.Header.Get("Content-Type")
	if !resume.Supported(mime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type: " + mime})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}

	id := uuid.New()
	objectKey := "resumes/" + userKey + "/" + id.String()
	if err := s.storage.Upload(c.Request.Context(), objectKey, mime, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	err = s.q.UpsertResume(c.Request.Context(), database.UpsertResumeParams{
		ID:               id,
		UserKey:          userKey,
		OriginalFilename: fileHeader.Filename,
		Mime:             mime,
		SizeBytes:        fileHeader.Size,
		ObjectKey:        objectKey,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "uploaded", "object_key": objectKey})
}

// StartAnalyze records a fresh job for the user and enqueues it for the
// worker pool. The response carries the job id; progress arrives on the
// updates exchange and via the status endpoint.
func (s *Server) StartAnalyze(c *gin.Context) {
	var req struct {
		GuestID string `json:"guest_id"`
	}
	_ = c.ShouldBindJSON(&req)

	userKey, err := identity.Resolve(subjectOf(c), req.GuestID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	job := analyze.Job{ID: uuid.New(), UserKey: userKey}
	err = s.q.UpsertAnalysisJob(c.Request.Context(), database.UpsertAnalysisJobParams{
		ID:      job.ID,
		UserKey: job.UserKey,
		Status:  string(analyze.StatusCollecting),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := analyze.EnqueueJob(s.amqpConn, job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID})
}

func (s *Server) AnalyzeStatus(c *gin.Context) {
	userKey := identity.ResolveRead(subjectOf(c), c.Query("guest_id"))
	if userKey == "" {
		c.JSON(http.StatusOK, gin.H{"job": nil})
		return
	}
	job, err := s.q.GetAnalysisJobByUserKey(c.Request.Context(), userKey)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusOK, gin.H{"job": nil})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{
		"id":         job.ID,
		"status":     job.Status,
		"updated_at": job.UpdatedAt,
	}
	if job.Error.Valid {
		resp["error"] = job.Error.String
	}
	c.JSON(http.StatusOK, gin.H{"job": resp})
}
