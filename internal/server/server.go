package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/streadway/amqp"

	"github.com/readypath/backend/internal/database"
	"github.com/readypath/backend/internal/logger"
	"github.com/readypath/backend/internal/resume"
	"github.com/readypath/backend/internal/store"
)

type Server struct {
	q        *database.Queries
	stores   *store.Stores
	storage  *resume.Storage
	amqpConn *amqp.Connection
	log      *logger.Logger
}

func New(q *database.Queries, stores *store.Stores, storage *resume.Storage, amqpConn *amqp.Connection, log *logger.Logger) *Server {
	return &Server{
		q:        q,
		stores:   stores,
		storage:  storage,
		amqpConn: amqpConn,
		log:      log.With("component", "server"),
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
	}))
	r.Use(AuthSubject())

	r.GET("/healthz", s.Healthz)

	api := r.Group("/api")
	{
		api.POST("/users/sync", s.SyncUser)
		api.GET("/users/me", s.GetMe)
		api.GET("/guest", s.NewGuest)

		api.POST("/onboarding/role", s.SaveJobRole)
		api.GET("/onboarding/role", s.GetJobRole)
		api.POST("/onboarding/skills", s.SaveUserSkills)
		api.GET("/onboarding/skills", s.GetUserSkills)

		api.POST("/analysis", s.SaveAnalysis)
		api.GET("/analysis", s.GetAnalysis)
		api.POST("/roadmap", s.SaveRoadmap)
		api.GET("/roadmap", s.GetRoadmap)

		api.POST("/resume", s.UploadResume)

		api.POST("/analyze", s.StartAnalyze)
		api.GET("/analyze/status", s.AnalyzeStatus)
	}
	return r
}
