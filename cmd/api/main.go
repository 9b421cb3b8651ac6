package main

import (
	"context"
	"database/sql"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/streadway/amqp"

	"github.com/readypath/backend/internal/database"
	"github.com/readypath/backend/internal/logger"
	"github.com/readypath/backend/internal/resume"
	"github.com/readypath/backend/internal/server"
	"github.com/readypath/backend/internal/store"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	dbURL := mustEnv(log, "DB_URL")
	rabbitmqURL := mustEnv(log, "RABBITMQ_URL")
	r2AccountID := mustEnv(log, "R2_ACCOUNT_ID")
	r2Bucket := mustEnv(log, "R2_BUCKET")
	r2AccessKey := mustEnv(log, "R2_ACCESS_KEY")
	r2SecretKey := mustEnv(log, "R2_SECRET_KEY")

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal("error opening db", "error", err)
	}
	queries := database.New(db)
	stores := store.NewStores(queries)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2AccessKey, r2SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		log.Fatal("error creating aws config", "error", err)
	}
	storage := resume.NewStorage(awsCfg, r2AccountID, r2Bucket)

	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		log.Fatal("error connecting to RabbitMQ", "error", err)
	}
	defer conn.Close()

	srv := server.New(queries, stores, storage, conn, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("api listening", "port", port)
	if err := srv.Router().Run(":" + port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

func mustEnv(log *logger.Logger, key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatal("empty " + key + " in environment")
	}
	return v
}
