package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strconv"
	"sync"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/streadway/amqp"

	"github.com/readypath/backend/internal/analyze"
	"github.com/readypath/backend/internal/database"
	"github.com/readypath/backend/internal/logger"
	"github.com/readypath/backend/internal/resume"
	"github.com/readypath/backend/internal/scoring"
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
	mlBackendURL := mustEnv(log, "ML_BACKEND_URL")
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
	resumes := resume.NewTextSource(queries, storage)

	timeout := 30 * time.Second
	if v := os.Getenv("ML_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal("invalid ML_TIMEOUT_SECONDS", "value", v)
		}
		timeout = time.Duration(secs) * time.Second
	}
	scorer := scoring.NewClient(mlBackendURL, timeout)

	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		log.Fatal("error connecting to RabbitMQ", "error", err)
	}
	defer conn.Close()
	publisher := analyze.NewAMQPPublisher(conn)

	orch := analyze.NewOrchestrator(stores, queries, scorer, resumes, publisher, log)

	numWorkers := 3
	if v := os.Getenv("NUM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatal("invalid NUM_WORKERS", "value", v)
		}
		numWorkers = n
	}
	log.Info("starting consumer worker pool", "workers", numWorkers)
	startConsumerPool(log, rabbitmqURL, orch, numWorkers)
}

func startConsumerPool(log *logger.Logger, rabbitmqURL string, orch *analyze.Orchestrator, numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go consumeJobs(log.With("worker", i+1), rabbitmqURL, orch, &wg)
	}
	wg.Wait()
}

func consumeJobs(log *logger.Logger, rabbitmqURL string, orch *analyze.Orchestrator, wg *sync.WaitGroup) {
	defer wg.Done()

	// Each worker holds its own connection so a broken channel does not take
	// the whole pool down.
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		log.Fatal("error dialling rabbitmq", "error", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error opening rabbitmq channel", "error", err)
	}
	defer ch.Close()

	if err := analyze.DeclareQueue(ch); err != nil {
		log.Fatal("failed to declare queue", "error", err)
	}

	msgs, err := ch.Consume(
		analyze.QueueName,
		"",    // consumer tag
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		log.Fatal("error consuming rabbitmq messages", "error", err)
	}

	for msg := range msgs {
		var job analyze.Job
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			log.Error("error unmarshalling job message", "error", err)
			continue
		}
		log.Info("processing analyze job", "job_id", job.ID, "user_key", job.UserKey)
		if err := orch.Run(context.Background(), job); err != nil {
			log.Error("analyze job failed", "job_id", job.ID, "error", err)
			continue
		}
		log.Info("analyze job completed", "job_id", job.ID)
	}
}

func mustEnv(log *logger.Logger, key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatal("empty " + key + " in environment")
	}
	return v
}
