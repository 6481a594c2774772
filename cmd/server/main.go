package main

import (
	"context"
	"log"
	"time"

	"github.com/eklundh/tidflow/internal/api"
	"github.com/eklundh/tidflow/internal/api/controller"
	"github.com/eklundh/tidflow/internal/config"
	"github.com/eklundh/tidflow/internal/infrastructure/database"
	"github.com/eklundh/tidflow/internal/infrastructure/embedding"
	"github.com/eklundh/tidflow/internal/infrastructure/geo"
	"github.com/eklundh/tidflow/internal/infrastructure/gps"
	"github.com/eklundh/tidflow/internal/infrastructure/llm"
	"github.com/eklundh/tidflow/internal/infrastructure/vectordb"
	"github.com/eklundh/tidflow/internal/logger"
	"github.com/eklundh/tidflow/internal/repository"
	"github.com/eklundh/tidflow/internal/service"
	gpssync "github.com/eklundh/tidflow/internal/sync"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(conf.Log.Level)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("tidflow starting")

	// Infrastructure
	db, err := database.NewMySQLConnection(conf.Database.DSN, conf.Server.Mode == "debug")
	if err != nil {
		zlog.Fatal("failed to connect database", zap.Error(err))
	}

	vecClient, err := vectordb.NewQdrantClient(conf.Qdrant.Host, conf.Qdrant.Port, conf.Qdrant.CollectionName, zlog)
	if err != nil {
		zlog.Fatal("failed to init vector db", zap.Error(err))
	}
	defer vecClient.Close()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelInit()
	if err := vecClient.InitCollection(initCtx); err != nil {
		// Without the collection every suggestion would fail at runtime,
		// so refuse to start.
		zlog.Fatal("failed to init qdrant collection", zap.Error(err))
	}

	classifier := llm.NewOpenAIClassifier(conf.OpenAI.APIKey, conf.OpenAI.BaseURL, conf.OpenAI.Model)
	embedder := embedding.NewOpenAIClient(conf.Embedding.APIKey, conf.Embedding.BaseURL, conf.Embedding.Model)
	geocoder := geo.NewHTTPGeocoder(conf.Geocoding.BaseURL)
	var gpsProvider gps.Provider
	if conf.GPS.BaseURL != "" {
		gpsProvider = gps.NewClient(conf.GPS.BaseURL, conf.GPS.APIKey)
	}

	// Repositories
	userRepo := repository.NewUserRepo(db)
	employeeRepo := repository.NewEmployeeRepo(db)
	entryRepo := repository.NewTimeEntryRepo(db)
	projectRepo := repository.NewProjectRepo(db)
	journalRepo := repository.NewJournalRepo(db)
	approvalRepo := repository.NewApprovalRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	memoryRepo := vectordb.NewTripMemoryRepository(vecClient)

	// Services
	authSvc := service.NewAuthService(userRepo, employeeRepo)
	entrySvc := service.NewTimeEntryService(entryRepo, projectRepo, approvalRepo, notificationRepo, geocoder, zlog)
	journalSvc := service.NewJournalService(journalRepo, projectRepo, memoryRepo, embedder, classifier, notificationRepo, zlog)
	approvalSvc := service.NewApprovalService(approvalRepo, entryRepo, notificationRepo, zlog)
	reportSvc := service.NewReportService(entryRepo, journalRepo, projectRepo)
	notificationSvc := service.NewNotificationService(notificationRepo)

	// Background trip import
	syncCtx, cancelSync := context.WithCancel(context.Background())
	defer cancelSync()
	if gpsProvider != nil {
		worker := gpssync.NewWorker(gpsProvider, journalRepo, journalSvc, conf.GPS.SyncInterval, zlog)
		go worker.Run(syncCtx)
	} else {
		zlog.Info("gps sync disabled, no provider configured")
	}

	// HTTP
	if conf.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	api.RegisterRoutes(r,
		controller.NewAuthController(authSvc, zlog),
		controller.NewTimeEntryController(entrySvc, authSvc, zlog),
		controller.NewJournalController(journalSvc, authSvc, zlog),
		controller.NewProjectController(projectRepo, authSvc),
		controller.NewApprovalController(approvalSvc, authSvc),
		controller.NewReportController(reportSvc, authSvc, zlog),
		controller.NewNotificationController(notificationSvc, authSvc),
		controller.NewVehicleController(gpsProvider, zlog),
	)

	zlog.Info("tidflow listening", zap.String("port", conf.Server.Port))
	if err := r.Run(conf.Server.Port); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
