package app

import (
	"JapaneseShikhi/internal/app/server"
	"JapaneseShikhi/internal/config"
	"JapaneseShikhi/internal/delivery/http"
	"JapaneseShikhi/internal/delivery/http/controllers"
	"JapaneseShikhi/internal/service"
	"JapaneseShikhi/internal/service/course/curriculum"
	"JapaneseShikhi/internal/service/course/management"
	"JapaneseShikhi/internal/service/course/query"
	"JapaneseShikhi/internal/service/course/rating"
	"JapaneseShikhi/internal/service/enrollment"
	"JapaneseShikhi/internal/service/identity"
	"JapaneseShikhi/internal/service/message"
	"JapaneseShikhi/internal/service/progress"
	"JapaneseShikhi/internal/service/reconcile"
	"JapaneseShikhi/internal/service/upload"
	"JapaneseShikhi/internal/service/videocall"
	"JapaneseShikhi/internal/storage/elastic"
	"JapaneseShikhi/internal/storage/minio_storage"
	"JapaneseShikhi/internal/storage/postgres"
	"JapaneseShikhi/pkg/logger"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const filesURLPrefix = "/v1/files"

func Run(cfg *config.Config) {

	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()
	if err := pg.Migrate(ctx); err != nil {
		log.FatalErr("error applying schema", err)
	}

	esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		log.FatalErr("error connecting to elasticsearch", err)
	}
	searchRepo := elastic.NewCourseSearchRepository(esClient, cfg.ES.Index)
	if err := searchRepo.CreateIndexIfNotExist(ctx); err != nil {
		log.FatalErr("error creating search index", err)
	}

	minioClient, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	uploadStorage, err := minio_storage.NewUploadStorage(ctx, minioClient, cfg.Minio.Bucket, cfg.Minio.PresignTTL)
	if err != nil {
		log.FatalErr("error preparing upload bucket", err)
	}

	courseRepo := postgres.NewCoursePostgres(pg.Pool)
	userRepo := postgres.NewUserPostgres(pg.Pool)
	enrollmentRepo := postgres.NewEnrollmentPostgres(pg.Pool)
	ratingRepo := postgres.NewCourseRatingPostgres(pg.Pool)
	messageRepo := postgres.NewMessagePostgres(pg.Pool)
	reconcileRepo := postgres.NewReconcilePostgres(pg.Pool)

	verifier := identity.NewVerifier(cfg.Identity.SecretKey, cfg.Identity.Issuer, cfg.Identity.AdminRole)
	retry := enrollment.RetryPolicy{
		Attempts:        cfg.Enrollment.RetryAttempts,
		InitialInterval: cfg.Enrollment.InitialBackoff,
		MaxInterval:     cfg.Enrollment.MaxBackoff,
	}
	reconciler := reconcile.NewReconciler(log.With("component", "reconciler"), reconcileRepo, enrollmentRepo, userRepo)

	u := service.Collection{
		IdentityService:         identity.NewIdentityService(log, verifier, userRepo),
		CourseManagementService: management.NewCourseManagementService(log, courseRepo, searchRepo),
		CourseQueryService:      query.NewCourseQueryService(log, courseRepo, enrollmentRepo, searchRepo),
		CurriculumService:       curriculum.NewCurriculumService(log, courseRepo),
		CourseRatingService:     rating.NewCourseRatingService(log, courseRepo, enrollmentRepo, ratingRepo),
		EnrollmentService:       enrollment.NewEnrollmentService(log.With("component", "enrollment"), enrollmentRepo, courseRepo, userRepo, reconcileRepo, retry),
		ProgressService:         progress.NewProgressService(log, userRepo),
		MessageService:          message.NewMessageService(log, messageRepo, userRepo),
		VideoCallService:        videocall.NewVideoCallService(log, cfg.VideoCall.APIKey, cfg.VideoCall.APISecret, cfg.VideoCall.TokenTTL),
		UploadService:           upload.NewUploadService(log, uploadStorage, filesURLPrefix),
		Reconciler:              reconciler,
	}

	if err := reconciler.Start(cfg.Reconcile.Schedule); err != nil {
		log.FatalErr("error starting reconciler", err)
	}
	defer reconciler.Stop()

	checks := map[string]controllers.HealthCheck{
		"postgres":      pg.Pool.Ping,
		"elasticsearch": searchRepo.Ping,
		"minio":         uploadStorage.Ping,
	}
	r := http.InitRoutes(log, u, cfg.HTTPServer.AllowOrigins, checks)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	log.Info("http server started", "address", cfg.HTTPServer.Address)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("http server stopped", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("error shutting down http server", err)
	}
}
