package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civicwatch/internal/db"
	"civicwatch/internal/location"
	"civicwatch/internal/reports"
	"civicwatch/internal/server"
	"civicwatch/internal/storage"
	"civicwatch/internal/store"
	"civicwatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	uploader, err := buildUploader(config, s3.NewFromConfig(awsConfig))
	if err != nil {
		return err
	}

	reportRepo := store.NewReportRepository(pool)
	reportService := reports.NewService(reportRepo, uploader, logger)

	// Populate the cache once before serving; a failure here is not fatal,
	// pages surface the load error and the service can be retried.
	if err := reportService.Load(ctx); err != nil {
		logger.WithError(err).Error("initial report load failed")
	}

	geocoder := location.NewGeocoder(config.GeocoderBaseURL, config.GeocoderAPIKey)
	resolver := location.NewResolver(geocoder, logger)

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.CognitoIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register cognito jwk with cache: %w", err)
	}

	srv, err := server.New(
		config,
		logger,
		cognitoClient,
		reportService,
		resolver,
		jwkCache,
		jwksURL,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

func buildUploader(config *types.Config, s3Client *s3.Client) (storage.Uploader, error) {
	switch config.StorageBackend {
	case "supabase":
		return storage.NewSupabaseStorage(config.SupabaseProjectID, config.SupabaseAPIKey, config.StorageBucket), nil
	case "s3":
		return storage.NewS3Storage(s3Client, config.StorageBucket, config.S3PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.StorageBackend)
	}
}
