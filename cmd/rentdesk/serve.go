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

	"rentdesk/internal/db"
	"rentdesk/internal/gateway"
	"rentdesk/internal/mail"
	"rentdesk/internal/notify"
	"rentdesk/internal/server"
	"rentdesk/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"rentdesk/internal/storage"
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
	s3Client := s3.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	stores := server.Stores{
		Users:         store.NewUserRepository(pool),
		Properties:    store.NewPropertyRepository(pool),
		Units:         store.NewUnitRepository(pool),
		Tenants:       store.NewTenantRepository(pool),
		Maintenance:   store.NewMaintenanceRepository(pool),
		Payments:      store.NewPaymentRepository(pool),
		Notifications: store.NewNotificationRepository(pool),
	}

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.CognitoIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register cognito jwk with cache: %w", err)
	}

	mailer := mail.NewSMTPMailer(config.EmailHost, config.EmailPort, config.EmailUser, config.EmailPassword)
	dispatcher := notify.NewDispatcher(mailer, config.NotifyWorkers, logger)
	defer dispatcher.Stop()

	srv := server.New(
		config,
		logger,
		stores,
		server.NewJWKSVerifier(jwkCache, jwksURL),
		cognitoClient,
		storage.NewS3Store(s3Client, config.S3BucketName, config.S3PublicURL),
		gateway.NewStripeGateway(config.StripeSecretKey),
		gateway.NewPayPalClient(config.PayPalBaseURL, config.PayPalClientID, config.PayPalClientSecret),
		gateway.NewMpesaClient(config.MpesaBaseURL, config.MpesaConsumerKey, config.MpesaConsumerSecret,
			config.MpesaShortCode, config.MpesaPasskey, config.MpesaCallbackURL),
		dispatcher,
	)

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
