package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	echoapi "github.com/fieldops/authbridge/api/echo"
	"github.com/fieldops/authbridge/config"
	"github.com/fieldops/authbridge/internal/identity"
	"github.com/fieldops/authbridge/internal/server"
	"github.com/fieldops/authbridge/internal/servicelayer"
	"github.com/fieldops/authbridge/log"
	"github.com/fieldops/authbridge/mongodb"
	"github.com/fieldops/authbridge/services"
	"github.com/fieldops/authbridge/tracing"
)

func main() {
	// Fails closed: a missing signing secret or missing service layer
	// credentials aborts startup here.
	cfg, err := config.LoadConfig()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Setup(cfg.LogLevel, cfg.LogPretty)
	zlog.Info().
		Str("http_addr", cfg.HTTPAddr).
		Str("mongo_db_name", cfg.MongoDBName).
		Str("log_level", cfg.LogLevel).
		Msg("Starting authbridge server")

	tracerProvider, err := tracing.InitTracerProvider(cfg.OtelServiceName)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize TracerProvider")
	}

	ctx := context.Background()
	if err := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize MongoDB connection")
	}
	db := mongodb.GetDB()

	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize UserRepository")
	}

	verifier := identity.NewRESTVerifier(cfg.IdentityBaseURL, cfg.IdentityAPIKey, cfg.IdentityTimeout)

	sessionClient := servicelayer.NewClient(cfg.ServiceLayerBaseURL, servicelayer.Credentials{
		CompanyDB: cfg.ServiceLayerCompanyDB,
		UserName:  cfg.ServiceLayerUsername,
		Password:  cfg.ServiceLayerPassword,
	}, cfg.ServiceLayerTimeout, cfg.ServiceLayerInsecureTLS)

	tokenSigner := services.NewTokenSigner()
	tokenSigner.AddKeySigner(cfg.JWTSigningSecret)
	tokenService := services.NewTokenService(tokenSigner, cfg.OtelServiceName)

	loginService := services.NewLoginService(verifier, userRepo, sessionClient, tokenService)
	authAPI := echoapi.NewAuthAPI(loginService, tokenService)

	httpServer := server.NewHTTPServer(cfg, authAPI)
	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zlog.Info().Str("signal", sig.String()).Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("TracerProvider shutdown error")
	}
	mongodb.CloseMongoDB(shutdownCtx)

	zlog.Info().Msg("Server gracefully stopped")
}
