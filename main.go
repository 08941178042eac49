package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/Kariqs/storefront-api/notify"
	"github.com/Kariqs/storefront-api/routes"
	"github.com/Kariqs/storefront-api/services"
	"github.com/Kariqs/storefront-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	envErr := initializers.LoadEnv()
	cfg, err := initializers.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	log, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)
	if envErr != nil {
		log.Warn("error loading .env file", zap.Error(envErr))
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg initializers.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := initializers.ConnectToDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			log.Warn("closing store", zap.Error(err))
		}
	}()

	hub := notify.NewHub(log.Named("feed"))
	defer hub.Close()
	sinks := []notify.Sink{hub}
	if cfg.OrderWebhookURL != "" {
		sinks = append(sinks, notify.NewWebhook(cfg.OrderWebhookURL, 5*time.Second))
	}
	smtpCfg := utils.SMTPConfig{Address: cfg.SMTPAddress, Host: cfg.SMTPHost, From: cfg.FromEmail, Password: cfg.FromPassword}
	if smtpCfg.Enabled() {
		sinks = append(sinks, notify.NewMailer(stores.Users, smtpCfg, "templates/order_confirmation.html"))
	}
	notifier := notify.NewFanout(log.Named("notify"), sinks...)
	go notifier.Run()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := notifier.Close(closeCtx); err != nil {
			log.Warn("pending order notifications abandoned", zap.Error(err))
		}
	}()

	var uploader services.ImageUploader
	if cfg.S3Bucket != "" {
		s3Uploader, err := utils.NewS3Uploader(ctx, cfg.S3Bucket)
		if err != nil {
			return err
		}
		uploader = s3Uploader
	}

	auth := services.NewAuthService(stores.Users, cfg.JWTSecret, cfg.JWTTTL, log.Named("auth"))
	catalog := services.NewCatalogService(stores.Products, uploader, log.Named("catalog"))
	carts := services.NewCartService(stores.Carts, stores.Products, log.Named("cart"))
	orders := services.NewOrderService(stores.Carts, stores.Orders, stores.Users, notifier, cfg.DeliveryCharge, log.Named("order"))
	lifecycle := services.NewLifecycleService(stores.Orders, notifier, log.Named("lifecycle"))

	if err := initializers.SeedAdmin(ctx, cfg, auth, log); err != nil {
		return err
	}

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := gin.New()
	server.Use(gin.Recovery(), middlewares.RequestLogger(log.Named("http")))
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireAuth := middlewares.RequireAuth(auth)
	routes.DefaultRoutes(server)
	routes.AuthRoutes(server, auth, requireAuth)
	routes.ProductRoutes(server, catalog, requireAuth)
	routes.CartRoutes(server, carts, requireAuth)
	routes.OrderRoutes(server, orders, lifecycle, hub, requireAuth, middlewares.RequireAuthWS(auth))

	httpServer := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server starting", zap.String("addr", httpServer.Addr), zap.String("db", cfg.DBDriver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
