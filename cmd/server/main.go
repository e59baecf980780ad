package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ekart/ekart/internal/config"
	"github.com/ekart/ekart/internal/handlers"
	"github.com/ekart/ekart/internal/middleware"
	"github.com/ekart/ekart/internal/repository"
	"github.com/ekart/ekart/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := initPostgres(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize PostgreSQL")
	}
	defer db.Close()

	dynamoClient, err := initDynamoDB(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize DynamoDB")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Endpoint,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Repositories
	sellerRepo := repository.NewSellerRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)
	productRepo := repository.NewProductRepository(db, logger)
	orderRepo := repository.NewOrderRepository(db, logger)
	bannerRepo := repository.NewBannerRepository(db, logger)
	otpRepo := repository.NewOTPRepository(dynamoClient, cfg.DynamoDB.TableName, logger)

	// Services
	hasher := service.NewSecretHasher()
	tokenService, err := service.NewTokenService(&cfg.JWT, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize token service")
	}

	authService, err := service.NewAuthService(sellerRepo, tokenService, hasher, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize auth service")
	}

	mailer := service.NewSMTPMailer(&cfg.SMTP, logger)
	otpService := service.NewOTPService(userRepo, otpRepo, hasher, mailer, &cfg.OTP, logger)
	bannerService := service.NewBannerService(bannerRepo, redisClient, logger)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authService, logger)
	accountHandlers := handlers.NewAccountHandlers(sellerRepo, userRepo, hasher, logger)
	otpHandlers := handlers.NewOTPHandlers(otpService, logger)
	productHandlers := handlers.NewProductHandlers(productRepo, logger)
	orderHandlers := handlers.NewOrderHandlers(orderRepo, productRepo, logger)
	bannerHandlers := handlers.NewBannerHandlers(bannerService, logger)

	authMiddleware := middleware.NewAuthMiddleware(authService, logger)
	router := setupRouter(authHandlers, accountHandlers, otpHandlers, productHandlers, orderHandlers, bannerHandlers, authMiddleware, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func initPostgres(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func initDynamoDB(cfg *config.Config, logger *logrus.Logger) (*dynamodb.Client, error) {
	var awsCfg aws.Config
	var err error

	if cfg.DynamoDB.Endpoint != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.DynamoDB.Region),
			awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:           cfg.DynamoDB.Endpoint,
						SigningRegion: cfg.DynamoDB.Region,
					}, nil
				})),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO())
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg)
	logger.Info("DynamoDB client initialized")
	return client, nil
}

func setupRouter(
	authHandlers *handlers.AuthHandlers,
	accountHandlers *handlers.AccountHandlers,
	otpHandlers *handlers.OTPHandlers,
	productHandlers *handlers.ProductHandlers,
	orderHandlers *handlers.OrderHandlers,
	bannerHandlers *handlers.BannerHandlers,
	authMiddleware *middleware.AuthMiddleware,
	logger *logrus.Logger,
) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.LoggingMiddleware(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "OPTIONS")

	api := router.PathPrefix("/api/v1").Subrouter()

	// Seller auth
	seller := api.PathPrefix("/seller").Subrouter()
	seller.HandleFunc("/signup", accountHandlers.SellerSignup).Methods("POST", "OPTIONS")
	seller.HandleFunc("/login", authHandlers.Login).Methods("POST", "OPTIONS")
	seller.HandleFunc("/refresh", authHandlers.Refresh).Methods("POST", "OPTIONS")

	sellerProtected := api.PathPrefix("/seller").Subrouter()
	sellerProtected.Use(authMiddleware.RequireAuth)
	sellerProtected.HandleFunc("/logout", authHandlers.Logout).Methods("POST", "OPTIONS")
	sellerProtected.HandleFunc("/me", authHandlers.Me).Methods("GET", "OPTIONS")

	// User accounts and OTP verification
	api.HandleFunc("/users/signup", accountHandlers.UserSignup).Methods("POST", "OPTIONS")
	api.HandleFunc("/users/login", accountHandlers.UserLogin).Methods("POST", "OPTIONS")

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/send-otp", otpHandlers.SendOTP).Methods("POST", "OPTIONS")
	auth.HandleFunc("/verify-otp", otpHandlers.VerifyOTP).Methods("POST", "OPTIONS")

	// Catalog
	api.HandleFunc("/products", productHandlers.ListProducts).Methods("GET", "OPTIONS")
	api.HandleFunc("/products/by-seller/{seller_id}", productHandlers.ListProductsBySeller).Methods("GET", "OPTIONS")
	api.HandleFunc("/products/{id}", productHandlers.GetProduct).Methods("GET", "OPTIONS")

	catalog := api.PathPrefix("/products").Subrouter()
	catalog.Use(authMiddleware.RequireAuth)
	catalog.HandleFunc("", productHandlers.CreateProduct).Methods("POST", "OPTIONS")
	catalog.HandleFunc("/{id}", productHandlers.UpdateProduct).Methods("PUT", "OPTIONS")
	catalog.HandleFunc("/{id}", productHandlers.DeleteProduct).Methods("DELETE", "OPTIONS")

	// Orders
	api.HandleFunc("/orders", orderHandlers.PlaceOrder).Methods("POST", "OPTIONS")
	api.HandleFunc("/orders", orderHandlers.ListOrders).Methods("GET", "OPTIONS")
	api.HandleFunc("/orders/{id}", orderHandlers.GetOrder).Methods("GET", "OPTIONS")
	api.HandleFunc("/orders/{id}/status", orderHandlers.UpdateOrderStatus).Methods("PUT", "OPTIONS")

	// Banners
	api.HandleFunc("/banners", bannerHandlers.ListBanners).Methods("GET", "OPTIONS")
	api.HandleFunc("/banners", bannerHandlers.CreateBanner).Methods("POST", "OPTIONS")
	api.HandleFunc("/banners/{id}", bannerHandlers.GetBanner).Methods("GET", "OPTIONS")
	api.HandleFunc("/banners/{id}", bannerHandlers.UpdateBanner).Methods("PUT", "OPTIONS")
	api.HandleFunc("/banners/{id}", bannerHandlers.DeleteBanner).Methods("DELETE", "OPTIONS")

	return router
}
