package main

import (
	"net/http"
	"time"

	"townbasket-be/internal/address"
	"townbasket-be/internal/blob"
	"townbasket-be/internal/complaint"
	"townbasket-be/internal/config"
	"townbasket-be/internal/db"
	"townbasket-be/internal/logger"
	"townbasket-be/internal/middleware"
	"townbasket-be/internal/order"
	"townbasket-be/internal/product"
	"townbasket-be/internal/settings"
	"townbasket-be/internal/shop"
	"townbasket-be/internal/user"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	loc, err := time.LoadLocation(cfg.TownTimezone)
	if err != nil {
		logger.L().Error("failed to load town timezone, defaulting to UTC",
			zap.String("tz", cfg.TownTimezone), zap.Error(err))
		loc = time.UTC
	}

	settingsRepo := settings.NewRepository(database)
	settingsSvc := settings.NewService(settingsRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	addressRepo := address.NewRepository(database)
	addressSvc := address.NewService(addressRepo)

	shopRepo := shop.NewRepository(database)
	shopSvc := shop.NewService(shopRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, settingsSvc, loc)

	complaintRepo := complaint.NewRepository(database)
	complaintSvc := complaint.NewService(complaintRepo)

	blobStore := blob.NewClient(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	user.NewHandler(userSvc).Register(api.PathPrefix("/users").Subrouter())
	address.NewHandler(addressSvc).Register(api.PathPrefix("/users").Subrouter())
	shop.NewHandler(shopSvc).Register(api.PathPrefix("/shops").Subrouter())
	product.NewHandler(productSvc).Register(api.PathPrefix("/products").Subrouter())
	order.NewHandler(orderSvc).Register(api.PathPrefix("/orders").Subrouter())
	complaint.NewHandler(complaintSvc).Register(api.PathPrefix("/complaints").Subrouter())
	settings.NewHandler(settingsSvc).Register(api.PathPrefix("/core").Subrouter())
	blob.NewHandler(blobStore).Register(api.PathPrefix("/uploads").Subrouter())

	// Auth runs before throttling and logging so both see the caller
	// identity; request ids stay outermost so every line carries one.
	var handler http.Handler = r
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RateLimitMiddleware(handler)
	handler = middleware.NewAuth(cfg.IdentityJWTSecret)(handler)
	handler = logger.RequestIDMiddleware(handler)

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L().Info("server listening", zap.String("port", cfg.AppPort))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}
