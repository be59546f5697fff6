package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/completion"
	ideahandler "github.com/Jamolkhon5/hackwoo/internal/ai/idea/handler"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/service"
	"github.com/Jamolkhon5/hackwoo/internal/auth"
	"github.com/Jamolkhon5/hackwoo/internal/config"
	"github.com/Jamolkhon5/hackwoo/internal/handler"
	"github.com/Jamolkhon5/hackwoo/internal/logger"
	"github.com/Jamolkhon5/hackwoo/internal/repository"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig(".env")
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Подключение к базе данных
	db, err := repository.Connect(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	repo := repository.NewRepository(db)
	if err := repo.Migrate(context.Background()); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	// Подключение к сервису auth
	authConfig, err := auth.NewConfig(".auth.env")
	if err != nil {
		log.Fatal("auth config", zap.Error(err))
	}

	var verifier auth.Verifier = auth.Static{Identity: auth.LocalIdentity}
	if authConfig.AuthAddr != "" {
		conn, err := grpc.NewClient(authConfig.AuthAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			log.Fatal("auth connection failed", zap.Error(err))
		}
		defer conn.Close()
		verifier = auth.NewClient(conn)
	} else {
		log.Warn("AUTH_ADDR is not set, all requests run as the local user")
	}

	// Модель
	completer, err := completion.New(cfg.Completion())
	if err != nil {
		log.Fatal("completion setup failed", zap.Error(err))
	}
	log.Info("completion provider", zap.String("provider", cfg.LLMProvider), zap.String("model", completer.Model()))

	assistant := service.NewIdeaAssistant(completer, log)

	// Настройка роутера
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.RequestID)
	r.Use(logger.Requests(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	ideahandler.NewIdeaAssistantHandler(assistant, log).RegisterRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier, log))
		handler.NewHandler(repo, log).RegisterRoutes(r)
	})

	// Настройка и запуск сервера
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown", zap.Error(err))
	}
	log.Info("server exiting")
}
