package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fiesta/fiesta/assistant"
	"fiesta/fiesta/config"
	"fiesta/fiesta/controllers"
	"fiesta/fiesta/routes"
	"fiesta/fiesta/services/calendar"
	"fiesta/fiesta/services/llm"
	"fiesta/fiesta/sources/psql"
	"fiesta/fiesta/sources/psql/dao"
	"fiesta/fiesta/sources/storage"
	"fiesta/fiesta/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	chatDAO := dao.NewChatMessageDAO(db.DB)
	summaryDAO := dao.NewSessionSummaryDAO(db.DB)
	taskDAO := dao.NewTaskDAO(db.DB)
	eventDAO := dao.NewCalendarEventDAO(db.DB)
	integrationDAO := dao.NewCalendarIntegrationDAO(db.DB)

	store, err := storage.NewKnowledgeStore(cfg)
	if err != nil {
		logging.ErrorLogger.Error("minio connection error", zap.Error(err))
		os.Exit(1)
	}

	llmClient := llm.NewGPTClient()
	calendarProvider := calendar.NewGoogleClient(cfg.CalendarBaseURL, integrationDAO)
	strategy := assistant.NewStrategy(cfg.SessionStrategy)

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	userCtrl := controllers.NewUserController(userDAO)
	chatCtrl := controllers.NewChatController(chatDAO, summaryDAO, taskDAO, llmClient, calendarProvider, strategy)
	tasksCtrl := controllers.NewTasksController(taskDAO)
	eventsCtrl := controllers.NewEventsController(eventDAO, integrationDAO, calendarProvider)
	knowledgeCtrl := controllers.NewKnowledgeController(store)
	businessCtrl := controllers.NewBusinessController(llmClient)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/users", routes.UserRoutes(userCtrl, cfg))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl, cfg))
	r.Mount("/tasks", routes.TasksRoutes(tasksCtrl, cfg))
	r.Mount("/events", routes.EventsRoutes(eventsCtrl, cfg))
	r.Mount("/knowledge", routes.KnowledgeRoutes(knowledgeCtrl, cfg))
	r.Mount("/business", routes.BusinessRoutes(businessCtrl, cfg))

	srv := &http.Server{
		Addr:    ":8000",
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	logging.AppLogger.Info("fiesta listening", zap.String("addr", srv.Addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
