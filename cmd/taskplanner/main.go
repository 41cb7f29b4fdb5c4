package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-planner/internal/api"
	"task-planner/internal/config"
	"task-planner/internal/repository"
	"task-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	categorySvc := service.NewCategoryService(categoryRepo)
	taskSvc := service.NewTaskService(taskRepo, categoryRepo)
	rollForwardSvc := service.NewRollForwardService(taskRepo)

	rollForward := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := rollForwardSvc.Run(jobCtx, time.Now())
		if err != nil {
			log.Printf("roll-forward: %v", err)
			return
		}
		log.Printf("[info] roll-forward: updated=%d skipped=%d", result.Updated, result.Skipped)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.RollForwardInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.RollForwardInterval, rollForward); err != nil {
			log.Fatalf("schedule roll-forward: %v", err)
		}
	} else {
		if _, err := scheduler.ScheduleDaily(cfg.RollForwardTime, rollForward); err != nil {
			log.Fatalf("schedule roll-forward: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Catch up once at startup so a planner that was offline over the due day
	// comes back with everything rolled forward.
	rollForward()

	server := api.NewServer(userRepo, taskSvc, categorySvc, rollForwardSvc)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("[info] task planner listening on %s", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
