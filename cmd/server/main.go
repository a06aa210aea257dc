package main // Entry point package

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/dosebuddy/dosebuddy-server/internal/config"
	"github.com/dosebuddy/dosebuddy-server/internal/database"
	"github.com/dosebuddy/dosebuddy-server/internal/druginfo"
	"github.com/dosebuddy/dosebuddy-server/internal/handler"
	"github.com/dosebuddy/dosebuddy-server/internal/history"
	"github.com/dosebuddy/dosebuddy-server/internal/middleware"
	"github.com/dosebuddy/dosebuddy-server/internal/notify"
	"github.com/dosebuddy/dosebuddy-server/internal/queue"
	"github.com/dosebuddy/dosebuddy-server/internal/repository"
	"github.com/dosebuddy/dosebuddy-server/internal/router"
	"github.com/dosebuddy/dosebuddy-server/internal/schedule"
	queuepub "github.com/dosebuddy/dosebuddy-server/internal/service"
)

func main() {
	_ = godotenv.Load() // optional .env; real deployments set the environment directly
	cfg := config.Load()

	// Database
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Fatalf("database: %v", err)
		}
		cancel()
	}

	// Redis is optional: without it the rate limiter and the drug-label
	// cache are disabled, everything else keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and label caching disabled")
	}

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	meds := repository.NewMedicationRepo(db)
	doses := repository.NewDoseEventRepo(db)

	// Event fan-out goes through RabbitMQ only when a broker is configured.
	var reminderEvents schedule.EventPublisher
	var historyEvents history.RecordedPublisher
	if cfg.RabbitURL != "" {
		reminderEvents = queuepub.ReminderEvents{}
		historyEvents = queuepub.HistoryEvents{}
		go func() {
			if err := queue.StartReminderConsumer(); err != nil {
				log.Printf("reminder consumer stopped: %v", err)
			}
		}()
	}

	// Reminder delivery: Pushover when a token is configured, process log
	// otherwise.
	var presenter notify.Presenter = notify.LogPresenter{}
	if cfg.PushoverToken != "" {
		presenter = notify.NewPushoverPresenter(cfg.PushoverToken, users)
	}

	// Scheduling core. The cron scheduler delivers fires to the dispatcher,
	// which re-verifies the medication before presenting anything.
	recorder := history.NewRecorder(doses, historyEvents)
	defer recorder.Close()

	var dispatcher *schedule.Dispatcher
	sched := schedule.NewCronScheduler(func(p schedule.Payload, at time.Time) {
		dispatcher.HandleFire(p, at)
	})
	dispatcher = schedule.NewDispatcher(sched, meds, presenter, reminderEvents)
	sched.Start()
	defer sched.Stop()

	// Pending reminders live in memory, so rebuild them from the database on
	// every boot.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		active, err := meds.ListActive(ctx)
		cancel()
		if err != nil {
			log.Fatalf("rebuild reminders: %v", err)
		}
		total := 0
		for i := range active {
			total += dispatcher.Schedule(&active[i])
		}
		log.Printf("rebuilt %d reminder(s) for %d medication(s)", total, len(active))
	}

	// HTTP surface
	e := echo.New()
	e.HideBanner = true

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	medH := handler.NewMedicationHandler(meds, doses, dispatcher, recorder)
	remH := handler.NewReminderHandler(dispatcher, recorder, medH)
	histH := handler.NewHistoryHandler(doses, history.NewAggregator(doses), medH)
	drugH := handler.NewDrugInfoHandler(druginfo.NewClient(config.LoadDrugInfoConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
	router.RegisterMedications(e, medH, remH, cfg.JWTSecret)
	router.RegisterHistory(e, histH, cfg.JWTSecret)
	router.RegisterDrugInfo(e, drugH, cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		if err := e.Start(addr); err != nil {
			log.Printf("http server stopped: %v", err)
		}
	}()

	// Graceful shutdown: stop accepting requests, then let the deferred
	// scheduler stop and recorder drain run.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
