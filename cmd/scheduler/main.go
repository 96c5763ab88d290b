package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/machmudeffendi/backend-assessment-test/internal/config"
	"github.com/machmudeffendi/backend-assessment-test/internal/repository"
)

func main() {
	log.Println("Starting loan scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loanRepo := repository.NewLoanRepository(db)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone: %v", err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily job reporting overdue installments. The schedule status set has
	// no overdue state, so the job is read-only: it logs and caches counts.
	_, err = c.AddFunc(cfg.Scheduler.OverdueCronSpec, func() {
		reportOverdueInstallments(loanRepo, redisClient, cfg.GetCacheTTL())
	})
	if err != nil {
		log.Fatalf("Error scheduling overdue report job: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func reportOverdueInstallments(loanRepo repository.LoanRepository, redisClient *redis.Client, ttl time.Duration) {
	log.Println("Running overdue installment report job...")

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	overdue, err := loanRepo.GetOverdueScheduledRepayments(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Failed to load overdue installments: %v", err)
		return
	}

	counts := make(map[string]int)
	for _, installment := range overdue {
		counts[installment.LoanID.String()]++
		log.Printf("Loan %s: installment due %s still %s with outstanding %d",
			installment.LoanID,
			installment.DueDate.Format("2006-01-02"),
			installment.Status,
			installment.OutstandingAmount,
		)
	}

	for loanID, count := range counts {
		key := fmt.Sprintf("loan:%s:overdue_count", loanID)
		if err := redisClient.Set(ctx, key, count, ttl).Err(); err != nil {
			log.Printf("Failed to cache overdue count for loan %s: %v", loanID, err)
		}
	}

	log.Printf("Overdue report complete: %d installments across %d loans", len(overdue), len(counts))
}
