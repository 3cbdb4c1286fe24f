package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"pricetracker/config"
	"pricetracker/database"
	"pricetracker/handlers"
	"pricetracker/middleware"
	"pricetracker/notify"
	"pricetracker/repository"
	"pricetracker/scheduler"
	"pricetracker/scraper"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.CreateTables(db, cfg.DatabaseDriver); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	repo := repository.NewProductRepository(db)
	fetcher := scraper.NewHTTPFetcher(cfg.FetchTimeout, cfg.UserAgent)
	notifier := buildNotifier(cfg)

	checker := scheduler.NewPriceChecker(repo, fetcher, notifier, cfg.CheckSchedule, cfg.ItemDelay)
	if err := checker.Start(); err != nil {
		log.Fatalf("Failed to start price checker: %v", err)
	}
	defer checker.Stop()

	h := handlers.NewHandlers(repo, checker, notifier)

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimit))

	r.HandleFunc("/health", healthCheck).Methods("GET")
	h.Register(r)

	c := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, c.Handler(r)))
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	var notifiers notify.Multi

	if cfg.SMTPHost != "" && cfg.FromEmail != "" {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg))
		log.Println("Email notifications enabled")
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("Failed to initialize telegram notifier: %v", err)
		} else {
			notifiers = append(notifiers, tg)
			log.Println("Telegram notifications enabled")
		}
	}

	if cfg.DesktopNotifications {
		notifiers = append(notifiers, notify.NewDesktopNotifier())
		log.Println("Desktop notifications enabled")
	}

	if len(notifiers) == 0 {
		log.Println("No notification channels configured, alerts will only be logged")
	}

	return notifiers
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":   "pricetracker",
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
