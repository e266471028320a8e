package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/QuadraMap/QM-Backend/internal/auth"
	"github.com/QuadraMap/QM-Backend/internal/card"
	"github.com/QuadraMap/QM-Backend/internal/config"
	"github.com/QuadraMap/QM-Backend/internal/db"
	"github.com/QuadraMap/QM-Backend/internal/kv"
	"github.com/QuadraMap/QM-Backend/internal/middleware"
	"github.com/QuadraMap/QM-Backend/internal/quadra"
	"github.com/QuadraMap/QM-Backend/internal/worklog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db.Connect()
	auth.Init()
	card.Init()
	worklog.Init()

	var store kv.Store
	if cfg.RedisAddr != "" {
		rs := kv.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rs.Ping(ctx); err != nil {
			cancel()
			log.Fatalf("failed to reach redis at %s: %v", cfg.RedisAddr, err)
		}
		cancel()
		store = rs
		log.Printf("using redis at %s", cfg.RedisAddr)
	} else {
		store = kv.NewMemoryStore()
		log.Println("REDIS_ADDR not set, using in-memory store (data is lost on restart)")
	}

	quadras := quadra.NewService(store)
	if err := quadras.Load(context.Background(), cfg.DatasetPath); err != nil {
		log.Fatalf("failed to load quadras: %v", err)
	}

	middleware.SetAllowedOrigins(cfg.AllowedOrigins)
	fetcher := auth.SessionInfo{}
	logs := worklog.Service{}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)

	r.Mount("/auth", auth.SetupRoutes(auth.NewService(cfg.SessionTTL)))
	r.Mount("/quadras", quadra.SetupRoutes(quadra.NewHandlers(quadras, logs), fetcher))
	r.Mount("/cards", card.SetupRoutes(
		card.NewHandlers(quadras, card.NewColorGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))),
		fetcher,
	))
	r.Mount("/logs", worklog.SetupRoutes(worklog.NewHandlers(logs, cfg.CityName), fetcher))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("QuadraMap backend is running"))
	})

	log.Printf("Server running on http://localhost:%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
