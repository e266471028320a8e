package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/QuadraMap/QM-Backend/internal/config"
	"github.com/QuadraMap/QM-Backend/internal/kv"
	"github.com/QuadraMap/QM-Backend/internal/quadra"
)

// Imports a GeoJSON feature collection into the snapshot store, replacing
// whatever the server is currently serving. Meant for swapping in a freshly
// digitized dataset without redeploying.
func main() {
	path := flag.String("file", "", "GeoJSON feature collection to import (required)")
	flag.Parse()

	if *path == "" {
		log.Fatal("usage: import-quadras -file blocks.geojson")
	}
	if _, err := os.Stat(*path); err != nil {
		log.Fatalf("cannot read %s: %v", *path, err)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.RedisAddr == "" {
		log.Fatal("REDIS_ADDR must be set: importing into an in-memory store is pointless")
	}

	ctx := context.Background()
	store := kv.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("failed to reach redis at %s: %v", cfg.RedisAddr, err)
	}

	// Drop the old snapshot first so Load seeds from the file.
	if err := store.Delete(ctx, quadra.SnapshotKey); err != nil {
		log.Fatalf("failed to clear old snapshot: %v", err)
	}

	svc := quadra.NewService(store)
	if err := svc.Load(ctx, *path); err != nil {
		log.Fatalf("import failed: %v", err)
	}

	// Override bags for quadras that left the dataset are dead weight.
	pruned, err := svc.PruneOverrides(ctx)
	if err != nil {
		log.Fatalf("failed to prune stale overrides: %v", err)
	}
	if pruned > 0 {
		log.Printf("pruned %d stale override bags", pruned)
	}

	features, err := svc.All(ctx)
	if err != nil {
		log.Fatalf("failed to verify import: %v", err)
	}
	log.Printf("imported %d quadras from %s", len(features), *path)
}
