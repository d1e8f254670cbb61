package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"stressorleads/internal/config"
	"stressorleads/internal/database"
	"stressorleads/internal/domain/upload"
	"stressorleads/internal/pkg/logger"
)

// upload_audit lists uploads that have been processing longer than
// STALE_UPLOAD_AFTER. It only reports; status is never changed here.
func main() {
	age := flag.Duration("age", 0, "override STALE_UPLOAD_AFTER")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *age <= 0 {
		*age = cfg.StaleUploadAfter
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stale, err := upload.NewRepository(db).ListStale(ctx, time.Now().Add(-*age))
	if err != nil {
		log.Fatal("list stale uploads failed", "error", err)
	}

	for _, u := range stale {
		log.Warn("upload stuck in processing",
			"upload_id", u.ID,
			"dealer_id", u.DealerID,
			"filename", u.Filename,
			"uploaded_at", u.UploadedAt,
			"age", time.Since(u.UploadedAt).Round(time.Second),
		)
	}
	log.Info("upload audit completed", "stale", len(stale), "older_than", age.String())
}
