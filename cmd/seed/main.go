package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"stressorleads/internal/config"
	"stressorleads/internal/database"
	"stressorleads/internal/domain/dealer"
	"stressorleads/internal/domain/lead"
	"stressorleads/internal/domain/upload"
	"stressorleads/internal/ingest"
	jwtsvc "stressorleads/internal/pkg/jwt"
	"stressorleads/internal/pkg/logger"
	"stressorleads/internal/storage"
)

const (
	demoEmail    = "demo@dealer.test"
	demoPassword = "demo12345"
)

// inlineDispatcher runs the ingestion job before Accept returns.
type inlineDispatcher struct {
	job *ingest.Job
}

func (d inlineDispatcher) Enqueue(ctx context.Context, uploadID, dealerID int64, key string) error {
	return d.job.Run(ctx, ingest.Task{UploadID: uploadID, DealerID: dealerID, StorageKey: key})
}

func main() {
	rows := flag.Int("rows", 25, "number of vehicles in the generated CSV")
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

	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect failed", "error", err)
	}
	log.Info("running migrations")
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed", "error", err)
	}

	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatal("local storage failed", "error", err)
	}

	dealers := dealer.NewService(dealer.NewRepository(db), jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL))
	d, err := dealers.Register(ctx, dealer.RegisterRequest{
		Name:     "Demo Motors",
		Email:    demoEmail,
		Password: demoPassword,
		ZipCode:  "10001",
	})
	switch {
	case errors.Is(err, dealer.ErrEmailExists):
		res, loginErr := dealers.Login(ctx, dealer.LoginRequest{Email: demoEmail, Password: demoPassword})
		if loginErr != nil {
			log.Fatal("demo dealer exists but login failed", "error", loginErr)
		}
		d = res.Dealer
	case err != nil:
		log.Fatal("create demo dealer failed", "error", err)
	default:
		log.Info("demo dealer created", "email", demoEmail, "password", demoPassword)
	}

	uploads := upload.NewService(upload.NewRepository(db), store, nil, log, cfg.MaxUploadSize)
	job := ingest.NewJob(uploads, lead.NewRepository(db), store, nil, log, cfg.PhoneRegion)
	uploads.SetDispatcher(inlineDispatcher{job: job})

	data, err := sampleCSV(*rows, time.Now())
	if err != nil {
		log.Fatal("generate sample csv failed", "error", err)
	}

	u, err := uploads.Accept(ctx, d.ID, "demo_inventory.csv", bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Fatal("seed upload failed", "error", err)
	}
	u, err = uploads.Get(ctx, d.ID, u.ID)
	if err != nil {
		log.Fatal("reload upload failed", "error", err)
	}

	log.Info("seed completed",
		"dealer_id", d.ID,
		"upload_id", u.ID,
		"status", u.Status,
		"rows", u.RowCount,
		"processed", u.ProcessedCount,
	)
}

var (
	firstNames = []string{"Ann", "Bob", "Carla", "Dmitri", "Erin", "Farah", "Gus", "Hana"}
	lastNames  = []string{"Lopez", "Nguyen", "Smith", "Okafor", "Kim", "Novak"}
	zips       = []string{"10001", "60601", "94103", "73301", ""}
)

// sampleCSV spreads warranty and service dates across every scoring bracket.
// Every tenth row is deliberately short so the skip path shows up in the logs.
func sampleCSV(n int, today time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{
		"vin", "warranty_exp_date", "customer_name", "customer_phone",
		"customer_email", "customer_zip", "last_service_date",
	})

	for i := 1; i <= n; i++ {
		vin := fmt.Sprintf("1HGCM82633A%06d", i)
		if i%10 == 0 {
			_ = w.Write([]string{vin, "", ""})
			continue
		}

		first := firstNames[rand.Intn(len(firstNames))]
		last := lastNames[rand.Intn(len(lastNames))]
		warranty := today.AddDate(0, 0, rand.Intn(200)-20).Format("2006-01-02")

		service := ""
		if rand.Intn(4) > 0 {
			service = today.AddDate(0, 0, -rand.Intn(500)).Format("2006-01-02")
		}
		email := ""
		if rand.Intn(3) > 0 {
			email = fmt.Sprintf("%s.%s@example.com", first, last)
		}

		_ = w.Write([]string{
			vin,
			warranty,
			first + " " + last,
			fmt.Sprintf("(201) 555-%04d", rand.Intn(10000)),
			email,
			zips[rand.Intn(len(zips))],
			service,
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
