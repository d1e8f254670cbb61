package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"stressorleads/internal/domain/lead"
	"stressorleads/internal/domain/upload"
	"stressorleads/internal/domain/vehicle"
	"stressorleads/internal/pkg/logger"
	"stressorleads/internal/scoring"
)

const abortedMessage = "processing aborted"

// Registry reads and finalizes uploads. Complete and Fail fail once the
// upload is terminal.
type Registry interface {
	Get(ctx context.Context, dealerID, id int64) (*upload.Upload, error)
	Complete(ctx context.Context, id int64, rowCount, processedCount int) (*upload.Upload, error)
	Fail(ctx context.Context, id int64, rowCount, processedCount int, message string) (*upload.Upload, error)
}

// Sink persists a vehicle and its score as one unit.
type Sink interface {
	CreateWithVehicle(ctx context.Context, v *vehicle.Vehicle, r scoring.Result) (*lead.ScoredLead, error)
}

type FileOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Notifier is told about every upload that reaches a terminal status.
type Notifier interface {
	UploadFinished(ctx context.Context, u *upload.Upload)
}

// Job ingests one stored upload: read, parse, score, persist, finalize.
type Job struct {
	registry Registry
	sink     Sink
	files    FileOpener
	notifier Notifier
	log      *logger.Logger
	region   string
	now      func() time.Time
}

func NewJob(registry Registry, sink Sink, files FileOpener, notifier Notifier, log *logger.Logger, region string) *Job {
	return &Job{
		registry: registry,
		sink:     sink,
		files:    files,
		notifier: notifier,
		log:      log,
		region:   region,
		now:      time.Now,
	}
}

type counts struct {
	rows      int
	processed int
	skipped   int
	issues    int
}

// Run drives the upload to completed or error. Caller cancellation is
// ignored once started. Ingestion failures are recorded on the upload; the
// returned error only reports a task that could not own the upload (missing,
// already terminal) or a terminal state that could not be written.
func (j *Job) Run(ctx context.Context, t Task) error {
	ctx = context.WithoutCancel(ctx)
	log := j.log.With("upload_id", t.UploadID, "dealer_id", t.DealerID)

	current, err := j.registry.Get(ctx, t.DealerID, t.UploadID)
	if err != nil {
		log.Error("failed to load upload", "error", err)
		if !errors.Is(err, upload.ErrUploadNotFound) {
			j.abort(ctx, t, log, "failed to load upload")
		}
		return fmt.Errorf("load upload %d: %w", t.UploadID, err)
	}
	if current.Status.IsTerminal() {
		log.Warn("upload already finalized, task ignored", "status", current.Status)
		return fmt.Errorf("upload %d: %w", t.UploadID, upload.ErrTerminalStatus)
	}
	log.Info("ingestion started", "key", t.StorageKey)

	var c counts
	runErr := j.ingestSafely(ctx, t, log, &c)

	var u *upload.Upload
	if runErr != nil {
		log.Error("ingestion failed", "rows", c.rows, "processed", c.processed, "error", runErr)
		u, err = j.registry.Fail(ctx, t.UploadID, c.rows, c.processed, runErr.Error())
	} else {
		u, err = j.registry.Complete(ctx, t.UploadID, c.rows, c.processed)
	}
	if err != nil {
		log.Error("failed to finalize upload", "error", err)
		return fmt.Errorf("finalize upload %d: %w", t.UploadID, err)
	}

	log.Info("ingestion finished",
		"status", u.Status,
		"rows", c.rows,
		"processed", c.processed,
		"skipped", c.skipped,
		"field_issues", c.issues,
	)

	if j.notifier != nil {
		j.notifier.UploadFinished(ctx, u)
	}
	return nil
}

// abort is a best-effort move to error for a task that could not start.
func (j *Job) abort(ctx context.Context, t Task, log *logger.Logger, reason string) {
	if _, err := j.registry.Fail(ctx, t.UploadID, 0, 0, abortedMessage+": "+reason); err != nil {
		log.Warn("failed to mark upload as error", "error", err)
	}
}

// ingestSafely turns a panic into a job failure so the upload still leaves
// processing. Counts reached before the panic are kept.
func (j *Job) ingestSafely(ctx context.Context, t Task, log *logger.Logger, c *counts) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("ingestion panic", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%s: %v", abortedMessage, r)
		}
	}()
	return j.ingest(ctx, t, log, c)
}

func (j *Job) ingest(ctx context.Context, t Task, log *logger.Logger, c *counts) error {
	rc, err := j.files.Open(ctx, t.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	today := j.now()
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV: %w", err)
		}
		c.rows++

		row, err := ParseRow(record, j.region)
		if errors.Is(err, ErrRowSkipped) {
			c.skipped++
			log.Debug("row skipped", "row", c.rows, "reason", err)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to parse row %d: %w", c.rows, err)
		}
		for _, issue := range row.Issues {
			c.issues++
			log.Warn("field treated as absent", "row", c.rows, "field", issue.Field, "value", issue.Value, "reason", issue.Reason)
		}

		v := row.Vehicle(t.UploadID, t.DealerID)
		if _, err := j.sink.CreateWithVehicle(ctx, v, scoring.Score(v, today)); err != nil {
			return fmt.Errorf("failed to save row %d: %w", c.rows, err)
		}
		c.processed++
	}
}
