package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"stressorleads/internal/pkg/logger"
	"stressorleads/internal/storage"
)

const scheduleFailedMessage = "failed to schedule processing"

// Dispatcher hands an accepted upload to background processing.
type Dispatcher interface {
	Enqueue(ctx context.Context, uploadID, dealerID int64, storageKey string) error
}

// Service is the upload registry: intake, reads, and the terminal transitions
// written by ingestion jobs.
type Service struct {
	repo          Repository
	store         storage.Store
	dispatcher    Dispatcher
	log           *logger.Logger
	maxUploadSize int64
}

func NewService(repo Repository, store storage.Store, dispatcher Dispatcher, log *logger.Logger, maxUploadSize int64) *Service {
	return &Service{
		repo:          repo,
		store:         store,
		dispatcher:    dispatcher,
		log:           log,
		maxUploadSize: maxUploadSize,
	}
}

// SetDispatcher is used when the dispatcher depends on the service itself.
func (s *Service) SetDispatcher(d Dispatcher) {
	s.dispatcher = d
}

// Accept stores the file, records the upload as processing and dispatches
// exactly one ingestion task. It does not wait for the task.
func (s *Service) Accept(ctx context.Context, dealerID int64, filename string, r io.Reader, size int64) (*Upload, error) {
	if size <= 0 {
		return nil, ErrEmptyFile
	}
	if s.maxUploadSize > 0 && size > s.maxUploadSize {
		return nil, ErrFileTooLarge
	}

	key, err := s.store.Save(ctx, dealerID, filename, r, size)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	u := &Upload{
		DealerID: dealerID,
		Filename: filename,
		FilePath: key,
		Status:   StatusProcessing,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("failed to remove orphaned upload file", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("save upload record: %w", err)
	}

	if err := s.dispatcher.Enqueue(ctx, u.ID, dealerID, key); err != nil {
		s.log.Error("failed to dispatch ingestion", "upload_id", u.ID, "dealer_id", dealerID, "error", err)
		if _, failErr := s.Fail(context.WithoutCancel(ctx), u.ID, 0, 0, scheduleFailedMessage); failErr != nil {
			s.log.Error("failed to mark upload as error", "upload_id", u.ID, "error", failErr)
		}
		return nil, ErrScheduleFailed
	}

	s.log.Info("upload accepted", "upload_id", u.ID, "dealer_id", dealerID, "filename", filename, "size", size)
	return u, nil
}

func (s *Service) Get(ctx context.Context, dealerID, id int64) (*Upload, error) {
	return s.repo.GetForDealer(ctx, dealerID, id)
}

func (s *Service) List(ctx context.Context, dealerID int64) ([]*Upload, error) {
	return s.repo.ListByDealer(ctx, dealerID)
}

// Complete finalizes a processing upload as completed.
func (s *Service) Complete(ctx context.Context, id int64, rowCount, processedCount int) (*Upload, error) {
	return s.finalize(ctx, id, StatusCompleted, rowCount, processedCount, "")
}

// Fail finalizes a processing upload as error with message.
func (s *Service) Fail(ctx context.Context, id int64, rowCount, processedCount int, message string) (*Upload, error) {
	return s.finalize(ctx, id, StatusError, rowCount, processedCount, message)
}

func (s *Service) finalize(ctx context.Context, id int64, to Status, rowCount, processedCount int, message string) (*Upload, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.Transition(to, rowCount, processedCount, message); err != nil {
		return nil, err
	}
	if err := s.repo.Finalize(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a finished upload, its derived rows and the stored file.
func (s *Service) Delete(ctx context.Context, dealerID, id int64) error {
	u, err := s.repo.GetForDealer(ctx, dealerID, id)
	if err != nil {
		return err
	}
	if !u.Status.IsTerminal() {
		return ErrUploadInProgress
	}

	if err := s.repo.Delete(ctx, u.ID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, u.FilePath); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Warn("failed to delete stored file", "upload_id", u.ID, "key", u.FilePath, "error", err)
	}
	return nil
}

// ListStale returns uploads still processing that were created before now-age.
func (s *Service) ListStale(ctx context.Context, age time.Duration) ([]*Upload, error) {
	return s.repo.ListStale(ctx, time.Now().Add(-age))
}
