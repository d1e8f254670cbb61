package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"stressorleads/internal/domain/dealer"
	"stressorleads/internal/domain/upload"
	"stressorleads/internal/pkg/logger"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) UploadFinished(ctx context.Context, u *upload.Upload) {
	m.Called(u.ID)
}

type mockDealers struct {
	mock.Mock
}

func (m *mockDealers) GetByID(ctx context.Context, id int64) (*dealer.Dealer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dealer.Dealer), args.Error(1)
}

func TestFanout_CallsEveryNotifier(t *testing.T) {
	a, b := new(mockNotifier), new(mockNotifier)
	a.On("UploadFinished", int64(4)).Once()
	b.On("UploadFinished", int64(4)).Once()

	Fanout{a, nil, b}.UploadFinished(context.Background(), &upload.Upload{ID: 4})

	a.AssertExpectations(t)
	b.AssertExpectations(t)
}

func TestMailer_SendsToDealer(t *testing.T) {
	dealers := new(mockDealers)
	dealers.On("GetByID", int64(7)).Return(&dealer.Dealer{ID: 7, Name: "Main St Motors", Email: "lot@example.com"}, nil)

	m := NewMailer(SMTPConfig{From: "leads@example.com"}, dealers, logger.Nop())
	var sent *gomail.Msg
	m.send = func(ctx context.Context, msg *gomail.Msg) error {
		sent = msg
		return nil
	}

	m.UploadFinished(context.Background(), &upload.Upload{ID: 1, DealerID: 7, Filename: "march.csv", Status: upload.StatusCompleted, RowCount: 3, ProcessedCount: 2})

	require.NotNil(t, sent)
	assert.Equal(t, []string{"<leads@example.com>"}, sent.GetFromString())
	assert.Equal(t, []string{`"Main St Motors" <lot@example.com>`}, sent.GetToString())

	var buf bytes.Buffer
	_, err := sent.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Upload march.csv completed")
	assert.Contains(t, buf.String(), "leads scored: 2")
}

func TestMailer_DealerLookupFailureSkipsSend(t *testing.T) {
	dealers := new(mockDealers)
	dealers.On("GetByID", int64(7)).Return(nil, errors.New("db down"))

	m := NewMailer(SMTPConfig{From: "leads@example.com"}, dealers, logger.Nop())
	m.send = func(ctx context.Context, msg *gomail.Msg) error {
		t.Fatal("send should not be called")
		return nil
	}

	m.UploadFinished(context.Background(), &upload.Upload{ID: 1, DealerID: 7})
}

func TestSubjectAndBody_Error(t *testing.T) {
	msg := "failed to save row 2: connection reset"
	u := &upload.Upload{Filename: "a.csv", Status: upload.StatusError, RowCount: 2, ProcessedCount: 1, ErrorMessage: &msg}

	assert.Equal(t, "Upload a.csv failed", Subject(u))
	body := Body("Ann", u)
	assert.Contains(t, body, "Hi Ann,")
	assert.Contains(t, body, msg)
	assert.Contains(t, body, "Rows read before the failure: 2, scored: 1.")
}
