package notify

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"stressorleads/internal/domain/dealer"
	"stressorleads/internal/domain/upload"
	"stressorleads/internal/pkg/logger"
	"stressorleads/internal/pkg/utils"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type DealerLookup interface {
	GetByID(ctx context.Context, id int64) (*dealer.Dealer, error)
}

// Mailer emails the owning dealer when an upload finishes. Failures are
// logged and never surface to the job.
type Mailer struct {
	cfg     SMTPConfig
	dealers DealerLookup
	log     *logger.Logger
	send    func(ctx context.Context, msg *gomail.Msg) error
}

func NewMailer(cfg SMTPConfig, dealers DealerLookup, log *logger.Logger) *Mailer {
	m := &Mailer{cfg: cfg, dealers: dealers, log: log}
	m.send = m.dialAndSend
	return m
}

func (m *Mailer) UploadFinished(ctx context.Context, u *upload.Upload) {
	d, err := m.dealers.GetByID(ctx, u.DealerID)
	if err != nil {
		m.log.Warn("upload mail skipped: dealer lookup failed", "upload_id", u.ID, "dealer_id", u.DealerID, "error", err)
		return
	}

	msg, err := m.message(d, u)
	if err != nil {
		m.log.Warn("upload mail skipped", "upload_id", u.ID, "error", err)
		return
	}

	if err := m.send(ctx, msg); err != nil {
		m.log.Error("failed to send upload mail", "upload_id", u.ID, "to", d.Email, "error", err)
		return
	}
	m.log.Info("upload mail sent", "upload_id", u.ID, "to", d.Email)
}

func (m *Mailer) message(d *dealer.Dealer, u *upload.Upload) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.AddToFormat(d.Name, d.Email); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(Subject(u))
	msg.SetBodyString(gomail.TypeTextPlain, Body(d.Name, u))
	return msg, nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp", addr)
		}),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func Subject(u *upload.Upload) string {
	if u.Status == upload.StatusError {
		return fmt.Sprintf("Upload %s failed", u.Filename)
	}
	return fmt.Sprintf("Upload %s completed", u.Filename)
}

func Body(name string, u *upload.Upload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	if u.Status == upload.StatusError {
		fmt.Fprintf(&b, "Processing of %s stopped: %s\n", u.Filename, utils.StringValue(u.ErrorMessage))
		fmt.Fprintf(&b, "Rows read before the failure: %d, scored: %d.\n", u.RowCount, u.ProcessedCount)
		b.WriteString("Leads scored before the failure are available.\n")
	} else {
		fmt.Fprintf(&b, "Processing of %s is complete.\n", u.Filename)
		fmt.Fprintf(&b, "Rows read: %d, leads scored: %d.\n", u.RowCount, u.ProcessedCount)
	}
	return b.String()
}
