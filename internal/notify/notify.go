// Package notify tells dealers that an upload has finished processing.
package notify

import (
	"context"

	"stressorleads/internal/domain/upload"
)

type Notifier interface {
	UploadFinished(ctx context.Context, u *upload.Upload)
}

// Fanout forwards to every notifier in order. Nil entries are skipped.
type Fanout []Notifier

func (f Fanout) UploadFinished(ctx context.Context, u *upload.Upload) {
	for _, n := range f {
		if n != nil {
			n.UploadFinished(ctx, u)
		}
	}
}
