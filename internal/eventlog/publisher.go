// Package eventlog records the events of each run in a local logbook and
// mirrors them to the record store's Log tab.
package eventlog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukerupert/chorewheel/internal/model"
)

// Mirror is the store-side log surface.
type Mirror interface {
	Append(ctx context.Context, runID string, events []model.Event) error
}

// Publisher writes events to both sinks. Either sink may be nil.
type Publisher struct {
	local  *Logbook
	mirror Mirror
}

func NewPublisher(local *Logbook, mirror Mirror) *Publisher {
	return &Publisher{local: local, mirror: mirror}
}

// Publish writes to the logbook and then the mirror. A failure in one does not
// stop the other; both failures are logged and returned joined.
func (p *Publisher) Publish(ctx context.Context, runID string, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	var localErr, mirrorErr error
	if p.local != nil {
		if localErr = p.local.Append(runID, events); localErr != nil {
			slog.Error("write local event log", "path", p.local.Path(), "error", localErr)
		}
	}
	if p.mirror != nil {
		if mirrorErr = p.mirror.Append(ctx, runID, events); mirrorErr != nil {
			slog.Error("mirror event log", "error", mirrorErr)
		}
	}
	return errors.Join(localErr, mirrorErr)
}
