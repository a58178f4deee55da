package backend

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/models"
)

// eventFeed polls GET /api/events and republishes the backend's typed change
// events on a channel. The cursor makes the poll incremental: the backend
// only returns events that happened after it.
type eventFeed struct {
	client       *resty.Client
	pollInterval time.Duration
	logger       *logger.Logger

	events chan models.RemoteEvent
	cursor string
}

// eventPollResponse is the wire shape of GET /api/events.
type eventPollResponse struct {
	Events []models.RemoteEvent `json:"events"`
	Cursor string               `json:"cursor"`
}

func newEventFeed(client *resty.Client, pollInterval time.Duration, log *logger.Logger) *eventFeed {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &eventFeed{
		client:       client,
		pollInterval: pollInterval,
		logger:       log,
		events:       make(chan models.RemoteEvent, 64),
	}
}

func (f *eventFeed) start(ctx context.Context) {
	go func() {
		defer close(f.events)

		t := time.NewTicker(f.pollInterval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				f.poll(ctx)
			}
		}
	}()
}

func (f *eventFeed) poll(ctx context.Context) {
	var out eventPollResponse

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("cursor", f.cursor).
		SetResult(&out).
		Get("/api/events")
	if err != nil {
		f.logger.Debug().Err(err).Msg("event feed poll failed")
		return
	}
	if err = mapHTTPError(resp, ""); err != nil {
		f.logger.Debug().Err(err).Msg("event feed poll rejected")
		return
	}

	f.cursor = out.Cursor
	for _, ev := range out.Events {
		select {
		case f.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
