package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/beforetheshoes/traveling-snails/internal/config"
	"github.com/beforetheshoes/traveling-snails/internal/logger"
	"github.com/beforetheshoes/traveling-snails/models"
)

type HTTPRemoteBackend struct {
	client *resty.Client
	logger *logger.Logger

	feed *eventFeed
}

// NewHTTPRemoteBackend constructs an HTTP/REST implementation of
// [RemoteBackend]. It normalises and validates the base URL from
// cfg.HTTPAddress and configures the underlying client with the resolved
// base URL and request timeout. The event feed is idle until Start is
// called.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPRemoteBackend(cfg config.Backend, log *logger.Logger) (*HTTPRemoteBackend, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid backend http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	b := &HTTPRemoteBackend{client: client, logger: log}
	b.feed = newEventFeed(client, cfg.EventPollInterval, log)

	return b, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// accountStatusResponse is the wire shape of GET /api/account/status.
type accountStatusResponse struct {
	Status string `json:"status"`
}

// AccountStatus implements [RemoteBackend]. Transport failures report
// AccountStatusUnknown together with the error so callers can distinguish
// "no account" from "could not ask".
func (b *HTTPRemoteBackend) AccountStatus(ctx context.Context) (models.AccountStatus, error) {
	var out accountStatusResponse

	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/account/status")
	if err != nil {
		return models.AccountStatusUnknown, fmt.Errorf("%w: account status request: %s", ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, ""); err != nil {
		return models.AccountStatusUnknown, err
	}

	switch out.Status {
	case "available":
		return models.AccountStatusAvailable, nil
	case "noAccount":
		return models.AccountStatusNoAccount, nil
	case "restricted":
		return models.AccountStatusRestricted, nil
	case "temporarilyUnavailable":
		return models.AccountStatusTemporarilyUnavailable, nil
	default:
		return models.AccountStatusUnknown, nil
	}
}

// ZoneExists implements [RemoteBackend] via GET /api/zones/{name}; a 404
// means the zone has not been provisioned yet and is not an error.
func (b *HTTPRemoteBackend) ZoneExists(ctx context.Context, zone models.ZoneID) (bool, error) {
	resp, err := b.client.R().
		SetContext(ctx).
		Get("/api/zones/" + url.PathEscape(zone.Name))
	if err != nil {
		return false, fmt.Errorf("%w: zone exists request: %s", ErrNetworkUnavailable, err)
	}

	if resp.StatusCode() == 404 {
		return false, nil
	}
	if err = mapHTTPError(resp, "zone"); err != nil {
		return false, err
	}
	return true, nil
}

// CreateZone implements [RemoteBackend] via POST /api/zones. A 409 from a
// concurrent provisioner means the zone exists, which is the desired state.
func (b *HTTPRemoteBackend) CreateZone(ctx context.Context, zone models.ZoneID) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(zone).
		Post("/api/zones")
	if err != nil {
		return fmt.Errorf("%w: create zone request: %s", ErrNetworkUnavailable, err)
	}

	if resp.StatusCode() == 409 {
		return nil
	}
	return mapHTTPError(resp, "zone")
}

// SaveRecord implements [RemoteBackend] via POST /api/records.
func (b *HTTPRemoteBackend) SaveRecord(ctx context.Context, rec models.RemoteRecord) (models.RemoteRecord, error) {
	var out models.RemoteRecord

	resp, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(rec).
		SetResult(&out).
		Post("/api/records")
	if err != nil {
		return models.RemoteRecord{}, fmt.Errorf("%w: save record request: %s", ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, "record"); err != nil {
		return models.RemoteRecord{}, err
	}

	return out, nil
}

// atomicSaveRequest is the wire shape of POST /api/records/atomic.
type atomicSaveRequest struct {
	Records []models.RemoteRecord `json:"records"`
}

type atomicSaveResponse struct {
	Records []models.RemoteRecord `json:"records"`
}

// SaveRecordsAtomic implements [RemoteBackend] via POST /api/records/atomic.
// The backend persists all records or none.
func (b *HTTPRemoteBackend) SaveRecordsAtomic(ctx context.Context, recs []models.RemoteRecord) ([]models.RemoteRecord, error) {
	var out atomicSaveResponse

	resp, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(atomicSaveRequest{Records: recs}).
		SetResult(&out).
		Post("/api/records/atomic")
	if err != nil {
		return nil, fmt.Errorf("%w: atomic save request: %s", ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, "record"); err != nil {
		return nil, err
	}

	return out.Records, nil
}

// FetchRecord implements [RemoteBackend] via GET /api/records/{zone}/{name}.
func (b *HTTPRemoteBackend) FetchRecord(ctx context.Context, id models.RecordID) (models.RemoteRecord, error) {
	var out models.RemoteRecord

	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get(recordPath(id))
	if err != nil {
		return models.RemoteRecord{}, fmt.Errorf("%w: fetch record request: %s", ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, "record"); err != nil {
		return models.RemoteRecord{}, err
	}

	return out, nil
}

// DeleteRecord implements [RemoteBackend] via DELETE /api/records/{zone}/{name}.
func (b *HTTPRemoteBackend) DeleteRecord(ctx context.Context, id models.RecordID) error {
	resp, err := b.client.R().
		SetContext(ctx).
		Delete(recordPath(id))
	if err != nil {
		return fmt.Errorf("%w: delete record request: %s", ErrNetworkUnavailable, err)
	}
	return mapHTTPError(resp, "record")
}

func recordPath(id models.RecordID) string {
	return "/api/records/" + url.PathEscape(id.Zone.Name) + "/" + url.PathEscape(id.Name)
}

// shareSaveRequest is the wire shape of POST /api/shares: the root record
// and the share travel together so the backend can persist them atomically.
type shareSaveRequest struct {
	Root  models.RemoteRecord `json:"root"`
	Share models.Share        `json:"share"`
}

// SaveShare implements [RemoteBackend] via POST /api/shares.
func (b *HTTPRemoteBackend) SaveShare(ctx context.Context, root models.RemoteRecord, share models.Share) (models.Share, error) {
	var out models.Share

	resp, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(shareSaveRequest{Root: root, Share: share}).
		SetResult(&out).
		Post("/api/shares")
	if err != nil {
		return models.Share{}, fmt.Errorf("%w: save share request: %s", ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, "share"); err != nil {
		return models.Share{}, err
	}

	return out, nil
}

// FetchShare implements [RemoteBackend] via GET /api/shares/{id}. The shared
// database view is selected with ?db=shared.
func (b *HTTPRemoteBackend) FetchShare(ctx context.Context, shareID string, db Database) (models.Share, error) {
	var out models.Share

	req := b.client.R().
		SetContext(ctx).
		SetResult(&out)
	if db == DatabaseShared {
		req.SetQueryParam("db", "shared")
	}

	resp, err := req.Get("/api/shares/" + url.PathEscape(shareID))
	if err != nil {
		return models.Share{}, fmt.Errorf("%w: fetch share request: %s", ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, "share"); err != nil {
		return models.Share{}, err
	}

	return out, nil
}

// AcceptShare implements [RemoteBackend] via POST /api/shares/accept.
func (b *HTTPRemoteBackend) AcceptShare(ctx context.Context, meta models.ShareMetadata) (models.Share, error) {
	var out models.Share

	resp, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(meta).
		SetResult(&out).
		Post("/api/shares/accept")
	if err != nil {
		return models.Share{}, fmt.Errorf("%w: accept share request: %s", ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp, "share"); err != nil {
		return models.Share{}, err
	}

	return out, nil
}

// Events implements [RemoteBackend].
func (b *HTTPRemoteBackend) Events() <-chan models.RemoteEvent {
	return b.feed.events
}

// Start launches the event-feed subscription. It returns immediately; the
// feed goroutine exits and closes the events channel when ctx is cancelled.
func (b *HTTPRemoteBackend) Start(ctx context.Context) {
	b.feed.start(ctx)
}
