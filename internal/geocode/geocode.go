package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var (
	// ErrNoMatch means the service answered but found nothing for the address.
	ErrNoMatch = errors.New("geocoder: address not found")
	// ErrUnavailable covers timeouts, connection failures, throttling and 5xx answers.
	ErrUnavailable = errors.New("geocoder: service unavailable")
	// ErrSkipped is returned when geocoding is disabled by configuration.
	ErrSkipped = errors.New("geocoder: disabled")
)

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond caps outbound calls; Nominatim's policy allows one per second.
	RequestsPerSecond float64
}

// Client talks to a Nominatim-compatible /search endpoint.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	prom    *observability.Prom
}

func NewClient(cfg Config, prom *observability.Prom) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		prom:    prom,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) Geocode(ctx context.Context, address string) (coords Coordinates, err error) {
	ctx, span := observability.Tracer("geocode").Start(ctx, "geocode.search")
	defer span.End()

	start := time.Now()
	defer func() {
		c.prom.ObserveGeocode(outcome(err), time.Since(start))
		if err != nil && !errors.Is(err, ErrNoMatch) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if err = c.limiter.Wait(ctx); err != nil {
		return Coordinates{}, unavailable(err)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoder: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTransient(err) {
			return Coordinates{}, unavailable(err)
		}
		return Coordinates{}, fmt.Errorf("geocoder: request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return Coordinates{}, unavailable(fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return Coordinates{}, fmt.Errorf("geocoder: unexpected status %d", resp.StatusCode)
	}

	var results []searchResult
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		if isTransient(err) {
			return Coordinates{}, unavailable(err)
		}
		return Coordinates{}, fmt.Errorf("geocoder: decode response: %w", err)
	}

	if len(results) == 0 {
		return Coordinates{}, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoder: bad latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoder: bad longitude %q: %w", results[0].Lon, err)
	}

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

// Disabled never calls out; every lookup is ErrSkipped.
type Disabled struct {
	prom *observability.Prom
}

func NewDisabled(prom *observability.Prom) Disabled {
	return Disabled{prom: prom}
}

func (d Disabled) Geocode(context.Context, string) (Coordinates, error) {
	d.prom.ObserveGeocode("skipped", 0)
	return Coordinates{}, ErrSkipped
}

func unavailable(cause error) error {
	return &apperr.ExternalServiceError{
		Service:   "geocoder",
		Retryable: true,
		Err:       errors.Join(ErrUnavailable, cause),
	}
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoMatch):
		return "no_match"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrSkipped):
		return "skipped"
	default:
		return "error"
	}
}
