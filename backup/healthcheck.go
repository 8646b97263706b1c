package backup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PingTimeout bounds every monitoring request.
const PingTimeout = 10 * time.Second

// Pinger reports job lifecycle events to a healthchecks-style endpoint.
// A Pinger with an empty URL does nothing. Failures are logged, never returned.
type Pinger struct {
	URL    string
	Client *http.Client
	DryRun bool
}

// NewPinger returns a Pinger for url using a client with PingTimeout.
func NewPinger(url string, dryRun bool) *Pinger {
	return &Pinger{
		URL:    url,
		Client: &http.Client{Timeout: PingTimeout},
		DryRun: dryRun,
	}
}

// Start signals that the job has begun.
func (p *Pinger) Start(ctx context.Context) { p.ping(ctx, "/start") }

// Success signals that the job completed.
func (p *Pinger) Success(ctx context.Context) { p.ping(ctx, "") }

// Fail signals that the job is aborting.
func (p *Pinger) Fail(ctx context.Context) { p.ping(ctx, "/fail") }

func (p *Pinger) ping(ctx context.Context, suffix string) {
	if p == nil || p.URL == "" {
		return
	}
	url := strings.TrimSuffix(p.URL, "/") + suffix
	if p.DryRun {
		log.Info("Would ping: " + url)
		return
	}
	if err := p.get(ctx, url); err != nil {
		log.Warn("Healthcheck ping failed", "url", url, "error", err)
		return
	}
	log.Debug("healthcheck pinged", "url", url)
}

func (p *Pinger) get(ctx context.Context, url string) error {
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: PingTimeout}
	}
	// The ping must still go out when the job was cancelled.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
