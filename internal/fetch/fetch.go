// Package fetch downloads dataset archives over HTTP. The NLPR hosting is
// unreliable, so downloads are retried a few times before giving up.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultAttempts matches the original tooling's workaround for the
	// flaky download page.
	DefaultAttempts = 5

	// DefaultTimeout bounds a single download attempt. The archives are
	// hundreds of megabytes on a slow host.
	DefaultTimeout = 30 * time.Minute

	defaultRetryDelay = 2 * time.Second
)

// Config holds downloader configuration.
type Config struct {
	Attempts   int           // download attempts per archive; 0 means DefaultAttempts
	Timeout    time.Duration // per-attempt timeout; 0 means DefaultTimeout
	RetryDelay time.Duration // pause between attempts; 0 means 2s
	Client     *http.Client  // optional custom client; Timeout is applied to it
	Progress   io.Writer     // optional destination for progress lines
}

// Downloader retrieves archives to local files.
type Downloader struct {
	attempts   int
	retryDelay time.Duration
	client     *http.Client
	progress   io.Writer
}

// New creates a downloader from the config, filling in defaults.
func New(cfg Config) *Downloader {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	client.Timeout = timeout

	return &Downloader{
		attempts:   attempts,
		retryDelay: delay,
		client:     client,
		progress:   cfg.Progress,
	}
}

// Download fetches url into dest. If dest already exists the download is
// skipped. The body is written to a temporary .part file and renamed into
// place only on success, so an interrupted run never leaves a half archive
// where the extractor would find it.
func (d *Downloader) Download(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	part := dest + ".part"
	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.retryDelay):
			}
		}

		err := d.downloadOnce(ctx, url, part)
		if err == nil {
			return os.Rename(part, dest)
		}
		lastErr = err
		os.Remove(part)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.progress != nil {
			fmt.Fprintf(d.progress, "download attempt %d/%d failed: %v\n", attempt, d.attempts, err)
		}
	}
	return fmt.Errorf("download %s after %d attempts: %w", url, d.attempts, lastErr)
}

func (d *Downloader) downloadOnce(ctx context.Context, url, part string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	f, err := os.Create(part)
	if err != nil {
		return fmt.Errorf("create %s: %w", part, err)
	}

	var src io.Reader = resp.Body
	if d.progress != nil {
		src = &progressReader{
			r:     resp.Body,
			total: resp.ContentLength,
			out:   d.progress,
		}
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", part, err)
	}
	if d.progress != nil {
		fmt.Fprintln(d.progress)
	}
	return f.Close()
}

// progressReader reports progress roughly once per megabyte.
type progressReader struct {
	r        io.Reader
	total    int64 // -1 when the server did not say
	read     int64
	reported int64
	out      io.Writer
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += int64(n)
	if p.read-p.reported >= 1<<20 || (err == io.EOF && p.read != p.reported) {
		p.reported = p.read
		if p.total > 0 {
			fmt.Fprintf(p.out, "\r%d / %d bytes (%.1f%%)", p.read, p.total, float64(p.read)/float64(p.total)*100)
		} else {
			fmt.Fprintf(p.out, "\r%d bytes", p.read)
		}
	}
	return n, err
}
