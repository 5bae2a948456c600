package pinboard

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// OpenFunc opens an image resource for probing.
type OpenFunc func(ctx context.Context, url string) (io.ReadCloser, error)

// HTTPOpener returns an OpenFunc that fetches URLs with client.
func HTTPOpener(client *http.Client) OpenFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, url string) (io.ReadCloser, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}
		return resp.Body, nil
	}
}

// DimensionCache resolves natural image sizes in the background. Results are
// keyed by URL, so a probe that finishes after its item was deleted is still
// harmless. Until a probe resolves, Natural reports a zero Size and items
// render at placeholder dimensions.
type DimensionCache struct {
	open    OpenFunc
	timeout time.Duration
	log     *log.Entry

	mu       sync.Mutex
	sizes    map[string]Size
	inflight map[string]bool
	wg       sync.WaitGroup
}

// NewDimensionCache creates a cache. A nil open disables probing: every URL
// resolves to the placeholder size.
func NewDimensionCache(open OpenFunc, logger *log.Entry) *DimensionCache {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &DimensionCache{
		open:     open,
		timeout:  10 * time.Second,
		log:      logger.WithField("component", "probe"),
		sizes:    make(map[string]Size),
		inflight: make(map[string]bool),
	}
}

// Natural returns the resolved size for url, or a zero Size.
func (c *DimensionCache) Natural(url string) Size {
	if c == nil {
		return Size{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sizes[url]
}

// Set records a size directly.
func (c *DimensionCache) Set(url string, s Size) {
	c.mu.Lock()
	c.sizes[url] = s
	c.mu.Unlock()
}

// Probe starts resolving url unless it is already known or in flight.
func (c *DimensionCache) Probe(url string) {
	if c == nil || url == "" {
		return
	}
	c.mu.Lock()
	if _, ok := c.sizes[url]; ok || c.inflight[url] {
		c.mu.Unlock()
		return
	}
	if c.open == nil {
		c.sizes[url] = Size{placeholderWidth, placeholderHeight}
		c.mu.Unlock()
		return
	}
	c.inflight[url] = true
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		size, err := c.decode(url)
		if err != nil {
			c.log.WithError(err).WithField("url", url).Warn("image probe failed, using placeholder size")
			size = Size{placeholderWidth, placeholderHeight}
		}
		c.mu.Lock()
		c.sizes[url] = size
		delete(c.inflight, url)
		c.mu.Unlock()
	}()
}

func (c *DimensionCache) decode(url string) (Size, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	rc, err := c.open(ctx, url)
	if err != nil {
		return Size{}, err
	}
	defer rc.Close()
	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return Size{}, fmt.Errorf("decode %s: %w", url, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Size{}, fmt.Errorf("decode %s: empty image", url)
	}
	return Size{float64(cfg.Width), float64(cfg.Height)}, nil
}

// Wait blocks until every started probe has finished.
func (c *DimensionCache) Wait() {
	c.wg.Wait()
}
