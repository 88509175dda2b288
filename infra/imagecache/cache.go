package imagecache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// Cache capacities.
const (
	RawCapacity      = 200
	DecodedCapacity  = 100
	RenderedCapacity = 50

	maxImageBytes = 4 << 20
)

type renderKey struct {
	url  string
	w, h int
}

// Cache fetches images and keeps bounded LRU caches of the raw bytes,
// the decoded images and the rendered terminal thumbnails. Evicted entries
// are simply fetched or rendered again on the next request.
// It is safe for concurrent use.
type Cache struct {
	raw      *lru.Cache[string, []byte]
	decoded  *lru.Cache[string, image.Image]
	rendered *lru.Cache[renderKey, string]
	group    singleflight.Group
	http     *http.Client
}

// New creates a Cache. A nil client gets a default with a short timeout.
func New(client *http.Client) *Cache {
	if client == nil {
		client = &http.Client{Timeout: 6 * time.Second}
	}
	// lru.New only fails for non-positive sizes.
	raw, _ := lru.New[string, []byte](RawCapacity)
	decoded, _ := lru.New[string, image.Image](DecodedCapacity)
	rendered, _ := lru.New[renderKey, string](RenderedCapacity)
	return &Cache{raw: raw, decoded: decoded, rendered: rendered, http: client}
}

// Thumbnail returns a previously rendered thumbnail without doing any I/O.
func (c *Cache) Thumbnail(url string, w, h int) (string, bool) {
	return c.rendered.Get(renderKey{url: url, w: w, h: h})
}

// Load returns the thumbnail for url rendered at w columns by h rows,
// fetching and decoding the image as needed. Concurrent loads of the same
// url share a single download.
func (c *Cache) Load(ctx context.Context, url string, w, h int) (string, error) {
	key := renderKey{url: url, w: w, h: h}
	if s, ok := c.rendered.Get(key); ok {
		return s, nil
	}
	img, err := c.image(ctx, url)
	if err != nil {
		return "", err
	}
	s := RenderANSI(img, w, h)
	c.rendered.Add(key, s)
	return s, nil
}

func (c *Cache) image(ctx context.Context, url string) (image.Image, error) {
	if img, ok := c.decoded.Get(url); ok {
		return img, nil
	}
	data, err := c.bytes(ctx, url)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", url, err)
	}
	c.decoded.Add(url, img)
	return img, nil
}

func (c *Cache) bytes(ctx context.Context, url string) ([]byte, error) {
	if data, ok := c.raw.Get(url); ok {
		return data, nil
	}
	v, err, _ := c.group.Do(url, func() (any, error) {
		data, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		c.raw.Add(url, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating image request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	slog.Debug("image fetched", "url", url, "bytes", len(data))
	return data, nil
}

// Len reports the number of entries in each cache level.
func (c *Cache) Len() (raw, decoded, rendered int) {
	return c.raw.Len(), c.decoded.Len(), c.rendered.Len()
}
