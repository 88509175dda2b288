package imagecache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageServer(t *testing.T, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if strings.HasSuffix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLoad_RendersAndCaches(t *testing.T) {
	srv, hits := imageServer(t, pngBytes(t, color.NRGBA{R: 255, A: 255}))
	c := New(srv.Client())
	ctx := context.Background()
	url := srv.URL + "/a.png"

	_, ok := c.Thumbnail(url, 10, 4)
	require.False(t, ok)

	s, err := c.Load(ctx, url, 10, 4)
	require.NoError(t, err)
	lines := strings.Split(s, "\n")
	require.Len(t, lines, 4)
	require.Equal(t, 10, ansi.StringWidth(lines[0]))
	require.Contains(t, s, "38;2;255;0;0")

	cached, ok := c.Thumbnail(url, 10, 4)
	require.True(t, ok)
	require.Equal(t, s, cached)

	// A different size re-renders from the decoded image without refetching.
	_, err = c.Load(ctx, url, 6, 3)
	require.NoError(t, err)
	require.EqualValues(t, 1, hits.Load())

	raw, decoded, rendered := c.Len()
	require.Equal(t, 1, raw)
	require.Equal(t, 1, decoded)
	require.Equal(t, 2, rendered)
}

func TestLoad_ConcurrentRequestsShareDownload(t *testing.T) {
	srv, hits := imageServer(t, pngBytes(t, color.NRGBA{B: 255, A: 255}))
	c := New(srv.Client())
	url := srv.URL + "/b.png"

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Load(context.Background(), url, 8, 4)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	require.LessOrEqual(t, hits.Load(), int32(8))
	_, ok := c.Thumbnail(url, 8, 4)
	require.True(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	srv, _ := imageServer(t, []byte("not an image"))
	c := New(srv.Client())

	_, err := c.Load(context.Background(), srv.URL+"/missing", 8, 4)
	require.ErrorContains(t, err, "status 404")

	_, err = c.Load(context.Background(), srv.URL+"/garbage", 8, 4)
	require.ErrorContains(t, err, "decoding")
}

func TestRenderedCacheIsBounded(t *testing.T) {
	srv, hits := imageServer(t, pngBytes(t, color.NRGBA{G: 255, A: 255}))
	c := New(srv.Client())
	url := srv.URL + "/c.png"

	for w := 4; w < 4+RenderedCapacity+10; w++ {
		_, err := c.Load(context.Background(), url, w, 2)
		require.NoError(t, err)
	}
	_, _, rendered := c.Len()
	require.Equal(t, RenderedCapacity, rendered)

	// The oldest rendering was evicted and comes back without a new download.
	_, ok := c.Thumbnail(url, 4, 2)
	require.False(t, ok)
	_, err := c.Load(context.Background(), url, 4, 2)
	require.NoError(t, err)
	require.EqualValues(t, 1, hits.Load())
}

func TestRenderANSI_EmptyImage(t *testing.T) {
	require.Equal(t, "", RenderANSI(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 4, 2))
	s := RenderANSI(image.NewNRGBA(image.Rect(0, 0, 3, 3)), 1, 1)
	require.Len(t, strings.Split(s, "\n"), 2, fmt.Sprintf("minimum size applies: %q", s))
}
