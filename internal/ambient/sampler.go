package ambient

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // Artwork decoders
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/webp"
)

// ImageLoadError reports that artwork could not be fetched or decoded.
type ImageLoadError struct {
	Ref string
	Err error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("ambient: cannot load image %q: %v", e.Ref, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}

// errEmptyImage is returned for images without any pixels.
var errEmptyImage = errors.New("image has no pixels")

// maxImageBytes bounds how much of a remote image is read.
const maxImageBytes = 16 << 20

// Sampler computes mean artwork colors. Results are memoized per reference,
// so the same cover eaten twice is only fetched once.
// A Sampler is safe for concurrent use.
type Sampler struct {
	client *http.Client

	mu    sync.RWMutex
	cache map[string]RGB
}

// NewSampler creates a sampler that fetches remote artwork with client.
// A nil client gets a default one with a 10 second timeout.
func NewSampler(client *http.Client) *Sampler {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Sampler{
		client: client,
		cache:  make(map[string]RGB),
	}
}

// Sample loads the image behind ref and returns its mean color.
// ref is an http(s) URL or a local file path.
// Failures are returned as *ImageLoadError.
func (s *Sampler) Sample(ctx context.Context, ref string) (RGB, error) {
	if c, ok := s.Cached(ref); ok {
		return c, nil
	}

	img, err := s.load(ctx, ref)
	if err != nil {
		return RGB{}, &ImageLoadError{Ref: ref, Err: err}
	}

	c, err := Average(img)
	if err != nil {
		return RGB{}, &ImageLoadError{Ref: ref, Err: err}
	}

	s.mu.Lock()
	s.cache[ref] = c
	s.mu.Unlock()

	return c, nil
}

// Cached returns a previously sampled color for ref, if any.
func (s *Sampler) Cached(ref string) (RGB, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cache[ref]
	return c, ok
}

// load fetches and decodes the image behind ref.
func (s *Sampler) load(ctx context.Context, ref string) (image.Image, error) {
	if ref == "" {
		return nil, errors.New("empty image reference")
	}

	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		f, err := os.Open(ref)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		return img, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	return img, err
}

// Average returns the arithmetic mean of every pixel's non-premultiplied
// R, G and B channels, truncated to integers.
func Average(img image.Image) (RGB, error) {
	b := img.Bounds()
	count := uint64(b.Dx()) * uint64(b.Dy())
	if b.Empty() || count == 0 {
		return RGB{}, errEmptyImage
	}

	var r, g, bl uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			r += uint64(c.R)
			g += uint64(c.G)
			bl += uint64(c.B)
		}
	}

	return RGB{
		R: uint8(r / count),
		G: uint8(g / count),
		B: uint8(bl / count),
	}, nil
}
