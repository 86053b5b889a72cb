// Package media turns picked images into stored avatar refs and back:
// resize, JPEG encode, upload to the blob store, and fetch+decode from a
// blob key, a URL or an inline base64 ref.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/logging"
	"github.com/dmitrijs2005/ele/internal/netx"
)

const (
	DefaultSize    = 300
	DefaultQuality = 60
	ContentType    = "image/jpeg"
)

var ErrEmptyRef = errors.New("empty image ref")

// BlobStore is the object storage the pipeline uploads to.
type BlobStore interface {
	PutObject(ctx context.Context, path string, data []byte, contentType string) error
	DownloadURL(ctx context.Context, path string) (string, error)
}

type Pipeline struct {
	blobs      BlobStore
	httpClient *http.Client
	size       int
	quality    int
	logger     logging.Logger
}

// NewPipeline falls back to DefaultSize and DefaultQuality for
// non-positive values.
func NewPipeline(blobs BlobStore, httpClient *http.Client, size, quality int, l logging.Logger) *Pipeline {
	if size <= 0 {
		size = DefaultSize
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Pipeline{blobs: blobs, httpClient: httpClient, size: size, quality: quality, logger: l.With("module", "media")}
}

// Resize scales img to exactly w×h. The aspect ratio is not preserved.
func Resize(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode accepts JPEG, PNG and WebP.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// IsBlobKey reports whether ref is an object storage key. '_' is outside the
// base64 alphabet, so a key never reads as an inline image.
func IsBlobKey(ref string) bool {
	return strings.HasPrefix(ref, common.ProfileImagesPrefix)
}

// NormalizeRef turns a presigned avatar URL saved by older clients back into
// its blob key. Other refs are returned unchanged.
func NormalizeRef(ref string) string {
	if !IsURL(ref) {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	i := strings.Index(u.Path, "/"+common.ProfileImagesPrefix)
	if i < 0 || u.Query().Get("X-Amz-Signature") == "" {
		return ref
	}
	return u.Path[i+1:]
}

// Placeholder is a flat grey square shown when no avatar source resolves.
func Placeholder(size int) image.Image {
	if size <= 0 {
		size = DefaultSize
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}}, image.Point{}, draw.Src)
	return img
}

// ProfileImagePath is the blob key of uid's avatar.
func ProfileImagePath(uid string) string {
	return common.ProfileImagesPrefix + uid
}

// Prepare resizes img to the configured edge and encodes it.
func (p *Pipeline) Prepare(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no image", common.ErrorValidation)
	}
	return Encode(Resize(img, p.size, p.size), p.quality)
}

// Upload stores data under key and returns key as the ref. Download URLs
// expire, so they are presigned again on every Fetch.
func (p *Pipeline) Upload(ctx context.Context, data []byte, key string) (string, error) {
	if err := p.blobs.PutObject(ctx, key, data, ContentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// Store prepares img and uploads it as uid's avatar.
func (p *Pipeline) Store(ctx context.Context, uid string, img image.Image) (string, error) {
	data, err := p.Prepare(img)
	if err != nil {
		return "", err
	}
	ref, err := p.Upload(ctx, data, ProfileImagePath(uid))
	if err != nil {
		p.logger.Error(ctx, "avatar upload failed", "uid", uid, "error", err)
		return "", err
	}
	return ref, nil
}

// Fetch resolves ref, a blob key, an http(s) URL or inline base64, to an
// image.
func (p *Pipeline) Fetch(ctx context.Context, ref string) (image.Image, error) {
	if ref == "" {
		return nil, ErrEmptyRef
	}

	var data []byte
	switch {
	case IsBlobKey(ref):
		u, err := p.blobs.DownloadURL(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("download url %s: %w", ref, err)
		}
		b, err := netx.Download(ctx, p.httpClient, u)
		if err != nil {
			return nil, err
		}
		data = b
	case IsURL(ref):
		b, err := netx.Download(ctx, p.httpClient, ref)
		if err != nil {
			return nil, err
		}
		data = b
	default:
		b, err := base64.StdEncoding.DecodeString(ref)
		if err != nil {
			return nil, fmt.Errorf("decode inline ref: %w", err)
		}
		data = b
	}
	return Decode(data)
}

func (p *Pipeline) Size() int {
	return p.size
}
