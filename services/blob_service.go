package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io/fs"
	"njatashiz_server/structs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// allowedImageTypes maps accepted extensions to the content type the bytes must sniff as
var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// maxImagePixels bounds the decoded size of an upload, checked from the header before decoding
const maxImagePixels = 40_000_000

// LocalBlobStore keeps uploads in a directory that is served statically
type LocalBlobStore struct {
	logger     *gecho.Logger
	dir        string
	publicPath string
	maxWidth   uint
}

func NewLocalBlobStore(logger *gecho.Logger, cfg structs.StorageConfig) (*LocalBlobStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalBlobStore{
		logger:     logger,
		dir:        cfg.UploadDir,
		publicPath: "/" + strings.Trim(cfg.PublicPath, "/"),
		maxWidth:   cfg.MaxImageWidth,
	}, nil
}

// Dir is the directory uploads are written to
func (s *LocalBlobStore) Dir() string {
	return s.dir
}

// Store writes an image under a unique name derived from fileName and
// returns its public URL. JPEG and PNG images wider than the configured
// maximum are downscaled.
func (s *LocalBlobStore) Store(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	want, ok := allowedImageTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	if got := mimetype.Detect(data); !got.Is(want) {
		return "", fmt.Errorf("content of %s is %s, want %s", fileName, got.String(), want)
	}

	data, err := s.downscale(ext, data)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s%s", slug(strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))), uuid.NewString()[:8], ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	return path.Join(s.publicPath, name), nil
}

// Remove deletes a blob previously returned by Store. Missing blobs are ignored.
func (s *LocalBlobStore) Remove(ctx context.Context, publicURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(publicURL, s.publicPath+"/") {
		return fmt.Errorf("url %q is not managed by this store", publicURL)
	}

	err := os.Remove(filepath.Join(s.dir, path.Base(publicURL)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", publicURL, err)
	}
	return nil
}

func (s *LocalBlobStore) downscale(ext string, data []byte) ([]byte, error) {
	var decodeConfig func([]byte) (image.Config, error)
	var decode func([]byte) (image.Image, error)

	switch ext {
	case ".jpg", ".jpeg":
		decodeConfig = func(b []byte) (image.Config, error) { return jpeg.DecodeConfig(bytes.NewReader(b)) }
		decode = func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) }
	case ".png":
		decodeConfig = func(b []byte) (image.Config, error) { return png.DecodeConfig(bytes.NewReader(b)) }
		decode = func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) }
	default:
		return data, nil
	}

	cfg, err := decodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image dimensions %dx%d exceed the %d pixel limit", cfg.Width, cfg.Height, maxImagePixels)
	}
	if s.maxWidth == 0 || uint(cfg.Width) <= s.maxWidth {
		return data, nil
	}

	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	}

	resized := resize.Resize(s.maxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if ext == ".png" {
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	s.logger.Debug("Downscaled upload", gecho.Field("from_width", img.Bounds().Dx()), gecho.Field("to_width", s.maxWidth))
	return buf.Bytes(), nil
}

// slug keeps lowercase letters, digits and dashes of a file stem
func slug(stem string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(stem) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "image"
	}
	return out
}
