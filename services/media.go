package services

import (
	"context"
	"fmt"
	"njatashiz_server/structs"

	"golang.org/x/sync/errgroup"
)

// BlobStore persists uploaded images and hands back their public URL
type BlobStore interface {
	Store(ctx context.Context, fileName string, data []byte) (string, error)
	Remove(ctx context.Context, publicURL string) error
}

// UploadError names the file that could not be stored
type UploadError struct {
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %s: %v", e.FileName, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// MergeMedia stores every non-empty upload and returns the existing references
// followed by the new ones in submission order. It never reorders.
//
// On failure it returns an *UploadError for the first file that failed
// together with the URLs that were stored anyway, so the caller can clean up.
func MergeMedia(ctx context.Context, blobs BlobStore, existing []string, uploads []structs.Upload, concurrency int) (merged []string, stored []string, err error) {
	pending := make([]structs.Upload, 0, len(uploads))
	for _, u := range uploads {
		if len(u.Data) > 0 {
			pending = append(pending, u)
		}
	}

	urls := make([]string, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, concurrency))

	for i, upload := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &UploadError{FileName: upload.Name, Err: err}
			}
			url, err := blobs.Store(gctx, upload.Name, upload.Data)
			if err != nil {
				return &UploadError{FileName: upload.Name, Err: err}
			}
			urls[i] = url
			return nil
		})
	}

	waitErr := g.Wait()

	stored = make([]string, 0, len(urls))
	for _, url := range urls {
		if url != "" {
			stored = append(stored, url)
		}
	}

	if waitErr != nil {
		return nil, stored, waitErr
	}

	merged = make([]string, 0, len(existing)+len(stored))
	merged = append(merged, existing...)
	merged = append(merged, stored...)

	return merged, stored, nil
}
