package photo

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"hourlystay/internal/domain"
)

// Uploader is the slice of the platform client the photo pipeline needs.
type Uploader interface {
	UploadImage(ctx context.Context, token string, data []byte, mimeType string) (string, error)
}

type Service struct {
	uploader Uploader
}

func NewService(uploader Uploader) *Service {
	return &Service{uploader: uploader}
}

// File is one member of an upload batch.
type File struct {
	Data     []byte
	MimeType string
}

// UploadBatch compresses and uploads a batch of photos and returns the
// gallery with the new URLs appended in the original file order.
//
// The batch is atomic both ways: if the total would exceed the cap, nothing
// uploads (the owner is told the limit instead of getting a silent partial
// gallery); if any single upload fails, the whole batch is reported failed
// and the gallery stays as it was.
func (s *Service) UploadBatch(ctx context.Context, token string, gallery []string, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(gallery)+len(files) > domain.MaxRoomPhotos {
		return nil, fmt.Errorf("%w (уже %d, добавляется %d)", ErrTooManyPhotos, len(gallery), len(files))
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			compressed, err := Compress(f.Data)
			if err != nil {
				return err
			}
			url, err := s.uploader.UploadImage(gctx, token, compressed, "image/jpeg")
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUploadFailed, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(gallery)+len(urls))
	out = append(out, gallery...)
	out = append(out, urls...)
	return out, nil
}

// Upload compresses and uploads a single standalone image (listing cover or
// logo) and returns the hosted URL.
func (s *Service) Upload(ctx context.Context, token string, f File) (string, error) {
	compressed, err := Compress(f.Data)
	if err != nil {
		return "", err
	}
	url, err := s.uploader.UploadImage(ctx, token, compressed, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return url, nil
}

// Replace swaps the photo at index for a freshly uploaded one. The gallery is
// only touched after the new photo is safely hosted.
func (s *Service) Replace(ctx context.Context, token string, gallery []string, index int, f File) ([]string, error) {
	if index < 0 || index >= len(gallery) {
		return nil, ErrIndexRange
	}
	compressed, err := Compress(f.Data)
	if err != nil {
		return nil, err
	}
	url, err := s.uploader.UploadImage(ctx, token, compressed, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	out := append([]string(nil), gallery...)
	out[index] = url
	return out, nil
}

// Remove deletes the photo at index.
func Remove(gallery []string, index int) ([]string, error) {
	if index < 0 || index >= len(gallery) {
		return nil, ErrIndexRange
	}
	out := append([]string(nil), gallery...)
	return append(out[:index], out[index+1:]...), nil
}

// Move relocates a photo from one position to another, shifting neighbours.
func Move(gallery []string, from, to int) ([]string, error) {
	if from < 0 || from >= len(gallery) || to < 0 || to >= len(gallery) {
		return nil, ErrIndexRange
	}
	out := append([]string(nil), gallery...)
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]string{item}, out[to:]...)...)
	return out, nil
}

// DragOver implements live drag reordering: the dragged photo is spliced out
// and reinserted at the hovered slot on every drag-over event, so the gallery
// previews its final order while the drag is still in flight. Returns the
// dragged photo's new index for the next event.
func DragOver(gallery []string, dragIndex, overIndex int) ([]string, int, error) {
	if dragIndex == overIndex {
		return gallery, dragIndex, nil
	}
	out, err := Move(gallery, dragIndex, overIndex)
	if err != nil {
		return nil, 0, err
	}
	return out, overIndex, nil
}
