package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	itemdom "drip/internal/domain/item"
)

var (
	ErrNoImages       = errors.New("listing_uc: at least one image is required")
	ErrInvalidInput   = errors.New("listing_uc: invalid input")
	ErrUpload         = errors.New("listing_uc: image upload failed")
	ErrPersist        = errors.New("listing_uc: persist failed")
	ErrClassification = errors.New("listing_uc: classification failed")
)

// ImageStore is the blob-store outbound port.
// UploadItemImage writes one JPEG payload for the given slot index and
// returns its addressable URL.
type ImageStore interface {
	UploadItemImage(ctx context.Context, ownerID, itemID string, index int, data []byte) (string, error)
	DeleteItemImages(ctx context.Context, ownerID, itemID string) error
}

// Classifier is the AI enrichment outbound port.
type Classifier interface {
	Classify(ctx context.Context, imageURLs []string) (itemdom.Attributes, error)
}

// ListingUsecase drives the listing submission pipeline:
// validate -> materialize draft -> upload images -> persist draft ->
// classify -> merge & finalize.
type ListingUsecase struct {
	repo       itemdom.Repository
	images     ImageStore
	classifier Classifier
	now        func() time.Time
	newID      func() string
}

func NewListingUsecase(repo itemdom.Repository, images ImageStore, classifier Classifier) *ListingUsecase {
	return &ListingUsecase{
		repo:       repo,
		images:     images,
		classifier: classifier,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// SubmitInput carries the caller's draft.
// Images are raw JPEG payloads ordered by slot index (front/tag/back/detail);
// nil slots are skipped but keep their index in the storage path.
type SubmitInput struct {
	OwnerID    string
	Price      string
	ParcelSize string
	Images     [][]byte
}

// Submit runs the whole pipeline and returns the finalized item.
//
// Image uploads fan out concurrently and join on all of them; a single
// failure fails the submission (already-completed uploads are not rolled
// back — orphaned blobs are a known gap). The final imageUrls order follows
// slot index, never upload completion order.
//
// If classification fails, the persisted draft stays addressable with
// isLoading=true so the caller can inspect or retry it.
func (uc *ListingUsecase) Submit(ctx context.Context, in SubmitInput) (*itemdom.Item, error) {
	count := 0
	for _, img := range in.Images {
		if img != nil {
			count++
		}
	}
	if count == 0 {
		return nil, ErrNoImages
	}

	draft, err := itemdom.NewDraft(uc.newID(), in.OwnerID, in.Price, in.ParcelSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	urls, err := uc.uploadAll(ctx, draft.OwnerID, draft.ID, in.Images)
	if err != nil {
		return nil, err
	}
	draft.ImageURLs = urls

	if err := uc.repo.Upsert(ctx, draft); err != nil {
		return nil, fmt.Errorf("%w: draft %s: %v", ErrPersist, draft.ID, err)
	}
	log.Printf("[listing_uc] draft persisted id=%s owner=%s images=%d", draft.ID, draft.OwnerID, len(urls))

	attrs, err := uc.classifier.Classify(ctx, draft.ImageURLs)
	if err != nil {
		// Draft stays in isLoading=true; it can be retried against the same id.
		return nil, fmt.Errorf("%w: item %s: %v", ErrClassification, draft.ID, err)
	}

	draft.ApplyAttributes(attrs)
	draft.IsLoading = false
	if err := uc.repo.Upsert(ctx, draft); err != nil {
		return nil, fmt.Errorf("%w: final %s: %v", ErrPersist, draft.ID, err)
	}
	log.Printf("[listing_uc] listing finalized id=%s", draft.ID)

	return draft, nil
}

// uploadAll uploads every non-nil slot concurrently and returns the URLs in
// slot order. Each goroutine writes only its own index, so the pre-sized
// slice needs no extra locking.
func (uc *ListingUsecase) uploadAll(ctx context.Context, ownerID, itemID string, images [][]byte) ([]string, error) {
	slots := make([]string, len(images))

	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		if img == nil {
			continue
		}
		i, img := i, img
		g.Go(func() error {
			url, err := uc.images.UploadItemImage(gctx, ownerID, itemID, i, img)
			if err != nil {
				return fmt.Errorf("%w: slot %d: %v", ErrUpload, i, err)
			}
			slots[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(slots))
	for _, u := range slots {
		if strings.TrimSpace(u) != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}
