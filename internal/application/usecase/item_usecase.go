package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	itemdom "drip/internal/domain/item"
)

var ErrItemInvalidArgument = errors.New("item_uc: invalid argument")

// KeywordExtractor derives concise search keywords from a free-text query.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, query string) ([]string, error)
}

// ItemUsecase covers catalog reads plus owner-scoped update and delete.
type ItemUsecase struct {
	repo     itemdom.Repository
	images   ImageStore
	keywords KeywordExtractor
}

func NewItemUsecase(repo itemdom.Repository, images ImageStore, keywords KeywordExtractor) *ItemUsecase {
	return &ItemUsecase{repo: repo, images: images, keywords: keywords}
}

func (uc *ItemUsecase) Get(ctx context.Context, id string) (*itemdom.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrItemInvalidArgument
	}
	return uc.repo.GetByID(ctx, id)
}

// ListCatalog returns all finalized listings; drafts (isLoading=true) are
// not visible to buyers.
func (uc *ItemUsecase) ListCatalog(ctx context.Context) ([]itemdom.Item, error) {
	all, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]itemdom.Item, 0, len(all))
	for _, it := range all {
		if it.IsLoading {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// ListByOwner returns everything the owner has, drafts included, so a
// seller can see (and retry or discard) a stuck submission.
func (uc *ItemUsecase) ListByOwner(ctx context.Context, ownerID string) ([]itemdom.Item, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrItemInvalidArgument
	}
	return uc.repo.ListByOwner(ctx, ownerID)
}

// Search filters the catalog by keywords extracted from the query.
// If extraction fails we fall back to splitting the raw query, so search
// degrades instead of breaking.
func (uc *ItemUsecase) Search(ctx context.Context, query string) ([]itemdom.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return uc.ListCatalog(ctx)
	}

	var keywords []string
	if uc.keywords != nil {
		kw, err := uc.keywords.ExtractKeywords(ctx, query)
		if err != nil {
			log.Printf("[item_uc] WARN: keyword extraction failed, using raw query: %v", err)
		} else {
			keywords = kw
		}
	}
	if len(keywords) == 0 {
		keywords = strings.Fields(query)
	}

	catalog, err := uc.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]itemdom.Item, 0, len(catalog))
	for _, it := range catalog {
		if matchesAny(it, keywords) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Update overwrites the full document; only the owner may update and the
// identity fields cannot be reassigned.
func (uc *ItemUsecase) Update(ctx context.Context, ownerID string, it *itemdom.Item) (*itemdom.Item, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" || it == nil || strings.TrimSpace(it.ID) == "" {
		return nil, ErrItemInvalidArgument
	}

	current, err := uc.repo.GetByID(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: item %s", itemdom.ErrPermissionDenied, it.ID)
	}

	it.OwnerID = current.OwnerID
	if err := uc.repo.Upsert(ctx, it); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPersist, it.ID, err)
	}
	return it, nil
}

// Delete removes the document after an ownership check, then best-effort
// deletes the item's blobs. Blob cleanup problems are logged, not fatal:
// the document is already gone and the listing no longer resolves.
func (uc *ItemUsecase) Delete(ctx context.Context, ownerID, itemID string) error {
	ownerID = strings.TrimSpace(ownerID)
	itemID = strings.TrimSpace(itemID)
	if ownerID == "" || itemID == "" {
		return ErrItemInvalidArgument
	}

	current, err := uc.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if current.OwnerID != ownerID {
		return fmt.Errorf("%w: item %s", itemdom.ErrPermissionDenied, itemID)
	}

	if err := uc.repo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrPersist, itemID, err)
	}

	if err := uc.images.DeleteItemImages(ctx, ownerID, itemID); err != nil {
		log.Printf("[item_uc] WARN: image cleanup failed item=%s err=%v", itemID, err)
	}
	log.Printf("[item_uc] item deleted id=%s owner=%s", itemID, ownerID)
	return nil
}

func matchesAny(it itemdom.Item, keywords []string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		it.Description, it.Brand, it.Category, it.Subcategory,
		it.Color, it.Gender, it.Condition, it.Age,
		strings.Join(it.Style, " "),
	}, " "))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
