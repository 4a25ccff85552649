// internal/adapters/out/firestore/item_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	itemdom "drip/internal/domain/item"
)

const itemsCollection = "products"

// ItemRepositoryFS implements item.Repository using Firestore.
//
// Collection design:
// - collection: products
// - docId: item id (client-generated UUID, source of truth)
// - fields: see itemDoc (field names match the original document schema)
type ItemRepositoryFS struct {
	Client *firestore.Client
}

func NewItemRepositoryFS(client *firestore.Client) *ItemRepositoryFS {
	return &ItemRepositoryFS{Client: client}
}

func (r *ItemRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(itemsCollection)
}

func (r *ItemRepositoryFS) GetByID(ctx context.Context, id string) (*itemdom.Item, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("item_repository_fs: firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("item_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", itemdom.ErrNotFound, id)
		}
		return nil, err
	}

	var doc itemDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("item_repository_fs: decode %s: %w", id, err)
	}

	it := doc.toDomain()
	// docId is the source of truth even if the doc carries no id field.
	it.ID = id
	return it, nil
}

// Upsert overwrites the full document keyed by it.ID.
func (r *ItemRepositoryFS) Upsert(ctx context.Context, it *itemdom.Item) error {
	if r == nil || r.Client == nil {
		return errors.New("item_repository_fs: firestore client is nil")
	}
	if it == nil {
		return errors.New("item_repository_fs: item is nil")
	}
	id := strings.TrimSpace(it.ID)
	if id == "" {
		return errors.New("item_repository_fs: Upsert requires item.ID as docId")
	}

	_, err := r.col().Doc(id).Set(ctx, itemDocFromDomain(it))
	return err
}

func (r *ItemRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("item_repository_fs: firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("item_repository_fs: id is empty")
	}

	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

func (r *ItemRepositoryFS) ListByOwner(ctx context.Context, ownerID string) ([]itemdom.Item, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("item_repository_fs: firestore client is nil")
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, errors.New("item_repository_fs: ownerID is empty")
	}

	it := r.col().Where("userId", "==", ownerID).Documents(ctx)
	return collectItems(it)
}

func (r *ItemRepositoryFS) ListAll(ctx context.Context) ([]itemdom.Item, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("item_repository_fs: firestore client is nil")
	}
	return collectItems(r.col().Documents(ctx))
}

func collectItems(docs *firestore.DocumentIterator) ([]itemdom.Item, error) {
	defer docs.Stop()

	out := []itemdom.Item{}
	for {
		snap, err := docs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var doc itemDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("item_repository_fs: decode %s: %w", snap.Ref.ID, err)
		}
		d := doc.toDomain()
		d.ID = snap.Ref.ID
		out = append(out, *d)
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

// itemDoc keeps the stored field names stable independently of the domain
// struct. Taxonomy fields are capitalized in the documents.
type itemDoc struct {
	OwnerID     string   `firestore:"userId"`
	Description string   `firestore:"Description"`
	Gender      string   `firestore:"Gender"`
	Category    string   `firestore:"Category"`
	Subcategory string   `firestore:"Subcategory"`
	Brand       string   `firestore:"Brand"`
	Condition   string   `firestore:"Condition"`
	Size        string   `firestore:"Size"`
	Color       string   `firestore:"Color"`
	Source      string   `firestore:"Source"`
	Age         string   `firestore:"Age"`
	Style       []string `firestore:"Style"`
	ParcelSize  string   `firestore:"ParcelSize"`
	Price       string   `firestore:"price"`
	ImageURLs   []string `firestore:"imageUrls"`
	IsLoading   bool     `firestore:"isLoading"`
}

func itemDocFromDomain(it *itemdom.Item) itemDoc {
	style := it.Style
	if style == nil {
		style = []string{}
	}
	urls := it.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return itemDoc{
		OwnerID:     it.OwnerID,
		Description: it.Description,
		Gender:      it.Gender,
		Category:    it.Category,
		Subcategory: it.Subcategory,
		Brand:       it.Brand,
		Condition:   it.Condition,
		Size:        it.Size,
		Color:       it.Color,
		Source:      it.Source,
		Age:         it.Age,
		Style:       style,
		ParcelSize:  it.ParcelSize,
		Price:       it.Price,
		ImageURLs:   urls,
		IsLoading:   it.IsLoading,
	}
}

func (d itemDoc) toDomain() *itemdom.Item {
	style := d.Style
	if style == nil {
		style = []string{}
	}
	urls := d.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return &itemdom.Item{
		OwnerID:     d.OwnerID,
		Description: d.Description,
		Gender:      d.Gender,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Brand:       d.Brand,
		Condition:   d.Condition,
		Size:        d.Size,
		Color:       d.Color,
		Source:      d.Source,
		Age:         d.Age,
		Style:       style,
		ParcelSize:  d.ParcelSize,
		Price:       d.Price,
		ImageURLs:   urls,
		IsLoading:   d.IsLoading,
	}
}
