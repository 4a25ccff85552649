package item

import "context"

// Repository is the document-store port for items.
// Writes are full-document upserts keyed by Item.ID (no field patching).
type Repository interface {
	GetByID(ctx context.Context, id string) (*Item, error)
	Upsert(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Item, error)
	ListAll(ctx context.Context) ([]Item, error)
}
