// internal/adapters/out/gcs/itemImage_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// ItemImageRepositoryGCS implements usecase.ImageStore backed by Google
// Cloud Storage.
//
// Object layout:
//   - users/{ownerId}/products/{itemId}/image_{index}.jpeg
//   - content type: image/jpeg
//
// The slot index in the object name is the submission order, so a listing's
// images stay addressable per slot even after partial failures.
type ItemImageRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewItemImageRepositoryGCS(client *storage.Client, bucket string) *ItemImageRepositoryGCS {
	return &ItemImageRepositoryGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
	}
}

func (r *ItemImageRepositoryGCS) check() error {
	if r == nil || r.Client == nil {
		return errors.New("item_image_repository_gcs: nil storage client")
	}
	if strings.TrimSpace(r.Bucket) == "" {
		return errors.New("item_image_repository_gcs: bucket is empty")
	}
	return nil
}

// UploadItemImage writes one JPEG payload and returns its public URL.
func (r *ItemImageRepositoryGCS) UploadItemImage(ctx context.Context, ownerID, itemID string, index int, data []byte) (string, error) {
	if err := r.check(); err != nil {
		return "", err
	}
	ownerID = strings.TrimSpace(ownerID)
	itemID = strings.TrimSpace(itemID)
	if ownerID == "" || itemID == "" {
		return "", errors.New("item_image_repository_gcs: ownerID and itemID are required")
	}
	if len(data) == 0 {
		return "", errors.New("item_image_repository_gcs: empty payload")
	}

	objName := itemImagePath(ownerID, itemID, index)

	w := r.Client.Bucket(r.Bucket).Object(objName).NewWriter(ctx)
	w.ContentType = "image/jpeg"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("item_image_repository_gcs: write %s: %w", objName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("item_image_repository_gcs: close %s: %w", objName, err)
	}

	return objectURL(r.Bucket, objName), nil
}

// DeleteItemImages removes every object under the item's prefix.
// Individual delete failures are logged and the first one is returned after
// the sweep finishes; missing objects are not an error.
func (r *ItemImageRepositoryGCS) DeleteItemImages(ctx context.Context, ownerID, itemID string) error {
	if err := r.check(); err != nil {
		return err
	}
	ownerID = strings.TrimSpace(ownerID)
	itemID = strings.TrimSpace(itemID)
	if ownerID == "" || itemID == "" {
		return errors.New("item_image_repository_gcs: ownerID and itemID are required")
	}

	prefix := itemImagePrefix(ownerID, itemID)
	it := r.Client.Bucket(r.Bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var firstErr error
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("item_image_repository_gcs: list %s: %w", prefix, err)
		}

		if err := r.Client.Bucket(r.Bucket).Object(attrs.Name).Delete(ctx); err != nil {
			if errors.Is(err, storage.ErrObjectNotExist) {
				continue
			}
			log.Printf("[item_image_gcs] WARN: delete %s: %v", attrs.Name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func itemImagePath(ownerID, itemID string, index int) string {
	return fmt.Sprintf("users/%s/products/%s/image_%d.jpeg", ownerID, itemID, index)
}

func itemImagePrefix(ownerID, itemID string) string {
	return fmt.Sprintf("users/%s/products/%s/", ownerID, itemID)
}

func objectURL(bucket, objName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", strings.TrimSpace(bucket), objName)
}
