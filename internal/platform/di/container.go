// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"
	"net/http"

	firebase "firebase.google.com/go/v4"

	inhttp "drip/internal/adapters/in/http"
	"drip/internal/adapters/in/http/handlers"
	"drip/internal/adapters/in/http/middleware"
	fsout "drip/internal/adapters/out/firestore"
	gcsout "drip/internal/adapters/out/gcs"
	httpout "drip/internal/adapters/out/http"
	mailout "drip/internal/adapters/out/mail"
	usecase "drip/internal/application/usecase"
	"drip/internal/infra/config"
	firestoreinfra "drip/internal/infra/firestore"
	gcsinfra "drip/internal/infra/gcs"
	"drip/internal/infra/secrets"
)

// Container wires infra, adapters, usecases and the HTTP router.
type Container struct {
	Router http.Handler

	fs      *firestoreinfra.ClientWrapper
	secrets *secrets.Provider
}

// NewContainer builds the whole object graph from cfg.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("di: firestore: %w", err)
	}

	gcsClient, err := gcsinfra.NewClient(ctx, cfg.FirestoreCredentialsFile)
	if err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("di: gcs: %w", err)
	}

	// Secret Manager is optional; API keys fall back to env values.
	sm, err := secrets.NewProvider(ctx, cfg.FirestoreProjectID)
	if err != nil {
		log.Printf("[di] WARN: secret manager unavailable, using env keys only: %v", err)
		sm = nil
	}

	classifierKey := resolveKey(ctx, sm, cfg.ClassifierAPIKey, "classifier-api-key")
	ledgerKey := resolveKey(ctx, sm, cfg.LedgerAPIKey, "ledger-api-key")
	sendgridKey := resolveKey(ctx, sm, cfg.SendGridAPIKey, "sendgrid-api-key")

	// outbound adapters
	itemRepo := fsout.NewItemRepositoryFS(fs.Client)
	imageStore := gcsout.NewItemImageRepositoryGCS(gcsClient, cfg.GCSBucket)
	classifier := httpout.NewClassifierClient(cfg.ClassifierBaseURL, classifierKey, cfg.ClassifierModel)
	ledger := httpout.NewLedgerHTTPClient(cfg.LedgerBaseURL, ledgerKey)

	var mailer usecase.ReceiptMailer
	if sendgridKey != "" {
		mailer = mailout.NewReceiptMailer(mailout.NewSendGridClient(sendgridKey), cfg.ReceiptFromEmail)
	} else {
		log.Printf("[di] sendgrid key not configured; receipt mail disabled")
	}

	// usecases
	listingUC := usecase.NewListingUsecase(itemRepo, imageStore, classifier)
	itemUC := usecase.NewItemUsecase(itemRepo, imageStore, classifier)
	checkoutUC := usecase.NewCheckoutUsecase(ledger, mailer)

	// firebase auth
	auth, err := newAuthMiddleware(ctx, cfg)
	if err != nil {
		log.Printf("[di] WARN: firebase auth unavailable: %v", err)
		auth = nil
	}

	router := inhttp.NewRouter(inhttp.Deps{
		Item:          handlers.NewItemHandler(itemUC, listingUC),
		Cart:          handlers.NewCartHandler(checkoutUC, itemUC, cfg.MerchantAccountID),
		Auth:          auth,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	return &Container{Router: router, fs: fs, secrets: sm}, nil
}

func newAuthMiddleware(ctx context.Context, cfg *config.Config) (*middleware.AuthMiddleware, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	return &middleware.AuthMiddleware{FirebaseAuth: authClient}, nil
}

// resolveKey prefers the env value, then Secret Manager, then empty.
func resolveKey(ctx context.Context, sm *secrets.Provider, envValue, secretID string) string {
	if envValue != "" {
		return envValue
	}
	if sm == nil {
		return ""
	}
	v, err := sm.Get(ctx, secretID)
	if err != nil {
		log.Printf("[di] secret %s not resolved: %v", secretID, err)
		return ""
	}
	return v
}

func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.secrets != nil {
		_ = c.secrets.Close()
	}
	if c.fs != nil {
		_ = c.fs.Close()
	}
}
