// internal/infra/config/config.go
package config

import "os"

// Config holds the process-wide environment configuration.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string
	GCSBucket                string

	// Classifier is the OpenAI-compatible enrichment endpoint.
	ClassifierBaseURL string
	ClassifierAPIKey  string
	ClassifierModel   string

	// Ledger is the mock payment rail.
	LedgerBaseURL string
	LedgerAPIKey  string

	// Receipt mail (optional; empty key disables receipts).
	SendGridAPIKey   string
	ReceiptFromEmail string

	// MerchantAccountID is the default payee for checkouts.
	MerchantAccountID string

	// AllowedOrigin is the CORS origin for the mobile/web client.
	AllowedOrigin string
}

// Load reads environment variables into a Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "drip-marketplace-dev")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		GCSBucket:                os.Getenv("GCS_BUCKET"),

		ClassifierBaseURL: getenvDefault("CLASSIFIER_BASE_URL", "https://api.openai.com/v1"),
		ClassifierAPIKey:  os.Getenv("CLASSIFIER_API_KEY"),
		ClassifierModel:   getenvDefault("CLASSIFIER_MODEL", "gpt-4o"),

		LedgerBaseURL: getenvDefault("LEDGER_BASE_URL", "http://api.nessieisreal.com"),
		LedgerAPIKey:  os.Getenv("LEDGER_API_KEY"),

		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		ReceiptFromEmail: getenvDefault("RECEIPT_FROM_EMAIL", "no-reply@drip.example.com"),

		MerchantAccountID: getenvDefault("MERCHANT_ACCOUNT_ID", "merchant_account_123"),

		AllowedOrigin: getenvDefault("ALLOWED_ORIGIN", "*"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
