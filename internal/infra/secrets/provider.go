// internal/infra/secrets/provider.go
package secrets

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var ErrNotConfigured = errors.New("secrets: provider not configured")

// Provider reads secret values from Secret Manager. It backs API keys
// (classifier, ledger, sendgrid) that are not supplied via env vars.
type Provider struct {
	sm        *secretmanager.Client
	projectID string
}

func NewProvider(ctx context.Context, projectID string) (*Provider, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, errors.New("secrets: projectID is empty")
	}

	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Provider{sm: sm, projectID: projectID}, nil
}

// Get resolves the latest version of the named secret.
func (p *Provider) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", ErrNotConfigured
	}
	secretID = strings.TrimSpace(secretID)
	if secretID == "" {
		return "", errors.New("secrets: secretID is empty")
	}

	name := "projects/" + p.projectID + "/secrets/" + secretID + "/versions/latest"
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("secrets: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("secrets: empty payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}

func (p *Provider) Close() error {
	if p == nil || p.sm == nil {
		return nil
	}
	return p.sm.Close()
}
