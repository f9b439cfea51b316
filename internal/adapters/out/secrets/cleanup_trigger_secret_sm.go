// internal/adapters/out/secrets/cleanup_trigger_secret_sm.go
package secrets

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var errTriggerSecretNotConfigured = errors.New("secrets: cleanup trigger secret provider not configured")

// CleanupTriggerSecretSM resolves the shared token that gates the manual
// cleanup trigger endpoint. The token lives in Secret Manager so it can be
// rotated without a deploy.
type CleanupTriggerSecretSM struct {
	SM         *secretmanager.Client
	SecretName string // full resource name incl. version, e.g. projects/p/secrets/s/versions/latest
}

func NewCleanupTriggerSecretSM(sm *secretmanager.Client, secretName string) *CleanupTriggerSecretSM {
	return &CleanupTriggerSecretSM{SM: sm, SecretName: strings.TrimSpace(secretName)}
}

func (p *CleanupTriggerSecretSM) Token(ctx context.Context) (string, error) {
	if p == nil || p.SM == nil {
		return "", errTriggerSecretNotConfigured
	}
	name := strings.TrimSpace(p.SecretName)
	if name == "" {
		return "", errors.New("secrets: cleanup trigger secret name is empty")
	}

	resp, err := p.SM.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("secrets: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("secrets: empty payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
