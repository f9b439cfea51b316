// internal/platform/di/infra.go
package di

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	appcfg "gallery/internal/infra/config"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (Firestore/FirebaseAuth/GCS/SecretManager)
// - owns env/config-resolved runtime settings (bucket name, sweep knobs)
//
// IMPORTANT:
// Infra must NOT depend on routers, handlers, or usecases.
type Infra struct {
	// Config
	Config    *appcfg.Config
	ProjectID string

	// Clients (owned; Close-managed)
	Firestore     *firestore.Client
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client

	// Runtime settings (resolved once)
	PhotoBucket string
}

// NewInfra initializes shared infra.
// Firestore/GCS are strict (return error).
// Firebase/Auth and SecretManager are best-effort (warn + continue).
func NewInfra(ctx context.Context) (*Infra, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("di.infra: config is nil")
	}

	projectID := strings.TrimSpace(cfg.FirestoreProjectID)
	if projectID == "" {
		// If empty, Firestore/NewApp become unstable; treat as hard error.
		return nil, errors.New("di.infra: projectID is empty (set FIRESTORE_PROJECT_ID or GCP_PROJECT_ID)")
	}

	inf := &Infra{
		Config:    cfg,
		ProjectID: projectID,
	}

	// Credentials file (optional; mainly for local dev)
	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds) // GOOGLE_APPLICATION_CREDENTIALS
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[di.infra] Using credentials file for GCP clients")
	} else {
		log.Printf("[di.infra] Using Application Default Credentials (no credentials file configured)")
	}

	// 1) Firestore (strict)
	{
		fsClient, err := firestore.NewClient(ctx, inf.ProjectID, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("di.infra: firestore.NewClient failed (project=%s): %w", inf.ProjectID, err)
		}
		inf.Firestore = fsClient
		log.Printf("[di.infra] Firestore connected project=%s", inf.ProjectID)
	}

	// 2) GCS (strict)
	{
		gcsClient, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			_ = inf.Firestore.Close()
			return nil, fmt.Errorf("di.infra: storage.NewClient failed: %w", err)
		}
		inf.GCS = gcsClient
		log.Printf("[di.infra] GCS storage client initialized")
	}

	// 3) Firebase App/Auth (best-effort)
	{
		fbCfg := &firebase.Config{ProjectID: strings.TrimSpace(cfg.FirebaseProjectID)}
		fbApp, err := firebase.NewApp(ctx, fbCfg, clientOpts...)
		if err != nil {
			log.Printf("[di.infra] WARN: firebase app init failed: %v", err)
		} else {
			inf.FirebaseApp = fbApp
			authClient, err := fbApp.Auth(ctx)
			if err != nil {
				log.Printf("[di.infra] WARN: firebase auth init failed: %v", err)
			} else {
				inf.FirebaseAuth = authClient
				log.Printf("[di.infra] Firebase Auth initialized")
			}
		}
	}

	// 4) Optional: Secret Manager client (manual-sweep trigger token)
	{
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[di.infra] WARN: secretmanager.NewClient failed: %v (manual sweep token gate disabled)", err)
			sm = nil
		}
		inf.SecretManager = sm
	}

	// 5) Bucket (resolve once)
	inf.PhotoBucket = strings.TrimSpace(cfg.PhotoBucket)
	if inf.PhotoBucket == "" {
		inf.PhotoBucket = projectID + ".appspot.com"
		log.Printf("[di.infra] PHOTO_BUCKET is empty, using default bucket %s", inf.PhotoBucket)
	}

	return inf, nil
}

// Close releases all owned clients.
func (inf *Infra) Close() {
	if inf == nil {
		return
	}
	if inf.Firestore != nil {
		_ = inf.Firestore.Close()
	}
	if inf.GCS != nil {
		_ = inf.GCS.Close()
	}
	if inf.SecretManager != nil {
		_ = inf.SecretManager.Close()
	}
}
