// internal/platform/di/container.go
package di

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	httpin "gallery/internal/adapters/in/http"
	"gallery/internal/adapters/in/http/handlers"
	fs "gallery/internal/adapters/out/firestore"
	"gallery/internal/adapters/out/firebaseauth"
	"gallery/internal/adapters/out/gcs"
	"gallery/internal/adapters/out/mail"
	"gallery/internal/adapters/out/memory"
	"gallery/internal/adapters/out/secrets"
	usecase "gallery/internal/application/usecase"
	appcfg "gallery/internal/infra/config"
)

// Container は main.go から使う依存オブジェクトの束。
// main.go を極限まで薄くするのが目的。
type Container struct {
	Config *appcfg.Config
	Infra  *Infra

	// Usecases
	PhotoUC       *usecase.PhotoUsecase
	PhotoUploadUC *usecase.PhotoUploadUsecase
	PhotoDeleteUC *usecase.PhotoDeleteUsecase
	LikeUC        *usecase.LikeUsecase
	SavedPhotoUC  *usecase.SavedPhotoUsecase
	CleanupUC     *usecase.CleanupSweepUsecase

	triggerTokens handlers.TriggerTokenSource
}

// NewContainer initializes infra, repositories and usecases.
func NewContainer(ctx context.Context) (*Container, error) {
	inf, err := NewInfra(ctx)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config: inf.Config,
		Infra:  inf,
	}

	// ------------------------------------------------------------
	// Repositories (outbound adapters)
	// ------------------------------------------------------------
	photoRepo := fs.NewPhotoRepositoryFS(inf.Firestore)
	likeRepo := fs.NewLikeRepositoryFS(inf.Firestore)
	savedRepo := fs.NewSavedPhotoRepositoryFS(inf.Firestore)
	queueRepo := fs.NewCleanupQueueRepositoryFS(inf.Firestore)
	userRepo := fs.NewUserRepositoryFS(inf.Firestore)

	imageRepo := gcs.NewPhotoImageRepositoryGCS(inf.GCS, inf.PhotoBucket)

	feedCache := memory.NewFeedCache()

	var refresher usecase.CredentialRefresher
	if inf.FirebaseAuth != nil {
		refresher = firebaseauth.NewCredentialRefresher(inf.FirebaseAuth)
	} else {
		log.Printf("[di] WARN: firebase auth unavailable, credential refresh disabled")
	}

	// ------------------------------------------------------------
	// Usecases
	// ------------------------------------------------------------
	c.PhotoUC = usecase.NewPhotoUsecase(photoRepo, userRepo, feedCache)
	c.PhotoUploadUC = usecase.NewPhotoUploadUsecase(photoRepo, userRepo, imageRepo, feedCache)
	c.PhotoDeleteUC = usecase.NewPhotoDeleteUsecase(photoRepo, likeRepo, savedRepo, queueRepo, refresher, feedCache)
	c.LikeUC = usecase.NewLikeUsecase(likeRepo, photoRepo)
	c.SavedPhotoUC = usecase.NewSavedPhotoUsecase(savedRepo)

	c.CleanupUC = usecase.NewCleanupSweepUsecase(queueRepo, imageRepo, resolveSweepConfig(inf.Config))
	if mailer := buildSweepReportMailer(inf.Config); mailer != nil {
		c.CleanupUC = c.CleanupUC.WithMailer(mailer)
	}

	// Manual-sweep trigger token. Without it the HTTP trigger refuses;
	// scheduled sweeps via cmd/sweeper are unaffected.
	if inf.SecretManager != nil && strings.TrimSpace(inf.Config.CleanupTriggerSecretName) != "" {
		c.triggerTokens = secrets.NewCleanupTriggerSecretSM(inf.SecretManager, inf.Config.CleanupTriggerSecretName)
	} else {
		log.Printf("[di] WARN: cleanup trigger token not configured, manual sweep endpoint disabled")
	}

	return c, nil
}

// RouterDeps returns the dependency set for httpin.NewRouter.
func (c *Container) RouterDeps() httpin.RouterDeps {
	return httpin.RouterDeps{
		FirebaseAuth:         c.Infra.FirebaseAuth,
		PhotoUC:              c.PhotoUC,
		PhotoUploadUC:        c.PhotoUploadUC,
		PhotoDeleteUC:        c.PhotoDeleteUC,
		LikeUC:               c.LikeUC,
		SavedPhotoUC:         c.SavedPhotoUC,
		CleanupUC:            c.CleanupUC,
		CleanupTriggerTokens: c.triggerTokens,
	}
}

// Close は Cloud Run 終了時などに呼んで安全にリソースを閉じる。
func (c *Container) Close() {
	if c == nil {
		return
	}
	c.Infra.Close()
}

// resolveSweepConfig parses sweep knobs from env config, falling back to
// the usecase defaults for anything unset or unparsable.
func resolveSweepConfig(cfg *appcfg.Config) usecase.CleanupSweepConfig {
	var out usecase.CleanupSweepConfig

	if h := parseIntEnv(cfg.CleanupRetentionHours); h > 0 {
		out.RetentionDelay = time.Duration(h) * time.Hour
	}
	if n := parseIntEnv(cfg.CleanupBatchLimit); n > 0 {
		out.BatchLimit = n
	}
	if d := parseIntEnv(cfg.CleanupPurgeDays); d > 0 {
		out.PurgeAfter = time.Duration(d) * 24 * time.Hour
	}
	if n := parseIntEnv(cfg.CleanupPurgeLimit); n > 0 {
		out.PurgeLimit = n
	}
	return out
}

func buildSweepReportMailer(cfg *appcfg.Config) usecase.SweepReportMailer {
	apiKey := strings.TrimSpace(cfg.SendGridAPIKey)
	from := strings.TrimSpace(cfg.OpsMailFrom)
	to := strings.TrimSpace(cfg.OpsMailTo)
	if apiKey == "" || from == "" || to == "" {
		log.Printf("[di] sweep report mail not configured (SENDGRID_API_KEY/OPS_MAIL_FROM/OPS_MAIL_TO)")
		return nil
	}
	return mail.NewSweepReportMailer(mail.NewSendGridClient(apiKey), from, to)
}

func parseIntEnv(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
