// internal/infra/config/config.go
package config

import "os"

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string
	GCPCreds                 string

	// Firebase Auth 用のプロジェクトID
	FirebaseProjectID string

	// 写真画像を置く GCS バケット
	PhotoBucket string

	// Sweeper 用設定（空なら既定値を使う）
	CleanupRetentionHours string
	CleanupBatchLimit     string
	CleanupPurgeDays      string
	CleanupPurgeLimit     string

	// 手動スイープ用トークンを引く Secret Manager のシークレット名
	// 例) projects/<project>/secrets/cleanup-trigger-token/versions/latest
	CleanupTriggerSecretName string

	// スイープ失敗レポートメール（空なら送信しない）
	SendGridAPIKey string
	OpsMailFrom    string
	OpsMailTo      string
}

// Load は環境変数を読み込み Config を返します。
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "gallery-development")

	cfg := &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		// FIREBASE_PROJECT_ID が未指定なら GCP のデフォルトを使う
		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		PhotoBucket: os.Getenv("PHOTO_BUCKET"),

		CleanupRetentionHours: os.Getenv("CLEANUP_RETENTION_HOURS"),
		CleanupBatchLimit:     os.Getenv("CLEANUP_BATCH_LIMIT"),
		CleanupPurgeDays:      os.Getenv("CLEANUP_PURGE_DAYS"),
		CleanupPurgeLimit:     os.Getenv("CLEANUP_PURGE_LIMIT"),

		CleanupTriggerSecretName: os.Getenv("CLEANUP_TRIGGER_SECRET_NAME"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		OpsMailFrom:    os.Getenv("OPS_MAIL_FROM"),
		OpsMailTo:      os.Getenv("OPS_MAIL_TO"),
	}

	return cfg
}

// GetFirestoreProjectID は Firestore/GCP プロジェクト ID を返します。
func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

// Firebase 用の ProjectID を返すヘルパー
func (c *Config) GetFirebaseProjectID() string {
	return c.FirebaseProjectID
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
