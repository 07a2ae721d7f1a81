package blob

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	appcfg "github.com/fdg312/health-diary/internal/config"
)

func TestNewBlobStoreLocalForced(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeLocal,
		S3:   appcfg.S3Config{},
	}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeLocal {
		t.Fatalf("expected mode=local, got %s", mode)
	}
	if store != nil {
		t.Fatal("expected nil store in local mode")
	}
	if !strings.Contains(buf.String(), "mode=local (forced)") {
		t.Fatalf("expected local mode log, got: %s", buf.String())
	}
}

func TestNewBlobStoreAutoEmptyS3FallsBackToLocal(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeAuto,
		S3:   appcfg.S3Config{},
	}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeLocal {
		t.Fatalf("expected mode=local fallback, got %s", mode)
	}
	if store != nil {
		t.Fatal("expected nil store on auto fallback")
	}

	logOut := buf.String()
	if !strings.Contains(logOut, "code=s3_not_configured") {
		t.Fatalf("expected s3_not_configured diagnostics, got: %s", logOut)
	}
	if !strings.Contains(logOut, "mode=local (auto, S3 not configured)") {
		t.Fatalf("expected auto fallback to local log, got: %s", logOut)
	}
}

func TestNewBlobStoreS3MissingRequiredReturnsError(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeS3,
		S3: appcfg.S3Config{
			Endpoint: "http://localhost:9000",
		},
	}, logger)
	if err == nil {
		t.Fatal("expected error when mode=s3 and required env are missing")
	}
	if store != nil || mode != "" {
		t.Fatalf("expected nil store and empty mode on error, got store=%v mode=%q", store, mode)
	}
	if !strings.Contains(err.Error(), "missing required config") {
		t.Fatalf("expected missing required config error, got: %v", err)
	}
}

func TestNewBlobStoreAutoConfigured(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeAuto,
		S3: appcfg.S3Config{
			Endpoint:        "http://localhost:9000",
			Region:          "us-east-1",
			Bucket:          "diary-exports",
			AccessKeyID:     "minio",
			SecretAccessKey: "minio-secret",
			PublicBaseURL:   "http://localhost:9000/diary-exports",
		},
	}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeS3 || store == nil {
		t.Fatalf("expected s3 store, got mode=%s store=%v", mode, store)
	}
	if !strings.Contains(buf.String(), "mode=s3 (auto, configured)") {
		t.Fatalf("expected s3 mode log, got: %s", buf.String())
	}
}

func TestNewS3StoreRequiresCredentials(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Options{Endpoint: "http://localhost:9000", Bucket: "b"})
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestPresignGetIsOffline(t *testing.T) {
	store, err := NewS3Store(context.Background(), S3Options{
		Endpoint:        "http://localhost:9000",
		Bucket:          "diary-exports",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
	})
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}

	url, err := store.PresignGet(context.Background(), "exports/2024-03-01_2024-03-07.csv", 900)
	if err != nil {
		t.Fatalf("PresignGet: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:9000/diary-exports/exports/2024-03-01_2024-03-07.csv?") {
		t.Errorf("expected path-style URL, got %s", url)
	}
	if !strings.Contains(url, "X-Amz-Expires=900") {
		t.Errorf("expected expiry in URL, got %s", url)
	}
}
