package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"commhub/internal/pkg/errs"
)

// fakeStorage implements storage.StorageService for handler tests.
type fakeStorage struct {
	uploadKey   string
	downloadKey string
}

func (f *fakeStorage) PresignUpload(_ context.Context, key, _ string, _ int64, _ time.Duration) (string, error) {
	f.uploadKey = key
	return "https://storage.test/upload/" + key, nil
}

func (f *fakeStorage) PresignDownload(_ context.Context, key string, _ time.Duration) (string, error) {
	f.downloadKey = key
	return "https://storage.test/download/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, _ string) error {
	return nil
}

func (f *fakeStorage) GetObjectMetadata(_ context.Context, _ string) (map[string]string, error) {
	return map[string]string{}, nil
}

func TestPresignUpload(t *testing.T) {
	deps, _, _ := testDeps(t)
	fake := &fakeStorage{}
	deps.StorageService = fake
	router := Router(deps)

	rec := doJSON(t, router, http.MethodPost, "/api/file/presign-upload", map[string]any{
		"channelId": "general-chat",
		"fileName":  "chart.png",
		"mimeType":  "image/png",
		"fileSize":  1024,
	})
	env := decodeEnvelope(t, rec)
	if env.Code != 0 {
		t.Fatalf("presign failed: %+v", env)
	}

	var data struct {
		PresignedURL string `json:"presignedUrl"`
		FileKey      string `json:"fileKey"`
		FileName     string `json:"fileName"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !strings.HasPrefix(data.FileKey, "general-chat/") || !strings.HasSuffix(data.FileKey, ".png") {
		t.Errorf("file key = %q; want channel-scoped key with extension", data.FileKey)
	}
	if data.FileName != "chart.png" {
		t.Errorf("file name = %q", data.FileName)
	}
	if fake.uploadKey != data.FileKey {
		t.Errorf("storage saw key %q; response says %q", fake.uploadKey, data.FileKey)
	}
}

func TestPresignUploadValidation(t *testing.T) {
	deps, _, _ := testDeps(t)
	deps.StorageService = &fakeStorage{}
	router := Router(deps)

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
	}{
		{
			"unknown channel",
			map[string]any{"channelId": "ghost", "fileName": "a.png", "mimeType": "image/png", "fileSize": 10},
			errs.ErrRoomNotFound,
		},
		{
			"oversized file",
			map[string]any{"channelId": "general-chat", "fileName": "a.png", "mimeType": "image/png", "fileSize": 6 * 1024 * 1024},
			errs.ErrFileSizeTooLarge,
		},
		{
			"disallowed type",
			map[string]any{"channelId": "general-chat", "fileName": "a.pdf", "mimeType": "application/pdf", "fileSize": 10},
			errs.ErrAttachmentTypeInvalid,
		},
		{
			"mismatched extension",
			map[string]any{"channelId": "general-chat", "fileName": "a.png", "mimeType": "image/jpeg", "fileSize": 10},
			errs.ErrAttachmentTypeInvalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/file/presign-upload", tc.body)
			env := decodeEnvelope(t, rec)
			if env.Code != tc.wantCode {
				t.Errorf("envelope code = %d; want %d", env.Code, tc.wantCode)
			}
		})
	}
}

func TestPresignDownloadRedirects(t *testing.T) {
	deps, _, _ := testDeps(t)
	fake := &fakeStorage{}
	deps.StorageService = fake
	router := Router(deps)

	rec := doJSON(t, router, http.MethodGet, "/api/file/presign-download?k=general-chat/abc.png", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d; want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "general-chat/abc.png") {
		t.Errorf("location = %q", loc)
	}
	if fake.downloadKey != "general-chat/abc.png" {
		t.Errorf("storage saw key %q", fake.downloadKey)
	}
}

func TestPresignDownloadValidation(t *testing.T) {
	deps, _, _ := testDeps(t)
	deps.StorageService = &fakeStorage{}
	router := Router(deps)

	tests := []struct {
		name     string
		target   string
		wantCode int
	}{
		{"missing key", "/api/file/presign-download", errs.ErrInvalidParams},
		{"no channel scope", "/api/file/presign-download?k=loose-file.png", errs.ErrAttachmentKeyInvalid},
		{"traversal", "/api/file/presign-download?k=general-chat/../secret.png", errs.ErrAttachmentKeyInvalid},
		{"unknown channel", "/api/file/presign-download?k=ghost/abc.png", errs.ErrRoomNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, tc.target, nil)
			env := decodeEnvelope(t, rec)
			if env.Code != tc.wantCode {
				t.Errorf("envelope code = %d; want %d", env.Code, tc.wantCode)
			}
		})
	}
}

func TestPresignDisabledWithoutStorage(t *testing.T) {
	deps, _, _ := testDeps(t)
	router := Router(deps)

	rec := doJSON(t, router, http.MethodPost, "/api/file/presign-upload", map[string]any{
		"channelId": "general-chat", "fileName": "a.png", "mimeType": "image/png", "fileSize": 10,
	})
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("upload status = %d; want 501", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/file/presign-download?k=general-chat/a.png", nil)
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("download status = %d; want 501", rec.Code)
	}
}
