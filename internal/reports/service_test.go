package reports

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fdg312/health-diary/internal/auth"
	"github.com/google/uuid"
)

type fakeBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *fakeBlob) PutObject(_ context.Context, key string, data []byte, contentType string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = append([]byte(nil), data...)
	b.types[key] = contentType
	return int64(len(data)), nil
}

func (b *fakeBlob) GetObject(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (b *fakeBlob) PresignGet(_ context.Context, key string, ttlSeconds int) (string, error) {
	return "https://storage.example.com/bucket/" + key + "?X-Amz-Expires=900", nil
}

func (b *fakeBlob) DeleteObject(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func TestCreateReportValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.store.Exports(), f.gen, nil, Options{MaxRangeDays: 7})
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateReportRequest
		want error
	}{
		{"format", CreateReportRequest{From: "2024-03-01", To: "2024-03-02", Format: "xlsx"}, ErrInvalidFormat},
		{"from", CreateReportRequest{From: "03/01/2024", To: "2024-03-02", Format: FormatCSV}, ErrInvalidDate},
		{"order", CreateReportRequest{From: "2024-03-05", To: "2024-03-02", Format: FormatCSV}, ErrInvalidDateRange},
		{"range", CreateReportRequest{From: "2024-03-01", To: "2024-03-08", Format: FormatCSV}, ErrRangeTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateReport(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := svc.CreateReport(ctx, CreateReportRequest{From: "2024-03-01", To: "2024-03-07", Format: FormatCSV}); err != nil {
		t.Errorf("7-day range should be accepted: %v", err)
	}
}

func TestLocalModeKeepsData(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.store.Exports(), f.gen, nil, Options{})
	ctx := context.Background()

	r, err := svc.CreateReport(ctx, CreateReportRequest{From: "2024-03-10", To: "2024-03-12", Format: FormatCSV})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !svc.LocalMode() || r.ObjectKey != nil || r.SizeBytes == 0 || r.CreatedBy != "" {
		t.Errorf("unexpected report %+v", r)
	}

	url, err := svc.DownloadURL(ctx, r, "http://localhost:8080/")
	if err != nil || url != "http://localhost:8080/v1/reports/"+r.ID.String()+"/download" {
		t.Errorf("unexpected url %q err=%v", url, err)
	}

	data, ct, err := svc.ReportData(ctx, r.ID)
	if err != nil || ct != "text/csv" || !strings.HasPrefix(string(data), "date,calories") {
		t.Errorf("unexpected data %q %q err=%v", data, ct, err)
	}

	if _, _, err := svc.ReportData(ctx, uuid.New()); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}

func TestCreateReportRecordsSubject(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.store.Exports(), f.gen, nil, Options{})
	ctx := auth.WithSubject(context.Background(), "sam")

	r, err := svc.CreateReport(ctx, CreateReportRequest{From: "2024-03-10", To: "2024-03-12", Format: FormatCSV})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.CreatedBy != "sam" {
		t.Errorf("expected created by sam, got %q", r.CreatedBy)
	}

	got, err := svc.GetReport(ctx, r.ID)
	if err != nil || got.CreatedBy != "sam" {
		t.Errorf("expected stored subject sam, got %+v err=%v", got, err)
	}
}

func TestObjectStoreMode(t *testing.T) {
	f := newFixture(t)
	blobs := newFakeBlob()
	svc := NewService(f.store.Exports(), f.gen, blobs, Options{PresignTTLSeconds: 900})
	ctx := context.Background()

	r, err := svc.CreateReport(ctx, CreateReportRequest{From: "2024-03-10", To: "2024-03-12", Format: FormatPDF})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.ObjectKey == nil || !strings.HasPrefix(*r.ObjectKey, "exports/2024-03-10_2024-03-12_") || r.Data != nil {
		t.Fatalf("unexpected report %+v", r)
	}
	if blobs.types[*r.ObjectKey] != "application/pdf" {
		t.Errorf("unexpected content type %q", blobs.types[*r.ObjectKey])
	}

	url, err := svc.DownloadURL(ctx, r, "http://localhost")
	if err != nil || !strings.Contains(url, "X-Amz-Expires") {
		t.Errorf("expected presigned url, got %q err=%v", url, err)
	}

	data, ct, err := svc.ReportData(ctx, r.ID)
	if err != nil || ct != "application/pdf" || len(data) != int(r.SizeBytes) {
		t.Errorf("unexpected data len=%d ct=%q err=%v", len(data), ct, err)
	}

	public := NewService(f.store.Exports(), f.gen, blobs, Options{PublicBaseURL: "https://cdn.example.com/", PreferPublicURL: true})
	url, _ = public.DownloadURL(ctx, r, "http://localhost")
	if url != "https://cdn.example.com/"+*r.ObjectKey {
		t.Errorf("expected public url, got %q", url)
	}

	if err := svc.DeleteReport(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(blobs.objects) != 0 {
		t.Errorf("expected object removed, got %d", len(blobs.objects))
	}
	if err := svc.DeleteReport(ctx, r.ID); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}
