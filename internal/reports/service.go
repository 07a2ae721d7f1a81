package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/fdg312/health-diary/internal/auth"
	"github.com/fdg312/health-diary/internal/blob"
	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidDate      = errors.New("invalid date format")
	ErrInvalidDateRange = errors.New("from date must not be after to date")
	ErrRangeTooLarge    = errors.New("date range too large")
	ErrReportNotFound   = errors.New("report not found")
)

// Options tune where exports are kept and how they are handed out.
type Options struct {
	MaxRangeDays      int
	PresignTTLSeconds int
	PublicBaseURL     string
	PreferPublicURL   bool
}

// Service creates, lists and serves diary exports. With a nil blob store
// the file bytes are kept next to the metadata.
type Service struct {
	exports   storage.ExportStorage
	generator *Generator
	blobStore blob.Store
	opts      Options
	localMode bool
	now       func() time.Time
}

func NewService(exports storage.ExportStorage, generator *Generator, blobStore blob.Store, opts Options) *Service {
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = 90
	}
	if opts.PresignTTLSeconds <= 0 {
		opts.PresignTTLSeconds = 900
	}
	return &Service{
		exports:   exports,
		generator: generator,
		blobStore: blobStore,
		opts:      opts,
		localMode: blobStore == nil,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// LocalMode reports whether files are served by the API itself.
func (s *Service) LocalMode() bool { return s.localMode }

func (s *Service) MaxRangeDays() int { return s.opts.MaxRangeDays }

// CreateReport renders the range and stores the result.
func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}
	from, err := codec.ParseDay(req.From)
	if err != nil {
		return nil, ErrInvalidDate
	}
	to, err := codec.ParseDay(req.To)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}
	if days := spanDays(from, to); days > s.opts.MaxRangeDays {
		return nil, fmt.Errorf("%w: %d days, max %d", ErrRangeTooLarge, days, s.opts.MaxRangeDays)
	}

	data, err := s.generator.Generate(ctx, req.Format, from, to)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	meta := &storage.ExportMeta{
		ID:        uuid.New(),
		Format:    req.Format,
		FromDate:  from,
		ToDate:    to,
		SizeBytes: int64(len(data)),
		CreatedAt: s.now(),
	}
	if sub, ok := auth.Subject(ctx); ok {
		meta.CreatedBy = sub
	}

	if s.localMode {
		meta.Data = data
	} else {
		key := fmt.Sprintf("exports/%s_%s_%s.%s", req.From, req.To, meta.ID, req.Format)
		if _, err := s.blobStore.PutObject(ctx, key, data, contentType(req.Format)); err != nil {
			return nil, fmt.Errorf("upload report: %w", err)
		}
		meta.ObjectKey = &key
	}

	if err := s.exports.InsertExport(ctx, meta); err != nil {
		return nil, fmt.Errorf("save report metadata: %w", err)
	}
	log.Printf("INFO reports: created id=%s format=%s from=%s to=%s bytes=%d by=%q", meta.ID, meta.Format, req.From, req.To, meta.SizeBytes, meta.CreatedBy)
	return toReport(meta), nil
}

func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	meta, err := s.exports.GetExport(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if meta == nil {
		return nil, ErrReportNotFound
	}
	return toReport(meta), nil
}

// ListReports returns exports newest first.
func (s *Service) ListReports(ctx context.Context, limit, offset int) ([]Report, error) {
	list, err := s.exports.ListExports(ctx, limit, offset)
	if err != nil {
		log.Printf("WARN reports: list: %v", err)
		return []Report{}, err
	}
	out := make([]Report, len(list))
	for i := range list {
		out[i] = *toReport(&list[i])
	}
	return out, nil
}

// DeleteReport removes the metadata; a failed object delete is only logged.
func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID) error {
	r, err := s.GetReport(ctx, id)
	if err != nil {
		return err
	}
	if !s.localMode && r.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *r.ObjectKey); err != nil {
			log.Printf("WARN reports: delete object %s: %v", *r.ObjectKey, err)
		}
	}
	if err := s.exports.DeleteExport(ctx, id); err != nil {
		return fmt.Errorf("delete report metadata: %w", err)
	}
	return nil
}

// DownloadURL returns the API download endpoint in local mode, the public
// object URL when preferred, or a presigned URL.
func (s *Service) DownloadURL(ctx context.Context, r *Report, baseURL string) (string, error) {
	if s.localMode {
		return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), r.ID), nil
	}
	if r.ObjectKey == nil {
		return "", errors.New("object key is missing")
	}
	if s.opts.PreferPublicURL && s.opts.PublicBaseURL != "" {
		return strings.TrimSuffix(s.opts.PublicBaseURL, "/") + "/" + *r.ObjectKey, nil
	}
	url, err := s.blobStore.PresignGet(ctx, *r.ObjectKey, s.opts.PresignTTLSeconds)
	if err != nil {
		return "", fmt.Errorf("presign report: %w", err)
	}
	return url, nil
}

// ReportData returns the file bytes and content type.
func (s *Service) ReportData(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	r, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if s.localMode {
		return r.Data, contentType(r.Format), nil
	}
	if r.ObjectKey == nil {
		return nil, "", errors.New("object key is missing")
	}
	data, err := s.blobStore.GetObject(ctx, *r.ObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("fetch report: %w", err)
	}
	return data, contentType(r.Format), nil
}

// spanDays counts calendar days from from to to inclusive. Rounding absorbs
// the hour lost or gained at a DST switch.
func spanDays(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours()/24)) + 1
}

func toReport(meta *storage.ExportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		Format:    meta.Format,
		From:      meta.FromDate,
		To:        meta.ToDate,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		CreatedBy: meta.CreatedBy,
		CreatedAt: meta.CreatedAt,
		Data:      meta.Data,
	}
}
