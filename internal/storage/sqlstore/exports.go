package sqlstore

import (
	"context"
	"math"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

type exportsStorage struct {
	s *Store
}

const exportColumns = `id, format, from_ms, to_ms, object_key, size_bytes, data, created_by, created_ms`

func scanExport(sc scanner) (storage.ExportMeta, error) {
	var (
		e                      storage.ExportMeta
		id                     string
		fromMs, toMs, createMs int64
	)
	if err := sc.Scan(&id, &e.Format, &fromMs, &toMs, &e.ObjectKey, &e.SizeBytes, &e.Data, &e.CreatedBy, &createMs); err != nil {
		return e, err
	}
	var err error
	if e.ID, err = codec.DecodeID(id); err != nil {
		return e, err
	}
	e.FromDate = codec.DecodeTime(fromMs)
	e.ToDate = codec.DecodeTime(toMs)
	e.CreatedAt = codec.DecodeTime(createMs)
	return e, nil
}

func (r *exportsStorage) InsertExport(ctx context.Context, e *storage.ExportMeta) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := r.s.exec(ctx, "insert export", `
		INSERT INTO exports (`+exportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, codec.EncodeID(e.ID), e.Format, codec.EncodeTime(e.FromDate), codec.EncodeTime(e.ToDate), e.ObjectKey,
		e.SizeBytes, e.Data, e.CreatedBy, codec.EncodeTime(e.CreatedAt))
	return err
}

func (r *exportsStorage) GetExport(ctx context.Context, id uuid.UUID) (*storage.ExportMeta, error) {
	row := r.s.queryRow(ctx, `SELECT `+exportColumns+` FROM exports WHERE id = ?`, codec.EncodeID(id))
	return one(row, "get export", scanExport)
}

func (r *exportsStorage) ListExports(ctx context.Context, limit, offset int) ([]storage.ExportMeta, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}
	rows, err := r.s.query(ctx, "list exports", `
		SELECT `+exportColumns+`
		FROM exports
		ORDER BY created_ms DESC
		LIMIT ? OFFSET ?
	`, limit, max(offset, 0))
	if err != nil {
		return nil, err
	}
	return collect(rows, "list exports", scanExport)
}

func (r *exportsStorage) DeleteExport(ctx context.Context, id uuid.UUID) error {
	_, err := r.s.exec(ctx, "delete export", `DELETE FROM exports WHERE id = ?`, codec.EncodeID(id))
	return err
}
