package memory

import (
	"context"
	"time"

	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

// ExportsStorage keeps export metadata, including inline file data.
type ExportsStorage struct {
	t *table[storage.ExportMeta]
}

func cloneExport(e storage.ExportMeta) storage.ExportMeta {
	if e.Data != nil {
		e.Data = append([]byte(nil), e.Data...)
	}
	if e.ObjectKey != nil {
		key := *e.ObjectKey
		e.ObjectKey = &key
	}
	return e
}

func (s *ExportsStorage) InsertExport(ctx context.Context, meta *storage.ExportMeta) error {
	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}
	return s.t.insert(meta.ID, *meta)
}

func (s *ExportsStorage) GetExport(ctx context.Context, id uuid.UUID) (*storage.ExportMeta, error) {
	e, ok := s.t.get(id)
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *ExportsStorage) ListExports(ctx context.Context, limit, offset int) ([]storage.ExportMeta, error) {
	list := s.t.filter(nil)
	newestFirst(list, func(e storage.ExportMeta) time.Time { return e.CreatedAt })

	if offset >= len(list) {
		return []storage.ExportMeta{}, nil
	}
	list = list[max(offset, 0):]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (s *ExportsStorage) DeleteExport(ctx context.Context, id uuid.UUID) error {
	s.t.delete(id)
	return nil
}
