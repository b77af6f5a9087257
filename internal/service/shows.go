package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/streamvault/streamvault/internal/domain"
	"github.com/streamvault/streamvault/internal/store"
)

// Catalog reads surface store.ErrNotFound unchanged; the HTTP layer maps
// it to a 404 envelope.

// ErrInvalidShow rejects catalog writes with no title.
var ErrInvalidShow = errors.New("invalid_show")

// ShowsService wraps the catalog store with validation and audit
// stamping. The actor is the authenticated username performing the call.
type ShowsService struct {
	Store store.Store
}

// List returns all live catalog entries, newest first.
func (s *ShowsService) List(ctx context.Context) ([]domain.Show, error) {
	return s.Store.Shows().ListShows(ctx)
}

// Get returns one live catalog entry.
func (s *ShowsService) Get(ctx context.Context, id int64) (domain.Show, error) {
	return s.Store.Shows().GetShowByID(ctx, id)
}

// Create validates and inserts a catalog entry, stamping the creator.
func (s *ShowsService) Create(ctx context.Context, sh domain.Show, actor string) (domain.Show, error) {
	if strings.TrimSpace(sh.Title) == "" {
		return domain.Show{}, ErrInvalidShow
	}
	if sh.ShowType == "" {
		sh.ShowType = domain.ShowTypeMovie
	}

	sh.CreatedBy = actor
	sh.CreatedAt = time.Now().UTC()

	id, err := s.Store.Shows().CreateShow(ctx, sh)
	if err != nil {
		return domain.Show{}, err
	}
	sh.ID = id
	return sh, nil
}

// Update rewrites the mutable fields of an existing entry, stamping the
// updater. The audit columns of the original row are preserved.
func (s *ShowsService) Update(ctx context.Context, id int64, sh domain.Show, actor string) (domain.Show, error) {
	if strings.TrimSpace(sh.Title) == "" {
		return domain.Show{}, ErrInvalidShow
	}

	current, err := s.Store.Shows().GetShowByID(ctx, id)
	if err != nil {
		return domain.Show{}, err
	}

	now := time.Now().UTC()
	sh.ID = current.ID
	sh.CreatedBy = current.CreatedBy
	sh.CreatedAt = current.CreatedAt
	sh.UpdatedBy = actor
	sh.UpdatedAt = &now

	if err := s.Store.Shows().UpdateShow(ctx, sh); err != nil {
		return domain.Show{}, err
	}
	return sh, nil
}

// Delete soft-deletes an entry, recording the actor.
func (s *ShowsService) Delete(ctx context.Context, id int64, actor string) error {
	return s.Store.Shows().SoftDeleteShow(ctx, id, actor, time.Now().UTC())
}
