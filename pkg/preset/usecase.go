package preset

import (
	"context"
	"errors"
	"strings"

	"github.com/smartadvisor/backend/pkg/contextengine"
)

// UseCase covers preset CRUD plus applying one to the active context.
type UseCase interface {
	List(ctx context.Context) ([]Preset, error)
	Create(ctx context.Context, p Preset) (Preset, error)
	Apply(ctx context.Context, name string) (contextengine.Context, error)
	Delete(ctx context.Context, name string) error
	SeedDefaults(ctx context.Context) error
}

type service struct {
	repo  Repository
	store *contextengine.Store
}

func NewService(repo Repository, store *contextengine.Store) UseCase {
	return &service{repo: repo, store: store}
}

func (s *service) List(ctx context.Context) ([]Preset, error) {
	return s.repo.List(ctx)
}

func (s *service) Create(ctx context.Context, p Preset) (Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Preset{}, errors.New("preset name is required")
	}
	if p.ContextData == nil {
		return Preset{}, errors.New("context_data is required")
	}
	return s.repo.Create(ctx, p)
}

// Apply performs a full replace of the active context with the preset's
// context data, never a merge.
func (s *service) Apply(ctx context.Context, name string) (contextengine.Context, error) {
	p, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	s.store.Update(p.ContextData, false)
	return s.store.Get(), nil
}

func (s *service) Delete(ctx context.Context, name string) error {
	return s.repo.DeleteByName(ctx, name)
}

// SeedDefaults installs the built-in presets when the table is empty, so a
// fresh deployment starts with usable modes.
func (s *service) SeedDefaults(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, p := range defaultPresets() {
		if _, err := s.repo.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
