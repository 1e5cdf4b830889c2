package preset

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/smartadvisor/backend/pkg/contextengine"
)

// ErrNotFound is returned for lookups of unknown preset names.
var ErrNotFound = errors.New("preset not found")

// Preset is a named, reusable business-context template. Applying one fully
// replaces the active context.
type Preset struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	ContextData contextengine.Context `json:"context_data"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// Repository persists presets.
type Repository interface {
	List(ctx context.Context) ([]Preset, error)
	Create(ctx context.Context, p Preset) (Preset, error)
	GetByName(ctx context.Context, name string) (Preset, error)
	DeleteByName(ctx context.Context, name string) error
	Count(ctx context.Context) (int, error)
}
