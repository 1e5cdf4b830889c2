package preset

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartadvisor/backend/pkg/contextengine"
)

type memRepo struct {
	mu      sync.Mutex
	presets map[string]Preset
}

func newMemRepo() *memRepo {
	return &memRepo{presets: map[string]Preset{}}
}

func (m *memRepo) List(_ context.Context) ([]Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Preset, 0, len(m.presets))
	for _, p := range m.presets {
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, p Preset) (Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets[p.Name] = p
	return p, nil
}

func (m *memRepo) GetByName(_ context.Context, name string) (Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.presets[name]
	if !ok {
		return Preset{}, ErrNotFound
	}
	return p, nil
}

func (m *memRepo) DeleteByName(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.presets[name]; !ok {
		return ErrNotFound
	}
	delete(m.presets, name)
	return nil
}

func (m *memRepo) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.presets), nil
}

func TestApplyFullyReplacesActiveContext(t *testing.T) {
	repo := newMemRepo()
	store := contextengine.NewStore(contextengine.Context{"stale": "value", "role": "Old"})
	svc := NewService(repo, store)

	data := contextengine.Context{"role": "Support Advisor", "mode": "Support"}
	_, err := svc.Create(context.Background(), Preset{Name: "support", ContextData: data})
	require.NoError(t, err)

	got, err := svc.Apply(context.Background(), "support")
	require.NoError(t, err)

	assert.Equal(t, data, got)
	// Independent of anything that was there before.
	assert.Equal(t, data, store.Get())
}

func TestApplyUnknownPreset(t *testing.T) {
	svc := NewService(newMemRepo(), contextengine.NewStore(nil))
	_, err := svc.Apply(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemRepo(), contextengine.NewStore(nil))

	_, err := svc.Create(context.Background(), Preset{Name: "  ", ContextData: contextengine.Context{}})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), Preset{Name: "ok"})
	assert.Error(t, err)
}

func TestSeedDefaults(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, contextengine.NewStore(nil))

	require.NoError(t, svc.SeedDefaults(context.Background()))
	presets, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, presets, 3)

	names := map[string]bool{}
	for _, p := range presets {
		names[p.Name] = true
		assert.Contains(t, p.ContextData, "role")
		assert.Contains(t, p.ContextData, "instructions")
	}
	assert.True(t, names["sales"] && names["technical"] && names["support"])
}

func TestSeedDefaultsSkippedWhenNotEmpty(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, contextengine.NewStore(nil))
	_, err := svc.Create(context.Background(), Preset{Name: "custom", ContextData: contextengine.Context{"role": "X"}})
	require.NoError(t, err)

	require.NoError(t, svc.SeedDefaults(context.Background()))
	presets, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, presets, 1)
}

func TestDelete(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, contextengine.NewStore(nil))
	_, err := svc.Create(context.Background(), Preset{Name: "tmp", ContextData: contextengine.Context{}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "tmp"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "tmp"), ErrNotFound)
}
