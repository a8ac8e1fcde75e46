package model

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tooldeck/internal/cli/styles"
	"github.com/bnema/tooldeck/internal/domain/entity"
)

type memoryHistory struct {
	views     []*entity.RememberedView
	forgotten []entity.Fingerprint
	err       error
}

func (h *memoryHistory) Recent(_ context.Context, limit int) ([]*entity.RememberedView, error) {
	if h.err != nil {
		return nil, h.err
	}
	if limit > 0 && len(h.views) > limit {
		return h.views[:limit], nil
	}
	return h.views, nil
}

func (h *memoryHistory) Forget(_ context.Context, fp entity.Fingerprint) error {
	h.forgotten = append(h.forgotten, fp)
	kept := h.views[:0]
	for _, v := range h.views {
		if v.Fingerprint != fp {
			kept = append(kept, v)
		}
	}
	h.views = kept
	return nil
}

func updateHistory(t *testing.T, m HistoryModel, msg tea.Msg) (HistoryModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	hm, ok := next.(HistoryModel)
	require.True(t, ok)
	return hm, cmd
}

func TestHistoryModel_LoadAndForget(t *testing.T) {
	store := &memoryHistory{views: []*entity.RememberedView{
		{Fingerprint: "aaaaaaaaaaaaaaaaaaaa", Name: "first.pdf", Page: 3, Scale: 1.25, UpdatedAt: time.Now()},
		{Fingerprint: "bbbbbbbbbbbbbbbbbbbb", Name: "second.pdf", Page: 1, Scale: 1, UpdatedAt: time.Now()},
	}}
	m := NewHistoryModel(context.Background(), styles.NewTheme(), store, 10)

	m, _ = updateHistory(t, m, m.Init()())
	require.Len(t, m.views, 2)
	out := m.View()
	assert.Contains(t, out, "first.pdf")
	assert.Contains(t, out, "125%")
	assert.Contains(t, out, "Remembered views (2)")

	m, cmd := updateHistory(t, m, keyRunes("d"))
	require.NotNil(t, cmd)
	m, cmd = updateHistory(t, m, cmd())
	require.NotNil(t, cmd)
	m, _ = updateHistory(t, m, cmd())

	assert.Equal(t, []entity.Fingerprint{"aaaaaaaaaaaaaaaaaaaa"}, store.forgotten)
	require.Len(t, m.views, 1)
	assert.Equal(t, "second.pdf", m.views[0].Name)
}

func TestHistoryModel_Empty(t *testing.T) {
	m := NewHistoryModel(context.Background(), styles.NewTheme(), &memoryHistory{}, 10)
	m, _ = updateHistory(t, m, m.Init()())

	assert.Contains(t, m.View(), "Nothing remembered yet.")

	_, cmd := updateHistory(t, m, keyRunes("d"))
	assert.Nil(t, cmd)
}

func TestHistoryModel_LoadError(t *testing.T) {
	m := NewHistoryModel(context.Background(), styles.NewTheme(), &memoryHistory{err: errors.New("database is locked")}, 10)
	m, _ = updateHistory(t, m, m.Init()())

	assert.Contains(t, m.View(), "database is locked")
}
