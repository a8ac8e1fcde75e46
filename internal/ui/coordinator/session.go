package coordinator

import (
	"context"
	"fmt"
	"slices"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
)

// SessionCoordinator manages the set of open tabs and which one is active.
type SessionCoordinator struct {
	*state

	tabsUC     *usecase.ManageTabsUseCase
	openUC     *usecase.OpenDocumentsUseCase
	renderUC   *usecase.RenderPagesUseCase
	rememberUC *usecase.RememberViewUseCase

	view       *ViewCoordinator
	thumbnails *ThumbnailCoordinator
}

func newSessionCoordinator(
	ctx context.Context,
	s *state,
	view *ViewCoordinator,
	thumbnails *ThumbnailCoordinator,
	cfg Config,
) *SessionCoordinator {
	logging.FromContext(ctx).Debug().Msg("creating session coordinator")

	return &SessionCoordinator{
		state:      s,
		tabsUC:     cfg.TabsUC,
		openUC:     cfg.OpenUC,
		renderUC:   cfg.RenderUC,
		rememberUC: cfg.RememberUC,
		view:       view,
		thumbnails: thumbnails,
	}
}

// OpenResult summarizes a batch open.
type OpenResult struct {
	Opened   []entity.TabID
	Failures []usecase.DocumentFailure
}

// OpenDocuments decodes every source and opens one tab per success. The
// last opened document ends up active. Failures are reported per file and
// never abort the batch.
func (c *SessionCoordinator) OpenDocuments(ctx context.Context, sources []usecase.DocumentSource) *OpenResult {
	log := logging.FromContext(ctx)
	result := &OpenResult{}
	if len(sources) == 0 {
		return result
	}
	if c.openUC == nil {
		log.Error().Msg("no document decoder configured")
		return result
	}

	loadingID := c.notify.Show(ctx, "Loading…", port.NotificationInfo)
	out := c.openUC.Execute(ctx, sources)
	c.notify.Dismiss(ctx, loadingID)

	for _, opened := range out.Opened {
		tabID, _, err := c.CreateTab(ctx, opened.Name, opened.Document, opened.Fingerprint)
		if err != nil {
			log.Error().Err(err).Str("name", opened.Name).Msg("failed to create tab")
			_ = opened.Document.Close()
			out.Failures = append(out.Failures, usecase.DocumentFailure{Name: opened.Name, Err: err})
			continue
		}
		result.Opened = append(result.Opened, tabID)
	}
	result.Failures = out.Failures

	c.mu.Lock()
	for _, f := range result.Failures {
		name, err := f.Name, f.Err
		c.emit(func(ev port.ViewerEvents) { ev.DocumentFailed(ctx, name, err) })
	}
	c.unlock()

	for _, f := range result.Failures {
		c.notify.Show(ctx, fmt.Sprintf("Failed to load: %s", f.Name), port.NotificationError)
	}
	if len(sources) > 1 && len(result.Opened) > 0 {
		c.notify.Show(ctx, fmt.Sprintf("Loaded %d files", len(result.Opened)), port.NotificationSuccess)
	}

	return result
}

// CreateTab registers an already decoded document as a new active tab and
// starts rendering it.
func (c *SessionCoordinator) CreateTab(
	ctx context.Context,
	name string,
	doc port.Document,
	fp entity.Fingerprint,
) (entity.TabID, *RenderPass, error) {
	if doc == nil {
		return "", nil, fmt.Errorf("document is required")
	}

	// Decoder work happens outside the lock.
	restore := c.rememberUC.Lookup(ctx, fp)
	sizes := c.renderUC.PageSizes(ctx, doc)

	c.mu.Lock()
	out, err := c.tabsUC.Create(ctx, usecase.CreateTabInput{
		TabList:     c.tabs,
		Name:        name,
		TotalPages:  doc.PageCount(),
		Fingerprint: fp,
		Restore:     restore,
	})
	if err != nil {
		c.unlock()
		return "", nil, err
	}
	tab := out.Tab
	c.resources[tab.ID] = &tabResources{
		doc:    doc,
		sizes:  sizes,
		thumbs: entity.NewThumbnailSet(),
	}
	pass := c.activateLocked(ctx, tab, atPage(tab.CurrentPage))
	c.metrics.OpenTabs(c.tabs.Count())
	c.unlock()

	c.thumbnails.refresh(ctx, true)
	return tab.ID, pass, nil
}

// activateLocked makes tab the shown tab: the previous render context is
// discarded and a fresh pass starts at the tab's persisted scale.
func (c *SessionCoordinator) activateLocked(ctx context.Context, tab *entity.Tab, restore scrollRestore) *RenderPass {
	res := c.resources[tab.ID]
	c.viewport.ScrollTop = 0

	tabID := tab.ID
	c.emit(func(ev port.ViewerEvents) { ev.ActiveTabChanged(ctx, tabID) })
	return c.view.startPassLocked(ctx, tab, res, restore)
}

// ActivateTab switches to a tab. Unknown or already active ids are a no-op
// and return a nil pass.
func (c *SessionCoordinator) ActivateTab(ctx context.Context, tabID entity.TabID) *RenderPass {
	log := logging.FromContext(ctx)

	c.mu.Lock()
	changed, err := c.tabsUC.Switch(ctx, c.tabs, tabID)
	if err != nil {
		c.unlock()
		log.Debug().Err(err).Msg("activate ignored")
		return nil
	}
	if !changed {
		c.unlock()
		return nil
	}
	tab := c.tabs.Find(tabID)
	pass := c.activateLocked(ctx, tab, restoreFor(tab))
	c.unlock()

	c.thumbnails.refresh(ctx, true)
	return pass
}

func restoreFor(tab *entity.Tab) scrollRestore {
	if tab.ScrollOffset != nil {
		return atOffset(*tab.ScrollOffset)
	}
	return atPage(tab.CurrentPage)
}

// NextTab activates the tab after the active one, wrapping around.
func (c *SessionCoordinator) NextTab(ctx context.Context) *RenderPass {
	return c.cycle(ctx, 1)
}

// PreviousTab activates the tab before the active one, wrapping around.
func (c *SessionCoordinator) PreviousTab(ctx context.Context) *RenderPass {
	return c.cycle(ctx, -1)
}

func (c *SessionCoordinator) cycle(ctx context.Context, direction int) *RenderPass {
	c.mu.Lock()
	next := c.tabsUC.GetNext(c.tabs, direction)
	c.unlock()
	if next == "" {
		return nil
	}
	return c.ActivateTab(ctx, next)
}

// CloseTab removes a tab and releases its document. Closing the active tab
// activates the first remaining tab, or empties the session.
func (c *SessionCoordinator) CloseTab(ctx context.Context, tabID entity.TabID) *RenderPass {
	c.mu.Lock()
	out, err := c.tabsUC.Close(ctx, c.tabs, tabID)
	if err != nil || out.Tab == nil {
		c.unlock()
		return nil
	}

	res := c.resources[tabID]
	delete(c.resources, tabID)
	if res != nil {
		res.release(ctx)
	}

	var pass *RenderPass
	if out.WasActive {
		if out.Empty {
			c.discardRenderLocked()
			c.viewport.ScrollTop = 0
			c.emit(func(ev port.ViewerEvents) { ev.SessionEmpty(ctx) })
		} else {
			next := c.tabs.Find(out.NewActive)
			pass = c.activateLocked(ctx, next, restoreFor(next))
		}
	}
	c.metrics.OpenTabs(c.tabs.Count())
	view := entity.NewRememberedView(out.Tab)
	c.unlock()

	if err := c.rememberUC.Remember(ctx, view); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to remember view")
	}
	if out.WasActive {
		c.thumbnails.refresh(ctx, true)
	}
	return pass
}

// CloseActiveTab closes the active tab, if any.
func (c *SessionCoordinator) CloseActiveTab(ctx context.Context) *RenderPass {
	c.mu.Lock()
	active := c.tabs.ActiveTabID
	c.unlock()
	if active == "" {
		return nil
	}
	return c.CloseTab(ctx, active)
}

// CloseAllTabs closes every tab. Inactive tabs go first so no successor is
// rendered only to be closed again.
func (c *SessionCoordinator) CloseAllTabs(ctx context.Context) {
	c.mu.Lock()
	ids := c.tabs.IDs()
	active := c.tabs.ActiveTabID
	c.unlock()

	ids = slices.DeleteFunc(ids, func(id entity.TabID) bool { return id == active })
	if active != "" {
		ids = append(ids, active)
	}
	for _, id := range ids {
		c.CloseTab(ctx, id)
	}
	logging.FromContext(ctx).Debug().Int("closed", len(ids)).Msg("all tabs closed")
}

// UpdateTabData merges a partial view-state update into a tab. Identity and
// page count never change. Unknown ids are ignored.
func (c *SessionCoordinator) UpdateTabData(ctx context.Context, tabID entity.TabID, update entity.ViewStateUpdate) bool {
	c.mu.Lock()
	defer c.unlock()

	tab, changed, err := c.tabsUC.Update(ctx, c.tabs, tabID, update)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("update ignored")
		return false
	}
	if changed {
		c.emitViewState(ctx, tab)
	}
	return changed
}

// Tabs returns a snapshot of every tab in insertion order.
func (c *SessionCoordinator) Tabs() []entity.Tab {
	c.mu.Lock()
	defer c.unlock()

	tabs := make([]entity.Tab, 0, c.tabs.Count())
	for _, t := range c.tabs.Tabs {
		tabs = append(tabs, *t)
	}
	return tabs
}

// ActiveTabID returns the active tab id, empty when the session is empty.
func (c *SessionCoordinator) ActiveTabID() entity.TabID {
	c.mu.Lock()
	defer c.unlock()
	return c.tabs.ActiveTabID
}

// Tab returns a snapshot of one tab.
func (c *SessionCoordinator) Tab(tabID entity.TabID) (entity.Tab, bool) {
	c.mu.Lock()
	defer c.unlock()
	tab := c.tabs.Find(tabID)
	if tab == nil {
		return entity.Tab{}, false
	}
	return *tab, true
}

// IsEmpty reports whether no tab is open.
func (c *SessionCoordinator) IsEmpty() bool {
	c.mu.Lock()
	defer c.unlock()
	return c.tabs.IsEmpty()
}
