package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
)

// TabIDGenerator returns the next tab id. Ids must never repeat within a run.
type TabIDGenerator func() entity.TabID

// NewSequentialTabIDs returns a generator producing tab-1, tab-2, ...
func NewSequentialTabIDs() TabIDGenerator {
	var seq atomic.Uint64
	return func() entity.TabID {
		return entity.NewTabID(seq.Add(1))
	}
}

// ManageTabsUseCase handles tab lifecycle operations on a TabList.
type ManageTabsUseCase struct {
	idGenerator TabIDGenerator
}

// NewManageTabsUseCase creates a new tab management use case.
func NewManageTabsUseCase(idGenerator TabIDGenerator) *ManageTabsUseCase {
	if idGenerator == nil {
		idGenerator = NewSequentialTabIDs()
	}
	return &ManageTabsUseCase{
		idGenerator: idGenerator,
	}
}

// CreateTabInput contains parameters for creating a new tab.
type CreateTabInput struct {
	TabList     *entity.TabList
	Name        string
	TotalPages  int
	Fingerprint entity.Fingerprint
	// Restore optionally seeds page and scale from a remembered view.
	Restore *entity.RememberedView
}

// CreateTabOutput contains the result of tab creation.
type CreateTabOutput struct {
	Tab            *entity.Tab
	PreviousActive entity.TabID
}

// Create appends a new tab and makes it the active tab.
func (uc *ManageTabsUseCase) Create(ctx context.Context, input CreateTabInput) (*CreateTabOutput, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("name", input.Name).
		Int("total_pages", input.TotalPages).
		Msg("creating new tab")

	if input.TabList == nil {
		return nil, fmt.Errorf("tab list is required")
	}
	if input.TotalPages < 1 {
		return nil, fmt.Errorf("document has no pages")
	}

	tab := entity.NewTab(uc.idGenerator(), input.Name, input.TotalPages)
	tab.Fingerprint = input.Fingerprint
	if r := input.Restore; r != nil {
		tab.Apply(entity.ViewStateUpdate{CurrentPage: &r.Page, Scale: &r.Scale})
		log.Debug().
			Int("page", tab.CurrentPage).
			Float64("scale", tab.Scale).
			Msg("restored remembered view")
	}

	previous := input.TabList.ActiveTabID
	input.TabList.Add(tab)
	input.TabList.ActiveTabID = tab.ID

	log.Info().
		Str("tab_id", string(tab.ID)).
		Str("previous_active", string(previous)).
		Int("tabs", input.TabList.Count()).
		Msg("tab created")

	return &CreateTabOutput{Tab: tab, PreviousActive: previous}, nil
}

// CloseTabOutput describes what closing a tab did to the session.
type CloseTabOutput struct {
	Tab       *entity.Tab // nil when the id was unknown
	WasActive bool
	NewActive entity.TabID // successor when WasActive, empty if none
	Empty     bool
}

// Close removes a tab from the list. Unknown ids are a no-op.
func (uc *ManageTabsUseCase) Close(ctx context.Context, tabs *entity.TabList, tabID entity.TabID) (*CloseTabOutput, error) {
	ctx = logging.WithTabID(ctx, string(tabID))
	log := logging.FromContext(ctx)

	log.Debug().Msg("closing tab")

	if tabs == nil {
		return nil, fmt.Errorf("tab list is required")
	}

	tab := tabs.Find(tabID)
	if tab == nil {
		log.Debug().Msg("tab not found")
		return &CloseTabOutput{Empty: tabs.IsEmpty()}, nil
	}

	wasActive := tabs.ActiveTabID == tabID
	if !tabs.Remove(tabID) {
		return nil, fmt.Errorf("failed to remove tab")
	}

	out := &CloseTabOutput{
		Tab:       tab,
		WasActive: wasActive,
		Empty:     tabs.IsEmpty(),
	}
	if wasActive {
		out.NewActive = tabs.ActiveTabID
	}

	log.Info().
		Str("new_active", string(tabs.ActiveTabID)).
		Int("remaining", tabs.Count()).
		Msg("tab closed")

	return out, nil
}

// Switch changes the active tab. Returns false when the tab was already active.
func (uc *ManageTabsUseCase) Switch(ctx context.Context, tabs *entity.TabList, tabID entity.TabID) (bool, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("tab_id", string(tabID)).Msg("switching to tab")

	if tabs == nil {
		return false, fmt.Errorf("tab list is required")
	}

	if tabs.Find(tabID) == nil {
		return false, fmt.Errorf("%w: %s", entity.ErrUnknownTab, tabID)
	}
	if tabs.ActiveTabID == tabID {
		return false, nil
	}

	oldActive := tabs.ActiveTabID
	tabs.ActiveTabID = tabID

	log.Info().
		Str("from", string(oldActive)).
		Str("to", string(tabID)).
		Msg("tab switched")

	return true, nil
}

// Update merges a partial view-state update into a tab.
// Returns the tab and whether anything changed.
func (uc *ManageTabsUseCase) Update(
	ctx context.Context,
	tabs *entity.TabList,
	tabID entity.TabID,
	update entity.ViewStateUpdate,
) (*entity.Tab, bool, error) {
	if tabs == nil {
		return nil, false, fmt.Errorf("tab list is required")
	}

	tab := tabs.Find(tabID)
	if tab == nil {
		return nil, false, fmt.Errorf("%w: %s", entity.ErrUnknownTab, tabID)
	}

	changed := tab.Apply(update)
	if changed {
		logging.FromContext(ctx).Trace().
			Str("tab_id", string(tabID)).
			Int("page", tab.CurrentPage).
			Float64("scale", tab.Scale).
			Msg("tab view state updated")
	}
	return tab, changed, nil
}

// GetNext returns the next tab ID in the given direction.
// direction: 1 for next, -1 for previous. Wraps around.
func (uc *ManageTabsUseCase) GetNext(tabs *entity.TabList, direction int) entity.TabID {
	if tabs == nil || tabs.Count() == 0 {
		return ""
	}

	currentPos := tabs.IndexOf(tabs.ActiveTabID)
	if currentPos < 0 {
		return tabs.Tabs[0].ID
	}

	newPos := currentPos + direction
	if newPos < 0 {
		newPos = tabs.Count() - 1
	} else if newPos >= tabs.Count() {
		newPos = 0
	}

	return tabs.Tabs[newPos].ID
}
