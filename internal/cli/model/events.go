package model

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/domain/entity"
)

// Messages delivered to the viewer model from the viewer core.
type (
	activeTabMsg struct{ tabID entity.TabID }

	viewStateMsg struct{ state entity.ViewState }

	renderProgressMsg struct {
		tabID  entity.TabID
		page   int
		status entity.RenderStatus
	}

	thumbnailReadyMsg struct {
		tabID entity.TabID
		page  int
	}

	sessionEmptyMsg struct{}

	documentFailedMsg struct {
		name string
		err  error
	}

	noticeMsg struct {
		id   port.NotificationID
		text string
		kind port.NotificationType
		zoom bool
	}

	dismissMsg struct{ id port.NotificationID }
)

// ProgramEvents turns viewer events and notifications into Bubble Tea
// messages. send is usually tea.Program.Send; it must not be called from
// inside Update, so events have to reach it through the main loop.
type ProgramEvents struct {
	send func(tea.Msg)
	ids  atomic.Uint64
}

var (
	_ port.ViewerEvents = (*ProgramEvents)(nil)
	_ port.Notification = (*ProgramEvents)(nil)
)

// NewProgramEvents creates the adapter.
func NewProgramEvents(send func(tea.Msg)) *ProgramEvents {
	return &ProgramEvents{send: send}
}

func (p *ProgramEvents) ActiveTabChanged(_ context.Context, tabID entity.TabID) {
	p.send(activeTabMsg{tabID: tabID})
}

func (p *ProgramEvents) ViewStateChanged(_ context.Context, state entity.ViewState) {
	p.send(viewStateMsg{state: state})
}

func (p *ProgramEvents) RenderProgress(_ context.Context, tabID entity.TabID, page int, status entity.RenderStatus) {
	p.send(renderProgressMsg{tabID: tabID, page: page, status: status})
}

func (p *ProgramEvents) ThumbnailReady(_ context.Context, tabID entity.TabID, page int) {
	p.send(thumbnailReadyMsg{tabID: tabID, page: page})
}

func (p *ProgramEvents) SessionEmpty(context.Context) {
	p.send(sessionEmptyMsg{})
}

func (p *ProgramEvents) DocumentFailed(_ context.Context, name string, err error) {
	p.send(documentFailedMsg{name: name, err: err})
}

// Show queues a notice line.
func (p *ProgramEvents) Show(_ context.Context, message string, kind port.NotificationType) port.NotificationID {
	id := p.nextID()
	p.send(noticeMsg{id: id, text: message, kind: kind})
	return id
}

// ShowZoom queues a zoom notice. A newer zoom notice replaces the previous one.
func (p *ProgramEvents) ShowZoom(_ context.Context, zoomPercent int) port.NotificationID {
	id := p.nextID()
	p.send(noticeMsg{id: id, text: fmt.Sprintf("Zoom %d%%", zoomPercent), kind: port.NotificationInfo, zoom: true})
	return id
}

// Dismiss removes a notice.
func (p *ProgramEvents) Dismiss(_ context.Context, id port.NotificationID) {
	p.send(dismissMsg{id: id})
}

func (p *ProgramEvents) nextID() port.NotificationID {
	return port.NotificationID(fmt.Sprintf("notice-%d", p.ids.Add(1)))
}
