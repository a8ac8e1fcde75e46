package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/logging"
	"github.com/bnema/tooldeck/internal/ui/dispatcher"
)

// uploadField is the multipart field carrying documents.
const uploadField = "files"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}

func writePNG(w http.ResponseWriter, img image.Image) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	// Headers are already sent; an encode error cannot be reported.
	_ = png.Encode(w, img)
}

func pageParam(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "page"))
	return n, err == nil && n >= 1
}

// handleOpenDocuments opens every uploaded file as a tab.
func (s *Server) handleOpenDocuments(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("parse upload: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "no files in field "+uploadField)
		return
	}

	sources := make([]usecase.DocumentSource, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("open %s: %v", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("read %s: %v", fh.Filename, err))
			return
		}
		sources = append(sources, usecase.DocumentSource{Name: fh.Filename, Data: data})
	}

	res := s.deps.Viewer.Session.OpenDocuments(s.ctx, sources)

	out := OpenResponse{Opened: make([]string, 0, len(res.Opened)), Failures: make([]OpenFailure, 0, len(res.Failures))}
	for _, id := range res.Opened {
		out.Opened = append(out.Opened, string(id))
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, OpenFailure{Name: f.Name, Error: f.Err.Error()})
	}

	status := http.StatusOK
	if len(out.Opened) == 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, out)
}

// handleCommand runs a named viewer command.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "command")
	err := s.deps.Dispatcher.DispatchName(s.ctx, name)
	switch {
	case errors.Is(err, dispatcher.ErrUnknownAction):
		writeError(w, http.StatusNotFound, "unknown_command", name)
	case errors.Is(err, dispatcher.ErrUnsupported):
		writeError(w, http.StatusNotImplemented, "unsupported", err.Error())
	case err != nil:
		logging.FromContext(s.ctx).Error().Err(err).Str("command", name).Msg("command failed")
		writeError(w, http.StatusInternalServerError, "command_failed", err.Error())
	default:
		w.WriteHeader(http.StatusAccepted)
	}
}

func (s *Server) handleListTabs(w http.ResponseWriter, _ *http.Request) {
	session := s.deps.Viewer.Session
	active := session.ActiveTabID()
	tabs := session.Tabs()

	out := TabsResponse{Tabs: make([]TabInfo, 0, len(tabs)), ActiveTabID: string(active)}
	for _, t := range tabs {
		out.Tabs = append(out.Tabs, tabInfo(t, active))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleActivateTab(w http.ResponseWriter, r *http.Request) {
	id := entity.TabID(chi.URLParam(r, "tabID"))
	if _, ok := s.deps.Viewer.Session.Tab(id); !ok {
		writeError(w, http.StatusNotFound, "unknown_tab", string(id))
		return
	}
	s.deps.Viewer.Session.ActivateTab(s.ctx, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCloseTab(w http.ResponseWriter, r *http.Request) {
	id := entity.TabID(chi.URLParam(r, "tabID"))
	if _, ok := s.deps.Viewer.Session.Tab(id); !ok {
		writeError(w, http.StatusNotFound, "unknown_tab", string(id))
		return
	}
	s.deps.Viewer.Session.CloseTab(s.ctx, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleViewState(w http.ResponseWriter, _ *http.Request) {
	view := s.deps.Viewer.View
	vs, ok := view.ViewState()
	if !ok {
		writeError(w, http.StatusNotFound, "no_active_tab", entity.ErrNoActiveTab.Error())
		return
	}
	writeJSON(w, http.StatusOK, ViewStateResponse{
		TabID:        string(vs.TabID),
		CurrentPage:  vs.CurrentPage,
		TotalPages:   vs.TotalPages,
		Scale:        vs.Scale,
		ZoomPercent:  vs.Percentage(),
		CanZoomIn:    vs.CanZoomIn(),
		CanZoomOut:   vs.CanZoomOut(),
		ScrollOffset: vs.ScrollOffset,
		Rendered:     view.RenderedPages(),
	})
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req ViewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	view := s.deps.Viewer.View
	if req.Width != nil || req.Height != nil {
		current := view.Viewport()
		width, height := current.Width, current.Height
		if req.Width != nil {
			width = *req.Width
		}
		if req.Height != nil {
			height = *req.Height
		}
		view.SetViewportSize(s.ctx, width, height)
	}
	if req.ScrollTop != nil {
		view.NotifyScroll(s.ctx, *req.ScrollTop)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGoToPage(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "page must be a positive integer")
		return
	}
	if _, active := s.deps.Viewer.View.ViewState(); !active {
		writeError(w, http.StatusNotFound, "no_active_tab", entity.ErrNoActiveTab.Error())
		return
	}
	s.deps.Viewer.View.GoToPage(s.ctx, page)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePageImage(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "page must be a positive integer")
		return
	}
	rp, ok := s.deps.Viewer.View.Surface(page)
	if !ok {
		writeError(w, http.StatusNotFound, "not_rendered", fmt.Sprintf("page %d has no surface", page))
		return
	}
	writePNG(w, rp.Surface)
}

func (s *Server) handleThumbnails(w http.ResponseWriter, _ *http.Request) {
	thumbs := s.deps.Viewer.Thumbnails
	slots := thumbs.Slots()
	out := ThumbnailsResponse{Expanded: thumbs.Expanded(), Slots: make([]ThumbnailInfo, 0, len(slots))}
	for _, slot := range slots {
		out.Slots = append(out.Slots, ThumbnailInfo{Page: slot.Page, Rendered: slot.Rendered(), Active: slot.Active})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleThumbnailViewport(w http.ResponseWriter, r *http.Request) {
	if s.deps.Strip == nil {
		writeError(w, http.StatusNotImplemented, "unsupported", "no visibility observer")
		return
	}
	var req StripWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	s.deps.Strip.SetWindow(req.Top, req.Height)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleThumbnailImage(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "page must be a positive integer")
		return
	}
	slots := s.deps.Viewer.Thumbnails.Slots()
	if page > len(slots) || !slots[page-1].Rendered() {
		writeError(w, http.StatusNotFound, "not_rendered", fmt.Sprintf("thumbnail %d is not rendered", page))
		return
	}
	writePNG(w, slots[page-1].Surface)
}
