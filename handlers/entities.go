package handlers

import (
	"net/http"

	"tolldesk/models"
	"tolldesk/session"
	"tolldesk/store"
)

// EntitiesHandler serves the reference collections of the caller's snapshot.
type EntitiesHandler struct{}

func NewEntitiesHandler() *EntitiesHandler {
	return &EntitiesHandler{}
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func serveList[T any](w http.ResponseWriter, r *http.Request, pick func(*store.Store) []T) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	s, ok := sessionOrFail(w, r)
	if !ok {
		return
	}
	items := pick(s.Store())
	writeJSON(w, http.StatusOK, listResponse[T]{Items: items, Count: len(items)})
}

func (h *EntitiesHandler) Companies(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, (*store.Store).Companies)
}

func (h *EntitiesHandler) Stations(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, (*store.Store).Stations)
}

func (h *EntitiesHandler) Groups(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, (*store.Store).Groups)
}

func (h *EntitiesHandler) Collectors(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, (*store.Store).Collectors)
}

func (h *EntitiesHandler) Monitors(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, (*store.Store).Monitors)
}

func (h *EntitiesHandler) Shifts(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, (*store.Store).Shifts)
}

// Users lists administrator accounts; passwords never leave the server.
func (h *EntitiesHandler) Users(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, (*store.Store).Users)
}

// DataHandler re-pulls the caller's snapshot.
type DataHandler struct {
	sessions *session.Manager
}

func NewDataHandler(sessions *session.Manager) *DataHandler {
	return &DataHandler{sessions: sessions}
}

type ReloadResponse struct {
	Counts  map[models.Entity]int `json:"counts"`
	Notices []Notice              `json:"notices"`
}

// Reload fetches every collection again and reports what was loaded
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	h.sessions.Reload(r.Context(), s)

	data := s.Store()
	counts := make(map[models.Entity]int, len(models.Entities))
	for _, e := range models.Entities {
		counts[e] = data.Len(e)
	}
	writeJSON(w, http.StatusOK, ReloadResponse{Counts: counts, Notices: noticesOf(s.Notices())})
}
