package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"tolldesk/audit"
	"tolldesk/export"
	"tolldesk/filter"
	"tolldesk/lookup"
	"tolldesk/metrics"
	"tolldesk/models"
	"tolldesk/session"
)

type RecordsHandler struct {
	trail *audit.Trail
	now   func() time.Time
}

func NewRecordsHandler(trail *audit.Trail) *RecordsHandler {
	return &RecordsHandler{trail: trail, now: time.Now}
}

// RecordView is one rendered row of the records table.
type RecordView struct {
	lookup.EnrichedRecord
	Date          string `json:"date"`
	AmountDisplay string `json:"amount_display"`
	Status        string `json:"status"`
}

type RecordsResponse struct {
	Records  []RecordView    `json:"records"`
	Count    int             `json:"count"`
	Criteria filter.Criteria `json:"criteria"`
}

// List applies the criteria in the query string and returns the matching rows
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	s, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	criteria := filter.Criteria{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		CompanyID: models.ParseID(q.Get("company_id")),
		StationID: models.ParseID(q.Get("station_id")),
	}
	if err := validate.Struct(criteria); err != nil {
		writeError(w, "Dates must use the YYYY-MM-DD format", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, render(s, s.ApplyFilters(criteria)))
}

// Reset clears the criteria and returns the full scoped record set
func (h *RecordsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, render(s, s.ResetFilters()))
}

// Export writes the currently filtered records as a spreadsheet download
func (h *RecordsHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	s, ok := sessionOrFail(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := export.Project(s.Filtered(), s.Resolver(), s.Location())

	var buf bytes.Buffer
	if err := export.Write(&buf, format, rows); err != nil {
		log.Error().Err(err).Str("user", s.User.Username).Msg("export failed")
		writeError(w, "Export failed, please try again later", http.StatusInternalServerError)
		return
	}

	filename := export.FileName(format, h.now().In(s.Location()))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Msg("export download interrupted")
		return
	}

	metrics.Exports.WithLabelValues(string(format)).Inc()
	h.trail.Record(s.User, audit.ActionExport, fmt.Sprintf("exported %d records as %s", len(rows), format))
}

func render(s *session.Session, records []models.TollRecord) RecordsResponse {
	enriched := s.Resolver().Enrich(records)
	views := make([]RecordView, len(enriched))
	for i, e := range enriched {
		views[i] = RecordView{
			EnrichedRecord: e,
			Date:           export.FormatTimestamp(e.CreatedAt, s.Location()),
			AmountDisplay:  export.DisplayAmount(e.Amount),
			Status:         export.Status(e.IsFree),
		}
	}
	return RecordsResponse{
		Records:  views,
		Count:    len(views),
		Criteria: s.Criteria(),
	}
}
