package export

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/export"
	"github.com/MrJamesThe3rd/backoffice/internal/http/shell"
	"github.com/MrJamesThe3rd/backoffice/internal/http/view"
)

type Handler struct {
	view *view.Renderer
	now  func() time.Time
}

func NewHandler(v *view.Renderer) *Handler {
	return &Handler{view: v, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/accounting/expenses/export", h.download)
	r.Get("/accounting/expenses/summary", h.summary)
}

type groupResponse struct {
	Method string `json:"method"`
	Label  string `json:"label"`
	Total  string `json:"total"`
	Count  int    `json:"count"`
}

type summaryResponse struct {
	Groups []groupResponse `json:"groups"`
	Total  string          `json:"total"`
	Count  int             `json:"count"`
}

func filterFrom(r *http.Request) export.Filter {
	var filter export.Filter

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	if s := r.URL.Query().Get("method"); s != "" {
		filter.Method = api.PaymentMethod(s)
	}

	return filter
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	items, err := export.NewService(m.Client).Export(r.Context(), filterFrom(r))
	if err != nil {
		h.view.Fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, items); err != nil {
		slog.Error("failed to write csv", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(h.now())+`"`)

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	items, err := export.NewService(m.Client).Export(r.Context(), filterFrom(r))
	if err != nil {
		http.Error(w, view.Message(err), http.StatusBadGateway)
		return
	}

	totals := export.ByMethod(items)
	sum := totals.Sum()

	resp := summaryResponse{
		Groups: make([]groupResponse, 0, len(totals)),
		Total:  sum.Total.StringFixed(2),
		Count:  sum.Count,
	}

	for _, g := range totals.Sorted() {
		resp.Groups = append(resp.Groups, groupResponse{
			Method: g.Key,
			Label:  api.PaymentMethod(g.Key).Label(),
			Total:  g.Total.StringFixed(2),
			Count:  g.Count,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
