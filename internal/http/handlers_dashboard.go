package http

import (
	"bytes"
	"net/http"
	"unicode/utf8"

	"creditlens/internal/core"
	"creditlens/internal/log"
)

const (
	detailsPlaceholder = "לחץ על פלח בגרף להצגת נתונים"
	detailsTitlePrefix = "פירוט עבור: "
	pageTitlePrefix    = "דוח הוצאות - "
	maxCategoryRunes   = 200
)

type dashboardView struct {
	Title       string
	FileName    string
	Total       string
	Categories  int
	Records     int
	Dropped     int
	Siblings    int
	Sources     []string
	Placeholder string
	Generated   string
}

type detailRowView struct {
	Business string
	Amount   string
	Total    bool
}

type detailsView struct {
	Title       string
	Category    string
	Selected    bool
	Found       bool
	HasBusiness bool
	Rows        []detailRowView
}

type summaryPayload struct {
	Labels    []string  `json:"labels"`
	Values    []float64 `json:"values"`
	Total     float64   `json:"total"`
	TotalText string    `json:"total_text"`
}

type comparisonPayload struct {
	Labels   []string  `json:"labels"`
	Current  []float64 `json:"current"`
	Average  []float64 `json:"average"`
	Siblings int       `json:"siblings"`
	Sources  []string  `json:"sources"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldOperation, log.OpRender)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	st := s.report.Statement
	name := core.DisplayName(st.Source)
	view := dashboardView{
		Title:       pageTitlePrefix + name,
		FileName:    name,
		Total:       core.FormatShekels(s.report.Total),
		Categories:  len(s.report.Summary),
		Records:     len(st.Records),
		Dropped:     st.DroppedRows,
		Siblings:    s.report.Baseline.Statements,
		Placeholder: detailsPlaceholder,
		Generated:   s.report.GeneratedAt.Format("2006-01-02 15:04"),
	}
	for _, src := range s.report.Baseline.Sources {
		view.Sources = append(view.Sources, core.DisplayName(src))
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", view); err != nil {
		logger.ErrorContext(r.Context(), "Dashboard template execution failed",
			log.FieldError, err.Error(),
			log.FieldOperation, log.OpRender)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleSummaryData feeds the doughnut chart.
func (s *Server) handleSummaryData(w http.ResponseWriter, r *http.Request) {
	p := summaryPayload{
		Labels:    make([]string, 0, len(s.report.Summary)),
		Values:    make([]float64, 0, len(s.report.Summary)),
		Total:     s.report.Total.InexactFloat64(),
		TotalText: core.FormatShekels(s.report.Total),
	}
	for _, c := range s.report.Summary {
		p.Labels = append(p.Labels, c.Name)
		p.Values = append(p.Values, c.Amount.InexactFloat64())
	}
	writeJSON(w, r, http.StatusOK, p)
}

// handleComparisonData feeds the grouped bar chart. The first entry is the
// month total.
func (s *Server) handleComparisonData(w http.ResponseWriter, r *http.Request) {
	rows := s.report.Comparison
	p := comparisonPayload{
		Labels:   make([]string, 0, len(rows)),
		Current:  make([]float64, 0, len(rows)),
		Average:  make([]float64, 0, len(rows)),
		Siblings: s.report.Baseline.Statements,
		Sources:  make([]string, 0, len(s.report.Baseline.Sources)),
	}
	for _, row := range rows {
		p.Labels = append(p.Labels, row.Label)
		p.Current = append(p.Current, row.Current.InexactFloat64())
		p.Average = append(p.Average, row.Average.InexactFloat64())
	}
	for _, src := range s.report.Baseline.Sources {
		p.Sources = append(p.Sources, core.DisplayName(src))
	}
	writeJSON(w, r, http.StatusOK, p)
}

// handleDetails renders the drill-down partial for ?category=.
func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	category := categoryParam(r)
	if utf8.RuneCountInString(category) > maxCategoryRunes {
		BadRequestError("קטגוריה לא תקינה").Write(w)
		return
	}
	if s.templates == nil {
		InternalServerError("templates not loaded").Write(w)
		return
	}

	view := detailsView{
		Title:       detailsPlaceholder,
		Category:    category,
		HasBusiness: s.report.Statement.HasBusiness(),
	}
	if category != "" {
		view.Selected = true
		view.Title = detailsTitlePrefix + category
		rows := s.details(category)
		view.Found = len(rows) > 0
		s.metrics.DetailLookup(view.Found)
		for _, row := range rows {
			view.Rows = append(view.Rows, detailRowView{
				Business: row.Business,
				Amount:   core.FormatAmount(row.Amount),
				Total:    row.Total,
			})
		}
		logger.DebugContext(ctx, "Details rendered",
			log.FieldCategory, category,
			log.FieldRecords, len(rows),
			log.FieldOperation, log.OpDetail)
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "details.html", view); err != nil {
		logger.ErrorContext(ctx, "Details template execution failed",
			log.FieldError, err.Error(),
			log.FieldCategory, category)
		InternalServerError("שגיאה בהצגת הנתונים").
			TriggerErrorNotification("שגיאה בהצגת הנתונים").
			Write(w)
		return
	}

	b := NewHTMXResponse().BodyHTML(buf.String())
	if view.Found {
		b.TriggerCategorySelected(category)
	}
	b.Write(w)
}

// details serves known categories through the cache. Unknown keys are not
// cached so arbitrary query strings cannot fill it.
func (s *Server) details(category string) []core.DetailRow {
	if !s.report.HasCategory(category) {
		return s.report.Details(category)
	}
	rows, hit := s.detailCache.GetOrLoad(category, func() []core.DetailRow {
		return s.report.Details(category)
	})
	s.metrics.DetailCache(hit)
	return rows
}
