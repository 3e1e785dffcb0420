package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/report"
	"budgetbuddy/internal/services"

	"github.com/shopspring/decimal"
)

// Flash texts shown after form submissions.
const (
	msgBudgetUpdated = "Budget limit updated successfully!"
	msgInvalidBudget = "Invalid budget limit."
	msgInvalidAmount = "Invalid amount entered."
	msgInvalidDate   = "Invalid date."
	msgInvalidType   = "Invalid transaction type."
	msgSaveFailed    = "Could not save your changes, please try again."
)

var templateFuncs = template.FuncMap{
	"money": core.FormatAmount,
	"percent": func(p float64) string {
		return strconv.FormatFloat(p, 'f', 1, 64)
	},
	// meter clamps a usage percentage to the <meter> range.
	"meter": func(p float64) float64 {
		return min(max(p, 0), 100)
	},
	"share": func(part, total decimal.Decimal) float64 {
		if !total.IsPositive() {
			return 0
		}
		return part.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
	},
}

type dashboardPage struct {
	services.Dashboard
	Flashes []Flash
	Today   string
}

type addFormPage struct {
	Type    core.TransactionType
	Today   string
	Flashes []Flash
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page := dashboardPage{
		Dashboard: s.budget.Dashboard(r.Context()),
		Flashes:   PopFlashes(w, r),
		Today:     s.now().Format(core.DateLayout),
	}
	s.render(w, r, "dashboard.html", page)
}

func (s *Server) handleAddForm(w http.ResponseWriter, r *http.Request) {
	page := addFormPage{
		Type:    FormType(r.URL.Query()),
		Today:   s.now().Format(core.DateLayout),
		Flashes: PopFlashes(w, r),
	}
	s.render(w, r, "add_transaction.html", page)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	if err := parseForm(w, r); err != nil {
		logger.WarnContext(ctx, "Parse form error", log.FieldError, err)
		Redirect("/").Error(msgInvalidAmount).Write(w, r)
		return
	}

	in := ParseTransactionForm(r.PostForm)
	t, err := s.budget.AddTransaction(ctx, in)
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		logger.InfoContext(ctx, "Rejected transaction", log.FieldError, err, log.FieldTxType, in.Type)
		Redirect("/").Error(invalidTransactionMessage(err)).Write(w, r)
		return
	case err != nil:
		logger.ErrorContext(ctx, "Save transaction failed", log.FieldError, err)
		Redirect("/").Error(msgSaveFailed).Write(w, r)
		return
	}

	logger.InfoContext(ctx, "Transaction recorded",
		log.FieldTransaction, t.ID,
		log.FieldTxType, t.Type,
		log.FieldAmount, core.FormatAmount(t.Amount),
		log.FieldCategory, t.Category)
	Redirect("/").Success(t.Type.Title()+" added successfully!").Write(w, r)
}

// invalidTransactionMessage names the field that failed validation.
func invalidTransactionMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return msgInvalidDate
	case errors.Is(err, core.ErrInvalidType):
		return msgInvalidType
	default:
		return msgInvalidAmount
	}
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	if err := parseForm(w, r); err != nil {
		logger.WarnContext(ctx, "Parse form error", log.FieldError, err)
		Redirect("/").Error(msgInvalidBudget).Write(w, r)
		return
	}

	limit, err := s.budget.SetBudgetLimit(ctx, r.PostForm.Get("budget_limit"))
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		logger.InfoContext(ctx, "Rejected budget limit", log.FieldError, err)
		Redirect("/").Error(msgInvalidBudget).Write(w, r)
		return
	case err != nil:
		logger.ErrorContext(ctx, "Save budget limit failed", log.FieldError, err)
		Redirect("/").Error(msgSaveFailed).Write(w, r)
		return
	}

	logger.InfoContext(ctx, "Budget limit updated", log.FieldBudgetLimit, limit.String())
	Redirect("/").Success(msgBudgetUpdated).Write(w, r)
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := report.Render(&buf, s.budget.Summary(r.Context())); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Render report failed", log.FieldError, err)
		http.Error(w, "could not generate report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(s.budget.Dashboard(r.Context())); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Encode summary failed", log.FieldError, err)
	}
}

// render executes a template into a buffer so a failure can still become a
// clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err, "template", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
