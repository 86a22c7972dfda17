package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jain13abhi/dockfinity-costing-app/internal/backup"
	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
	"github.com/jain13abhi/dockfinity-costing-app/internal/report"
	"github.com/jain13abhi/dockfinity-costing-app/internal/sheet"
	"github.com/jain13abhi/dockfinity-costing-app/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type server struct {
	store  *store.Store
	logger *zap.Logger
	policy costing.Policy
	now    func() time.Time
}

func newServer(st *store.Store, logger *zap.Logger, policy costing.Policy) *server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &server{store: st, logger: logger, policy: policy, now: time.Now}
}

func (s *server) routes(limiter *ipRateLimiter) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.middleware)
		}
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)

		r.Get("/items", s.handleListItems)
		r.Post("/items", s.handleCreateItem)
		r.Route("/items/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetItem)
			r.Put("/", s.handleUpdateItem)
			r.Delete("/", s.handleDeleteItem)
			r.Post("/calculate", s.handleCalculateItem)
			r.Get("/result", s.handleGetResult)
			r.Get("/report.pdf", s.handleReport)
		})

		r.Post("/calculate", s.handleCalculate)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Get("/export.xlsx", s.handleExportXLSX)
		r.Post("/import.xlsx", s.handleImportXLSX)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings costing.AppSettings
	if err := decodeJSON(w, r, &settings); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := costing.ValidateSettings(settings); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdateSettings(r.Context(), settings); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var it costing.Item
	if err := decodeJSON(w, r, &it); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireName(it); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := costing.ValidateItem(it); err != nil {
		s.writeError(w, r, err)
		return
	}
	it.ID = ""
	created, err := s.store.CreateItem(r.Context(), it)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/items/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.store.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var it costing.Item
	if err := decodeJSON(w, r, &it); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := requireName(it); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := costing.ValidateItem(it); err != nil {
		s.writeError(w, r, err)
		return
	}
	it.ID = chi.URLParam(r, "id")
	updated, err := s.store.UpdateItem(r.Context(), it)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleCalculateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	it, err := s.store.GetItem(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.calculate(it, settings)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SaveResult(ctx, res); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("item costed",
		zap.String("item_id", it.ID),
		zap.Float64("per_kg_rate", res.PerKgRate),
		zap.Float64("per_pc_rate", res.PerPcRate),
	)
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.GetResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type calculateRequest struct {
	Item     costing.Item         `json:"item"`
	Settings *costing.AppSettings `json:"settings,omitempty"`
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var settings costing.AppSettings
	if req.Settings != nil {
		settings = *req.Settings
	} else {
		stored, err := s.store.GetSettings(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		settings = stored
	}
	res, err := s.calculate(req.Item, settings)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	it, err := s.store.GetItem(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.store.GetResult(ctx, it.ID)
	if errors.Is(err, store.ErrNotFound) {
		res, err = s.calculate(it, settings)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.CostSheet(&buf, it, settings, res); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, it.ID))
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.store.ListItems(ctx, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := backup.Export(&buf, backup.New(settings, items, s.now())); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="costing-backup.json"`)
	_, _ = w.Write(buf.Bytes())
}

type importResponse struct {
	Items    int      `json:"items"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := backup.Import(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.ReplaceAll(r.Context(), data.Settings, data.Items); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("backup restored", zap.String("version", data.Version), zap.Int("items", len(data.Items)))
	writeJSON(w, http.StatusOK, importResponse{Items: len(data.Items)})
}

func (s *server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := s.store.ListItems(ctx, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	results := make(map[string]costing.CalcResult, len(items))
	for _, it := range items {
		res, err := s.store.GetResult(ctx, it.ID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		results[it.ID] = res
	}

	var buf bytes.Buffer
	if err := sheet.WriteItems(&buf, items, results); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="items.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

// handleImportXLSX upserts every row by id. Nothing is written when any row
// is rejected.
func (s *server) handleImportXLSX(w http.ResponseWriter, r *http.Request) {
	parsed, err := sheet.ReadItems(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if len(parsed.Errors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "workbook has invalid rows", Rows: parsed.Errors})
		return
	}

	stats, err := s.store.UpsertItems(r.Context(), parsed.Items)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("workbook imported", zap.Int("created", stats.Created), zap.Int("updated", stats.Updated))
	writeJSON(w, http.StatusOK, importResponse{Items: len(parsed.Items), Warnings: parsed.Warnings})
}

func (s *server) calculate(it costing.Item, settings costing.AppSettings) (costing.CalcResult, error) {
	c, err := costing.Compute(it, settings, s.policy)
	if err != nil {
		return costing.CalcResult{}, err
	}
	return c.Result(it.ID, s.now()), nil
}

func requireName(it costing.Item) error {
	if strings.TrimSpace(it.Name) == "" {
		return &costing.ValidationError{Field: "name", Reason: "is required"}
	}
	return nil
}
