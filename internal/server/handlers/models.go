package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentstation/modelreg/internal/server/filter"
	"github.com/agentstation/modelreg/internal/server/response"
	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/families"
	"github.com/agentstation/modelreg/pkg/hub"
	"github.com/agentstation/modelreg/pkg/registry"
)

// ModelDetail is a registered model, optionally with its hub record.
type ModelDetail struct {
	registry.ModelInfo
	ID  string         `json:"id"`
	Hub *hub.ModelInfo `json:"hub,omitempty"`
}

// HandleListModels handles GET /v1/models.
//
// Query parameters: family, org, quant, search, original, sort (id, family,
// quant, size), order (asc, desc), limit (1-1000, default 100), offset.
func (h *Handlers) HandleListModels(w http.ResponseWriter, r *http.Request) {
	cacheKey := "models:" + r.URL.RawQuery
	if cached, ok := h.cache.Get(cacheKey); ok {
		response.OK(w, cached)
		return
	}

	f, err := filter.ParseModelFilter(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	reg, err := h.app.Registry(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Registry not available")
		response.InternalError(w, err)
		return
	}

	page := f.Apply(reg.List())
	h.cache.Set(cacheKey, page)
	response.OK(w, page)
}

// HandleGetModel handles GET /v1/models/{org}/{name}. With hub=true the
// hub record is fetched as well.
func (h *Handlers) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "org") + "/" + chi.URLParam(r, "name")

	reg, err := h.app.Registry(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Registry not available")
		response.InternalError(w, err)
		return
	}

	info, ok := reg.Get(id)
	if !ok {
		response.ErrorFromType(w, errors.NewNotFoundError("model", id))
		return
	}
	detail := ModelDetail{ModelInfo: info, ID: id}

	if r.URL.Query().Get("hub") == "true" {
		catalog, err := h.app.Catalog()
		if err != nil {
			response.InternalError(w, err)
			return
		}
		remote, err := catalog.ModelInfo(r.Context(), id)
		if err != nil {
			h.logger.Debug().Err(err).Str("model_id", id).Msg("Hub lookup failed")
			response.ErrorFromType(w, err)
			return
		}
		detail.Hub = remote
	}

	response.OK(w, detail)
}

// HandleListFamilies handles GET /v1/families.
func (h *Handlers) HandleListFamilies(w http.ResponseWriter, r *http.Request) {
	all, err := families.Resolve(h.app.Settings().FamiliesFile)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	reg, err := h.app.Registry(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.OK(w, map[string]any{"families": families.Summarize(all, reg)})
}
