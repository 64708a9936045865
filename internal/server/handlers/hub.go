package handlers

import (
	"net/http"

	"github.com/agentstation/modelreg/internal/server/response"
	"github.com/agentstation/modelreg/pkg/families/deepseek"
)

// HandleSearchHub handles GET /v1/hub/models?author=&search=. The author
// defaults to the configured publisher; distill=true lists the DeepSeek-R1
// distill versions instead.
func (h *Handlers) HandleSearchHub(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	author := q.Get("author")
	if author == "" {
		author = h.app.Settings().Publisher
	}

	catalog, err := h.app.Catalog()
	if err != nil {
		response.InternalError(w, err)
		return
	}

	if q.Get("distill") == "true" {
		versions, err := deepseek.ListDistillVersions(r.Context(), catalog, author)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		response.OK(w, map[string]any{"author": author, "versions": versions})
		return
	}

	models, err := catalog.ListModels(r.Context(), author, q.Get("search"))
	if err != nil {
		h.logger.Warn().Err(err).Str("author", author).Msg("Hub search failed")
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"author": author, "models": models, "count": len(models)})
}
