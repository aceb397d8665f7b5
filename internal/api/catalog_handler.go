package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/codegen-api/internal/api/shared"
	"github.com/phrazzld/codegen-api/internal/domain"
)

// CatalogHandler serves the language and provider listings.
type CatalogHandler struct {
	service GenerationService
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(service GenerationService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListLanguages handles GET /api/languages.
func (h *CatalogHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	profiles := h.service.Profiles()
	langs := profiles.Languages()

	resp := make([]LanguageResponse, 0, len(langs))
	for _, lang := range langs {
		profile, _ := profiles.Lookup(lang)
		resp = append(resp, languageToResponse(lang, profile))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetLanguage handles GET /api/languages/{name}.
func (h *CatalogHandler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	profiles := h.service.Profiles()
	lang, ok := profiles.Parse(chi.URLParam(r, "name"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Language not supported",
			shared.WithErrorKind(string(domain.KindInvalidRequest)))
		return
	}
	profile, _ := profiles.Lookup(lang)
	shared.RespondWithJSON(w, r, http.StatusOK, languageToResponse(lang, profile))
}

// ListProviders handles GET /api/providers.
func (h *CatalogHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, ProvidersResponse{Providers: h.service.Providers()})
}

// ListModels handles GET /api/providers/{provider}/models.
func (h *CatalogHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")
	models, err := h.service.Models(r.Context(), name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err,
			shared.WithErrorKind(errorKind(err)))
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ModelsResponse{
		Provider: canonicalProvider(name),
		Models:   models,
	})
}
