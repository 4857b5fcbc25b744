package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/sportify/internal/apperror"
	"github.com/sakif/sportify/internal/catalog"
	"github.com/sakif/sportify/internal/model"
	"github.com/sakif/sportify/internal/service"
)

// CatalogHandler serves the sports catalog and the favourites of the active
// identity.
type CatalogHandler struct {
	provider   catalog.Provider
	favourites *service.FavouritesService
	logger     *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(provider catalog.Provider, favourites *service.FavouritesService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		provider:   provider,
		favourites: favourites,
		logger:     logger,
	}
}

// catalogItem is a catalog entry as the home screen renders it, with the
// heart already filled in.
type catalogItem struct {
	model.SportItem
	Favourite bool `json:"favourite"`
}

type favouriteResponse struct {
	ID        string `json:"id"`
	Favourite bool   `json:"favourite"`
}

// HandleList returns the catalog, optionally narrowed.
//
// HTTP: GET /api/catalog?category=Player&q=tennis
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	category := model.SportCategory(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		writeError(w, apperror.ValidationFailed("category", "category must be Match, Player or Team"))
		return
	}

	items, err := h.provider.FetchSportsData(r.Context())
	if err != nil {
		h.logger.Error("catalog fetch failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	items = catalog.Filter(items, category, r.URL.Query().Get("q"))

	out := make([]catalogItem, len(items))
	for i, it := range items {
		out[i] = catalogItem{SportItem: it, Favourite: h.favourites.Contains(it.ID)}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet returns one catalog item.
//
// HTTP: GET /api/catalog/{id}
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	item, err := catalog.Find(r.Context(), h.provider, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogItem{SportItem: item, Favourite: h.favourites.Contains(item.ID)})
}

// HandleListFavourites returns the favourites in the order they were added.
//
// HTTP: GET /api/favourites
func (h *CatalogHandler) HandleListFavourites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.favourites.Items())
}

// HandleAddFavourite marks a catalog item as a favourite. Adding one twice
// is not an error.
//
// HTTP: PUT /api/favourites/{id}
func (h *CatalogHandler) HandleAddFavourite(w http.ResponseWriter, r *http.Request) {
	item, err := catalog.Find(r.Context(), h.provider, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.favourites.Add(r.Context(), item)
	writeJSON(w, http.StatusOK, favouriteResponse{ID: item.ID, Favourite: true})
}

// HandleRemoveFavourite unmarks an item. Removing a non-favourite is not an
// error.
//
// HTTP: DELETE /api/favourites/{id}
func (h *CatalogHandler) HandleRemoveFavourite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.favourites.Remove(r.Context(), id)
	writeJSON(w, http.StatusOK, favouriteResponse{ID: id, Favourite: false})
}

// HandleToggleFavourite flips the heart on a catalog item.
//
// HTTP: POST /api/favourites/{id}/toggle
func (h *CatalogHandler) HandleToggleFavourite(w http.ResponseWriter, r *http.Request) {
	item, err := catalog.Find(r.Context(), h.provider, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	on := h.favourites.Toggle(r.Context(), item)
	writeJSON(w, http.StatusOK, favouriteResponse{ID: item.ID, Favourite: on})
}
