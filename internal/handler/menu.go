package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/elliemck/boba-pos/internal/domain/catalog"
)

// menuItem is the wire shape of one menu row.
type menuItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Photo       string `json:"photo,omitempty"`
	Description string `json:"description,omitempty"`
}

// ListMenu handles GET /api/menu/{category}.
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	items, err := h.menu.ListByCategory(r.Context(), category)
	if err != nil {
		zctx.From(r.Context()).Error("list menu", zap.String("category", category), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load menu")
		return
	}

	out := make([]menuItem, len(items))
	for i, item := range items {
		out[i] = toMenuItem(item)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func toMenuItem(item catalog.Item) menuItem {
	return menuItem{
		ID:          item.ID,
		Name:        item.Name,
		Price:       money(item.Price),
		Category:    item.Category,
		Photo:       item.Photo,
		Description: item.Description,
	}
}
