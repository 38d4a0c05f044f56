package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/eventsphere/internal/view"
)

// HandleHome renders the landing page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if err := view.HomePage().Render(r.Context(), w); err != nil {
		slog.Error("render home page", "error", err)
	}
}
