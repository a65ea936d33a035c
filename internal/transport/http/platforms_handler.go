package http

import (
	"net/http"

	"github.com/go-chi/render"

	"returnpulse/internal/platform"
	api "returnpulse/pkg/contracts/api/v1"
)

// ListPlatforms handles GET /api/platforms. The registry is fixed, so the
// response is built from it on every call.
func ListPlatforms(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, PlatformListing())
}

// PlatformListing describes every registered platform in display order with
// the filename keywords that select it.
func PlatformListing() api.PlatformsResponse {
	tokens := make(map[platform.Platform][]string)
	for _, kw := range platform.Keywords() {
		tokens[kw.Platform] = append(tokens[kw.Platform], kw.Token)
	}

	schemas := platform.All()
	resp := api.PlatformsResponse{Platforms: make([]api.PlatformInfo, 0, len(schemas))}
	for _, s := range schemas {
		resp.Platforms = append(resp.Platforms, api.PlatformInfo{
			ID:             string(s.ID),
			DisplayName:    s.DisplayName,
			SKUColumn:      s.SKUColumn,
			ReasonColumn:   s.ReasonColumn,
			QuantityColumn: s.QuantityColumn,
			Keywords:       tokens[s.ID],
		})
	}
	return resp
}
