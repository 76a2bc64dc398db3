package transport

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/rpggio/shutterboard/internal/domain/activity"
)

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	opts := activity.ListActivityOptions{}

	if raw := r.URL.Query().Get("type"); raw != "" {
		typ := activity.ActivityType(raw)
		if !typ.Valid() {
			s.renderError(w, r, newAPIError(http.StatusBadRequest, "INVALID_PARAMETER", "unknown activity type "+raw))
			return
		}
		opts.ActivityType = &typ
	}

	var apiErr *APIError
	if opts.Limit, apiErr = queryInt(r, "limit"); apiErr != nil {
		s.renderError(w, r, apiErr)
		return
	}
	if opts.Offset, apiErr = queryInt(r, "offset"); apiErr != nil {
		s.renderError(w, r, apiErr)
		return
	}

	entries, err := s.activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	render.JSON(w, r, map[string]any{"activity": entries})
}
