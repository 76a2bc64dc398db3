package transport

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/rpggio/shutterboard/internal/domain/chat"
)

type chatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderError(w, r, newAPIError(http.StatusBadRequest, "INVALID_JSON", "request body must be a JSON object"))
		return
	}
	if apiErr := s.validateBody(req); apiErr != nil {
		s.renderError(w, r, apiErr)
		return
	}

	exchange, err := s.chat.Send(r.Context(), req.Message)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, exchange)
}

func (s *Server) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	limit, apiErr := queryInt(r, "limit")
	if apiErr != nil {
		s.renderError(w, r, apiErr)
		return
	}

	messages, err := s.chat.Transcript(r.Context(), limit)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if messages == nil {
		messages = []chat.Message{}
	}
	render.JSON(w, r, map[string]any{"messages": messages})
}
