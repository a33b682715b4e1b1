package handlers

import (
	"net/http"

	"github.com/Manecharo/verzot-sub000/middleware"
	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/services"
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type addEventRequest struct {
	Type              models.MatchEventType `json:"type"`
	Half              int                   `json:"half"`
	Minute            int                   `json:"minute"`
	AddedTime         int                   `json:"added_time"`
	TeamID            int                   `json:"team_id"`
	PlayerID          int                   `json:"player_id"`
	SecondaryPlayerID *int                  `json:"secondary_player_id"`
	FieldX            *float64              `json:"field_x"`
	FieldY            *float64              `json:"field_y"`
}

func (h *EventHandler) AddEventHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req addEventRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	event := &models.MatchEvent{
		MatchID:           matchID,
		Type:              req.Type,
		Half:              req.Half,
		Minute:            req.Minute,
		AddedTime:         req.AddedTime,
		TeamID:            req.TeamID,
		PlayerID:          req.PlayerID,
		SecondaryPlayerID: req.SecondaryPlayerID,
		FieldX:            req.FieldX,
		FieldY:            req.FieldY,
	}
	created, err := h.eventService.AddEvent(r.Context(), event, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": created}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) RemoveEventHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.eventService.RemoveEvent(r.Context(), matchID, eventID, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) MatchTimelineHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.eventService.Timeline(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
