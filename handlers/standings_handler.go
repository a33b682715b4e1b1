package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Manecharo/verzot-sub000/services"
)

var errInvalidRound = errors.New("round query parameter must be a positive integer")

type StandingsHandler struct {
	standingsService services.StandingsService
	bracketService   services.BracketService
}

func NewStandingsHandler(standingsService services.StandingsService, bracketService services.BracketService) *StandingsHandler {
	return &StandingsHandler{
		standingsService: standingsService,
		bracketService:   bracketService,
	}
}

func (h *StandingsHandler) GetStandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var view *services.StandingsView
	if group := r.URL.Query().Get("group"); group != "" {
		view, err = h.standingsService.ComputeGroup(r.Context(), tournamentID, group)
	} else {
		view, err = h.standingsService.Compute(r.Context(), tournamentID)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) GetBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.View(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) SeedBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, role, err := requestIdentity(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	drafts, err := h.bracketService.SeedKnockout(r.Context(), tournamentID, userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"fixtures": drafts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) AdvanceBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	round, err := strconv.Atoi(r.URL.Query().Get("round"))
	if err != nil || round < 1 {
		badRequestResponse(w, r, errInvalidRound)
		return
	}
	userID, role, err := requestIdentity(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	drafts, err := h.bracketService.AdvanceRound(r.Context(), tournamentID, round, userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if drafts == nil {
		// Advancing past the final is a no-op: the bracket is decided.
		if err := writeJSON(w, http.StatusOK, jsonResponse{"fixtures": []struct{}{}}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"fixtures": drafts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
