package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Manecharo/verzot-sub000/middleware"
	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	scheduleService   services.ScheduleService
}

func NewTournamentHandler(tournamentService services.TournamentService, scheduleService services.ScheduleService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: tournamentService,
		scheduleService:   scheduleService,
	}
}

type createTournamentRequest struct {
	Name        string                  `json:"name"`
	Description *string                 `json:"description"`
	Format      models.TournamentFormat `json:"format"`
	Structure   models.StructureConfig  `json:"structure"`
	Rules       models.Rules            `json:"rules"`
	Tiebreakers models.TiebreakerRules  `json:"tiebreaker_rules"`
	MinTeams    int                     `json:"min_teams"`
	MaxTeams    int                     `json:"max_teams"`
	StartDate   time.Time               `json:"start_date"`
	EndDate     time.Time               `json:"end_date"`
	Location    *string                 `json:"location"`
}

func (h *TournamentHandler) CreateTournamentHandler(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	organizerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	tournament := &models.Tournament{
		Name:        req.Name,
		Description: req.Description,
		Format:      req.Format,
		Structure:   req.Structure,
		Rules:       req.Rules,
		Tiebreakers: req.Tiebreakers,
		MinTeams:    req.MinTeams,
		MaxTeams:    req.MaxTeams,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
	}
	if err := h.tournamentService.Create(r.Context(), organizerID, tournament); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetTournamentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ListTournamentsHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	tournaments, err := h.tournamentService.List(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type updateTournamentStatusRequest struct {
	Status models.TournamentStatus `json:"status"`
}

func (h *TournamentHandler) UpdateTournamentStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req updateTournamentStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, role, err := requestIdentity(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	tournament, err := h.tournamentService.UpdateStatus(r.Context(), id, req.Status, userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) UploadTournamentBadgeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, role, err := requestIdentity(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	file, header, err := r.FormFile("badge")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	tournament, err := h.tournamentService.UploadBadge(r.Context(), id,
		header.Header.Get("Content-Type"), file, userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type generateScheduleRequest struct {
	StartDate   time.Time   `json:"start_date"`
	ManualDates []time.Time `json:"manual_dates"`
}

func (h *TournamentHandler) GenerateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	// An empty body regenerates with automatic slotting from the
	// tournament's start date.
	var req generateScheduleRequest
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &req); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}
	userID, role, err := requestIdentity(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	drafts, err := h.scheduleService.Generate(r.Context(), services.GenerateScheduleInput{
		TournamentID: id,
		StartDate:    req.StartDate,
		ManualDates:  req.ManualDates,
	}, userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"fixtures": drafts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func requestIdentity(r *http.Request) (int, models.UserRole, error) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return 0, "", err
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		return 0, "", err
	}
	return userID, role, nil
}
