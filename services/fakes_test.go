package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/Manecharo/verzot-sub000/brackets"
	"github.com/Manecharo/verzot-sub000/models"
	"github.com/Manecharo/verzot-sub000/repositories"
	"github.com/Manecharo/verzot-sub000/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHub() *brackets.Hub {
	// Publish on a hub with no subscribers is a no-op; Run is not needed.
	return brackets.NewHub(testLogger())
}

// fakeTournamentRepo is an in-memory TournamentRepository.
type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	nextID      int
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament), nextID: 1}
	for _, t := range tournaments {
		if t.ID >= r.nextID {
			r.nextID = t.ID + 1
		}
		r.tournaments[t.ID] = t
	}
	return r
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	for _, existing := range r.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.ID = r.nextID
	r.nextID++
	r.tournaments[t.ID] = t
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, _ repositories.SQLExecutor, limit, offset int) ([]*models.Tournament, error) {
	ids := make([]int, 0, len(r.tournaments))
	for id := range r.tournaments {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*models.Tournament, 0, limit)
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		copied := *r.tournaments[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateBadgeKey(_ context.Context, _ repositories.SQLExecutor, id int, badgeKey *string) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.BadgeKey = badgeKey
	return nil
}

// fakeTeamRepo is an in-memory TeamRepository serving one tournament roster.
type fakeTeamRepo struct {
	teams []*models.Team
}

func newFakeTeamRepo(teamIDs ...int) *fakeTeamRepo {
	r := &fakeTeamRepo{}
	for _, id := range teamIDs {
		r.teams = append(r.teams, &models.Team{ID: id})
	}
	return r
}

func (r *fakeTeamRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Team, error) {
	for _, t := range r.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, _ int) ([]*models.Team, error) {
	return r.teams, nil
}

// fakeMatchRepo is an in-memory MatchRepository with the same filter and
// replace semantics as the SQL implementation.
type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	r := &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
	for _, m := range matches {
		if m.ID >= r.nextID {
			r.nextID = m.ID + 1
		}
		r.matches[m.ID] = m
	}
	return r
}

func (r *fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		if filter.Phase != nil && m.Phase != *filter.Phase {
			continue
		}
		if filter.Group != nil && (m.Group == nil || *m.Group != *filter.Group) {
			continue
		}
		if filter.Round != nil && m.Round != *filter.Round {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeMatchRepo) CreateFromDrafts(_ context.Context, _ repositories.SQLExecutor, drafts []*models.MatchDraft) error {
	for _, d := range drafts {
		if d.IsBye {
			continue
		}
		if d.HomeTeamID == nil || d.AwayTeamID == nil {
			return repositories.ErrDraftMissingTeams
		}
		m := &models.Match{
			ID:            r.nextID,
			TournamentID:  d.TournamentID,
			HomeTeamID:    *d.HomeTeamID,
			AwayTeamID:    *d.AwayTeamID,
			ScheduledDate: d.ScheduledDate,
			Location:      d.Location,
			Phase:         d.Phase,
			Group:         d.Group,
			Round:         d.Round,
			Status:        models.MatchStatusScheduled,
		}
		r.nextID++
		r.matches[m.ID] = m
	}
	return nil
}

func (r *fakeMatchRepo) ReplaceScheduled(ctx context.Context, tournamentID int, drafts []*models.MatchDraft) error {
	for id, m := range r.matches {
		if m.TournamentID == tournamentID && m.Status == models.MatchStatusScheduled {
			delete(r.matches, id)
		}
	}
	return r.CreateFromDrafts(ctx, nil, drafts)
}

func (r *fakeMatchRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.MatchStatus) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMatchRepo) UpdateScore(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	m, ok := r.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.HomeScore = match.HomeScore
	m.AwayScore = match.AwayScore
	m.HalfTimeHomeScore = match.HalfTimeHomeScore
	m.HalfTimeAwayScore = match.HalfTimeAwayScore
	m.HasPenalties = match.HasPenalties
	m.HomePenaltyScore = match.HomePenaltyScore
	m.AwayPenaltyScore = match.AwayPenaltyScore
	return nil
}

func (r *fakeMatchRepo) SetConfirmation(_ context.Context, _ repositories.SQLExecutor, id int, role models.ConfirmRole, at time.Time) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	switch role {
	case models.ConfirmRoleHome:
		m.HomeConfirmed = true
		if m.HomeConfirmedAt == nil {
			m.HomeConfirmedAt = &at
		}
	case models.ConfirmRoleAway:
		m.AwayConfirmed = true
		if m.AwayConfirmedAt == nil {
			m.AwayConfirmedAt = &at
		}
	case models.ConfirmRoleReferee:
		m.RefereeConfirmed = true
		if m.RefereeConfirmedAt == nil {
			m.RefereeConfirmedAt = &at
		}
	default:
		return repositories.ErrUnknownConfirmRole
	}
	return nil
}

// fakeEventRepo is an in-memory MatchEventRepository.
type fakeEventRepo struct {
	events []*models.MatchEvent
	nextID int
}

func newFakeEventRepo(events ...*models.MatchEvent) *fakeEventRepo {
	r := &fakeEventRepo{nextID: 1}
	for _, e := range events {
		if e.ID >= r.nextID {
			r.nextID = e.ID + 1
		}
		r.events = append(r.events, e)
	}
	return r
}

func (r *fakeEventRepo) Append(_ context.Context, _ repositories.SQLExecutor, event *models.MatchEvent) error {
	event.ID = r.nextID
	r.nextID++
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, _ repositories.SQLExecutor, matchID, eventID int) error {
	for i, e := range r.events {
		if e.ID == eventID && e.MatchID == matchID {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return nil
		}
	}
	return repositories.ErrEventNotFound
}

func (r *fakeEventRepo) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]*models.MatchEvent, error) {
	out := make([]*models.MatchEvent, 0)
	for _, e := range r.events {
		if e.MatchID == matchID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Half != out[j].Half {
			return out[i].Half < out[j].Half
		}
		if out[i].Minute != out[j].Minute {
			return out[i].Minute < out[j].Minute
		}
		if out[i].AddedTime != out[j].AddedTime {
			return out[i].AddedTime < out[j].AddedTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeEventRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, _ int) ([]*models.MatchEvent, error) {
	return r.events, nil
}

// fakeUploader records uploads without touching any real storage.
type fakeUploader struct {
	uploads map[string]string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: make(map[string]string)}
}

func (u *fakeUploader) Upload(_ context.Context, key string, contentType string, _ io.Reader) (*storage.UploadResult, error) {
	u.uploads[key] = contentType
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	delete(u.uploads, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.test/" + key
}
