package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Manecharo/verzot-sub000/models"
	"github.com/stretchr/testify/require"
)

func validTournament(name string) *models.Tournament {
	return &models.Tournament{
		Name:      name,
		Format:    models.FormatLeague,
		MinTeams:  2,
		MaxTeams:  16,
		StartDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestTournamentCreate(t *testing.T) {
	t.Run("applies the default points scheme", func(t *testing.T) {
		repo := newFakeTournamentRepo()
		svc := NewTournamentService(repo, newFakeTeamRepo(), newFakeUploader(), testLogger())

		tournament := validTournament("Spring Cup")
		require.NoError(t, svc.Create(context.Background(), 7, tournament))
		require.Equal(t, 7, tournament.OrganizerID)
		require.Equal(t, models.TournamentStatusDraft, tournament.Status)
		require.Equal(t, 3, tournament.Rules.PointsForWin)
		require.Equal(t, 1, tournament.Rules.PointsForDraw)
		require.Equal(t, 0, tournament.Rules.PointsForLoss)
	})

	t.Run("keeps explicit points rules", func(t *testing.T) {
		svc := NewTournamentService(newFakeTournamentRepo(), newFakeTeamRepo(), newFakeUploader(), testLogger())
		tournament := validTournament("Two Point Cup")
		tournament.Rules = models.Rules{PointsForWin: 2, PointsForDraw: 1, PointsForLoss: 0}
		require.NoError(t, svc.Create(context.Background(), 7, tournament))
		require.Equal(t, 2, tournament.Rules.PointsForWin)
	})

	tests := []struct {
		name    string
		mutate  func(*models.Tournament)
		wantErr error
	}{
		{
			name:    "blank name",
			mutate:  func(t *models.Tournament) { t.Name = "   " },
			wantErr: ErrValidationFailed,
		},
		{
			name:    "min teams below two",
			mutate:  func(t *models.Tournament) { t.MinTeams = 1 },
			wantErr: ErrValidationFailed,
		},
		{
			name:    "min above max",
			mutate:  func(t *models.Tournament) { t.MinTeams = 20 },
			wantErr: ErrTournamentInvalidTeamBounds,
		},
		{
			name:    "end before start",
			mutate:  func(t *models.Tournament) { t.EndDate = t.StartDate.AddDate(0, 0, -1) },
			wantErr: ErrTournamentInvalidDateRange,
		},
		{
			name: "inverted points scheme",
			mutate: func(t *models.Tournament) {
				t.Rules = models.Rules{PointsForWin: 1, PointsForDraw: 2, PointsForLoss: 0}
			},
			wantErr: ErrValidationFailed,
		},
		{
			name: "unknown tiebreaker criterion",
			mutate: func(t *models.Tournament) {
				t.Tiebreakers.Criteria = []models.TiebreakerCriterion{"coinToss"}
			},
			wantErr: ErrValidationFailed,
		},
		{
			name: "fairPlay without card weights",
			mutate: func(t *models.Tournament) {
				t.Tiebreakers.Criteria = []models.TiebreakerCriterion{models.TiebreakFairPlay}
			},
			wantErr: ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTournamentService(newFakeTournamentRepo(), newFakeTeamRepo(), newFakeUploader(), testLogger())
			tournament := validTournament("Broken Cup")
			tt.mutate(tournament)
			require.ErrorIs(t, svc.Create(context.Background(), 7, tournament), tt.wantErr)
		})
	}

	t.Run("duplicate name", func(t *testing.T) {
		repo := newFakeTournamentRepo()
		svc := NewTournamentService(repo, newFakeTeamRepo(), newFakeUploader(), testLogger())
		require.NoError(t, svc.Create(context.Background(), 7, validTournament("Summer Cup")))
		require.ErrorIs(t, svc.Create(context.Background(), 7, validTournament("Summer Cup")), ErrTournamentNameConflict)
	})
}

func TestTournamentUpdateStatus(t *testing.T) {
	newStored := func(status models.TournamentStatus) *models.Tournament {
		tournament := validTournament("Stored Cup")
		tournament.ID = 1
		tournament.OrganizerID = 7
		tournament.Status = status
		return tournament
	}

	t.Run("walks the lifecycle forward", func(t *testing.T) {
		repo := newFakeTournamentRepo(newStored(models.TournamentStatusDraft))
		svc := NewTournamentService(repo, newFakeTeamRepo(1, 2, 3), newFakeUploader(), testLogger())

		steps := []models.TournamentStatus{
			models.TournamentStatusPublished,
			models.TournamentStatusRegistrationOpen,
			models.TournamentStatusRegistrationClosed,
			models.TournamentStatusInProgress,
			models.TournamentStatusCompleted,
		}
		for _, next := range steps {
			tournament, err := svc.UpdateStatus(context.Background(), 1, next, 7, models.RoleOrganizer)
			require.NoError(t, err, "step to %s", next)
			require.Equal(t, next, tournament.Status)
		}
	})

	t.Run("rejects skipping ahead", func(t *testing.T) {
		repo := newFakeTournamentRepo(newStored(models.TournamentStatusDraft))
		svc := NewTournamentService(repo, newFakeTeamRepo(), newFakeUploader(), testLogger())
		_, err := svc.UpdateStatus(context.Background(), 1, models.TournamentStatusInProgress, 7, models.RoleOrganizer)
		require.ErrorIs(t, err, ErrTournamentInvalidStatusTransition)
	})

	t.Run("cancel is allowed from any non-terminal status", func(t *testing.T) {
		repo := newFakeTournamentRepo(newStored(models.TournamentStatusRegistrationOpen))
		svc := NewTournamentService(repo, newFakeTeamRepo(), newFakeUploader(), testLogger())
		tournament, err := svc.UpdateStatus(context.Background(), 1, models.TournamentStatusCanceled, 7, models.RoleOrganizer)
		require.NoError(t, err)
		require.Equal(t, models.TournamentStatusCanceled, tournament.Status)
	})

	t.Run("completed cannot be canceled", func(t *testing.T) {
		repo := newFakeTournamentRepo(newStored(models.TournamentStatusCompleted))
		svc := NewTournamentService(repo, newFakeTeamRepo(), newFakeUploader(), testLogger())
		_, err := svc.UpdateStatus(context.Background(), 1, models.TournamentStatusCanceled, 7, models.RoleOrganizer)
		require.ErrorIs(t, err, ErrTournamentInvalidStatusTransition)
	})

	t.Run("starting requires the roster inside the bounds", func(t *testing.T) {
		repo := newFakeTournamentRepo(newStored(models.TournamentStatusRegistrationClosed))
		svc := NewTournamentService(repo, newFakeTeamRepo(1), newFakeUploader(), testLogger())
		_, err := svc.UpdateStatus(context.Background(), 1, models.TournamentStatusInProgress, 7, models.RoleOrganizer)
		require.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("only the owning organizer or an admin may change status", func(t *testing.T) {
		repo := newFakeTournamentRepo(newStored(models.TournamentStatusDraft))
		svc := NewTournamentService(repo, newFakeTeamRepo(), newFakeUploader(), testLogger())

		_, err := svc.UpdateStatus(context.Background(), 1, models.TournamentStatusPublished, 42, models.RoleOrganizer)
		require.ErrorIs(t, err, ErrForbiddenOperation)

		_, err = svc.UpdateStatus(context.Background(), 1, models.TournamentStatusPublished, 7, models.RolePlayer)
		require.ErrorIs(t, err, ErrForbiddenOperation)

		_, err = svc.UpdateStatus(context.Background(), 1, models.TournamentStatusPublished, 42, models.RoleAdmin)
		require.NoError(t, err)
	})
}

func TestTournamentUploadBadge(t *testing.T) {
	stored := validTournament("Badge Cup")
	stored.ID = 3
	stored.OrganizerID = 7
	repo := newFakeTournamentRepo(stored)
	uploader := newFakeUploader()
	svc := NewTournamentService(repo, newFakeTeamRepo(), uploader, testLogger())

	tournament, err := svc.UploadBadge(context.Background(), 3, "image/png", bytes.NewReader([]byte("png-bytes")), 7, models.RoleOrganizer)
	require.NoError(t, err)
	require.NotNil(t, tournament.BadgeKey)
	require.Equal(t, "tournaments/3/badge", *tournament.BadgeKey)
	require.NotNil(t, tournament.BadgeURL)
	require.Equal(t, "image/png", uploader.uploads["tournaments/3/badge"])

	_, err = svc.UploadBadge(context.Background(), 3, "image/png", bytes.NewReader(nil), 42, models.RoleOrganizer)
	require.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestTournamentList(t *testing.T) {
	first := validTournament("Alpha Cup")
	first.ID = 1
	second := validTournament("Beta Cup")
	second.ID = 2
	repo := newFakeTournamentRepo(first, second)
	svc := NewTournamentService(repo, newFakeTeamRepo(), newFakeUploader(), testLogger())

	tournaments, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, tournaments, 2)

	tournaments, err = svc.List(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, tournaments, 1)
	require.Equal(t, "Beta Cup", tournaments[0].Name)
}
