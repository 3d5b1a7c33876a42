package owner

import (
	"context"
	"fmt"

	"log/slog"

	v "github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"github.com/waitline/waitline-manager/internal/dependency"
	"github.com/waitline/waitline-manager/internal/entity"
	gerr "github.com/waitline/waitline-manager/internal/errors"
)

const leaderboardLimit = 50

// Server implements the owner-facing waitlist registry and views. Every
// operation takes the verified caller identity and refuses to touch
// waitlists the caller does not own.
type Server struct {
	repo dependency.Repository
}

// New creates a new server with owner handlers.
func New(r dependency.Repository) *Server {
	return &Server{
		repo: r,
	}
}

// CreateWaitlist registers a new waitlist for the caller. The form key is
// generated here; thank-you page and submission settings start from the
// fixed defaults.
func (s *Server) CreateWaitlist(ctx context.Context, caller *entity.User, w *entity.WaitlistInsert) (int, error) {
	if _, err := v.ValidateStruct(w); err != nil {
		return 0, fmt.Errorf("%v: %w", err, gerr.ErrValidation)
	}

	w.ThankYouPage = entity.DefaultThankYouPage()
	w.SubmissionSettings = entity.DefaultSubmissionSettings()
	formKey := uuid.NewString()[:8]

	id, err := s.repo.Waitlists().Create(ctx, w, caller.ID, formKey)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't create waitlist",
			slog.String("err", err.Error()),
		)
		return 0, err
	}
	return id, nil
}

// Dashboard lists the caller's waitlists.
func (s *Server) Dashboard(ctx context.Context, caller *entity.User) ([]entity.Waitlist, error) {
	ws, err := s.repo.Waitlists().ListByOwner(ctx, caller.ID)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't list waitlists",
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	return ws, nil
}

// GetSettings returns the full waitlist record for the settings views.
func (s *Server) GetSettings(ctx context.Context, caller *entity.User, waitlistID int) (*entity.Waitlist, error) {
	return s.getOwned(ctx, caller, waitlistID)
}

// UpdateBasicSettings merges name/website_url over the existing record.
func (s *Server) UpdateBasicSettings(ctx context.Context, caller *entity.User, waitlistID int, patch entity.BasicSettingsPatch) error {
	if _, err := v.ValidateStruct(&patch); err != nil {
		return fmt.Errorf("%v: %w", err, gerr.ErrValidation)
	}
	if _, err := s.getOwned(ctx, caller, waitlistID); err != nil {
		return err
	}
	return s.repo.Waitlists().UpdateBasicSettings(ctx, waitlistID, patch)
}

// UpdateThankYouPage merges the supplied fields over the stored document.
func (s *Server) UpdateThankYouPage(ctx context.Context, caller *entity.User, waitlistID int, patch entity.ThankYouPagePatch) error {
	if _, err := s.getOwned(ctx, caller, waitlistID); err != nil {
		return err
	}
	return s.repo.Waitlists().UpdateThankYouPage(ctx, waitlistID, patch)
}

// UpdateSubmissionSettings merges the supplied fields over the stored document.
func (s *Server) UpdateSubmissionSettings(ctx context.Context, caller *entity.User, waitlistID int, patch entity.SubmissionSettingsPatch) error {
	if _, err := v.ValidateStruct(&patch); err != nil {
		return fmt.Errorf("%v: %w", err, gerr.ErrValidation)
	}
	if _, err := s.getOwned(ctx, caller, waitlistID); err != nil {
		return err
	}
	return s.repo.Waitlists().UpdateSubmissionSettings(ctx, waitlistID, patch)
}

// SetPublished toggles the public join form visibility flag.
func (s *Server) SetPublished(ctx context.Context, caller *entity.User, waitlistID int, published bool) error {
	if _, err := s.getOwned(ctx, caller, waitlistID); err != nil {
		return err
	}
	return s.repo.Waitlists().SetPublished(ctx, waitlistID, published)
}

// Analytics aggregates entry and referral totals for a waitlist.
func (s *Server) Analytics(ctx context.Context, caller *entity.User, waitlistID int) (*entity.Analytics, error) {
	if _, err := s.getOwned(ctx, caller, waitlistID); err != nil {
		return nil, err
	}

	a, err := s.repo.Entries().GetAnalytics(ctx, waitlistID)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't get analytics",
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	return a, nil
}

// Submissions returns the waitlist's entries in join order.
func (s *Server) Submissions(ctx context.Context, caller *entity.User, waitlistID int) ([]entity.Entry, error) {
	if _, err := s.getOwned(ctx, caller, waitlistID); err != nil {
		return nil, err
	}

	entries, err := s.repo.Entries().ListByWaitlist(ctx, waitlistID)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't list entries",
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	return entries, nil
}

// Leaderboard returns the waitlist's entries ranked by referral count.
func (s *Server) Leaderboard(ctx context.Context, caller *entity.User, waitlistID int) ([]entity.Entry, error) {
	if _, err := s.getOwned(ctx, caller, waitlistID); err != nil {
		return nil, err
	}

	entries, err := s.repo.Entries().Leaderboard(ctx, waitlistID, leaderboardLimit)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't get leaderboard",
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	return entries, nil
}

func (s *Server) getOwned(ctx context.Context, caller *entity.User, waitlistID int) (*entity.Waitlist, error) {
	if caller == nil || caller.ID == "" {
		return nil, gerr.ErrUnauthorized
	}
	w, err := s.repo.Waitlists().GetById(ctx, waitlistID)
	if err != nil {
		return nil, err
	}
	if w.OwnerID != caller.ID {
		return nil, gerr.ErrUnauthorized
	}
	return w, nil
}
