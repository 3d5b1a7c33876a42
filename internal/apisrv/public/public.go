package public

import (
	"context"
	"fmt"

	"log/slog"

	v "github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"github.com/waitline/waitline-manager/internal/cache"
	"github.com/waitline/waitline-manager/internal/dependency"
	"github.com/waitline/waitline-manager/internal/entity"
	gerr "github.com/waitline/waitline-manager/internal/errors"
	"github.com/waitline/waitline-manager/internal/ratelimit"
)

// Server implements the visitor-facing endpoints: joining a waitlist and
// fetching the embeddable form configuration.
type Server struct {
	repo    dependency.Repository
	mailer  dependency.Mailer
	limiter *ratelimit.JoinLimiter
	forms   *cache.FormConfigCache
}

// New creates a new server with public handlers. mailer may be nil when no
// mail provider is configured.
func New(r dependency.Repository, m dependency.Mailer, l *ratelimit.JoinLimiter, fc *cache.FormConfigCache) *Server {
	return &Server{
		repo:    r,
		mailer:  m,
		limiter: l,
		forms:   fc,
	}
}

// Join enrolls a visitor into the waitlist behind slug. The store assigns
// the next position and credits the referrer atomically; afterwards the
// configured confirmation and notification emails are enqueued. Mail
// failures never fail the join.
func (s *Server) Join(ctx context.Context, slug string, in *entity.EntryInsert, ip string) (*entity.JoinResult, error) {
	if _, err := v.ValidateStruct(in); err != nil {
		return nil, fmt.Errorf("%v: %w", err, gerr.ErrValidation)
	}

	if s.limiter != nil {
		if err := s.limiter.CheckJoin(ip, in.Email); err != nil {
			return nil, err
		}
	}

	referralCode := uuid.NewString()[:8]

	entry, wl, err := s.repo.Entries().Join(ctx, slug, in.Email, referralCode, in.ReferredBy)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't join waitlist",
			slog.String("slug", slug),
			slog.String("err", err.Error()),
		)
		return nil, err
	}

	s.sendMails(ctx, entry, wl)

	return &entity.JoinResult{
		Position:     entry.Position,
		ReferralCode: entry.ReferralCode,
	}, nil
}

// FormConfig resolves the public form configuration by form key.
func (s *Server) FormConfig(ctx context.Context, formKey string) (*entity.FormConfig, error) {
	if formKey == "" {
		return nil, fmt.Errorf("missing form key: %w", gerr.ErrValidation)
	}

	if s.forms != nil {
		if fc, ok := s.forms.Get(formKey); ok {
			return fc, nil
		}
	}

	w, err := s.repo.Waitlists().GetByFormKey(ctx, formKey)
	if err != nil {
		return nil, err
	}

	fc := &entity.FormConfig{
		Name:         w.Name,
		Description:  w.Description,
		URLSlug:      w.URLSlug,
		IsPublished:  w.IsPublished,
		CustomStyles: w.CustomStyles,
		ThankYouPage: w.ThankYouPage,
	}
	if s.forms != nil {
		s.forms.Set(formKey, fc)
	}
	return fc, nil
}

func (s *Server) sendMails(ctx context.Context, entry *entity.Entry, wl *entity.Waitlist) {
	if s.mailer == nil {
		return
	}

	if wl.SubmissionSettings.AutoResponse {
		err := s.mailer.SendJoinConfirmation(ctx, s.repo, entry.Email, &entity.JoinConfirmation{
			WaitlistName: wl.Name,
			Position:     entry.Position,
			ReferralCode: entry.ReferralCode,
			Message:      wl.ThankYouPage.Message,
		})
		if err != nil {
			slog.Default().ErrorContext(ctx, "can't send join confirmation",
				slog.String("err", err.Error()),
			)
		}
	}

	if wl.SubmissionSettings.NotifyEmail != "" {
		err := s.mailer.SendOwnerNotification(ctx, s.repo, wl.SubmissionSettings.NotifyEmail, &entity.OwnerNotification{
			WaitlistName: wl.Name,
			JoinerEmail:  entry.Email,
			Position:     entry.Position,
		})
		if err != nil {
			slog.Default().ErrorContext(ctx, "can't send owner notification",
				slog.String("err", err.Error()),
			)
		}
	}
}
