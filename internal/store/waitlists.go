package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/waitline/waitline-manager/internal/dependency"
	"github.com/waitline/waitline-manager/internal/entity"
	gerr "github.com/waitline/waitline-manager/internal/errors"
)

type waitlistStore struct {
	*MYSQLStore
}

// Waitlists returns an object implementing the Waitlists interface
func (ms *MYSQLStore) Waitlists() dependency.Waitlists {
	return &waitlistStore{
		MYSQLStore: ms,
	}
}

// Create inserts a new waitlist owned by ownerID. Slug and form key
// uniqueness is enforced by the store's unique indexes.
func (ms *MYSQLStore) Create(ctx context.Context, w *entity.WaitlistInsert, ownerID, formKey string) (int, error) {
	query := `
	INSERT INTO waitlist
		(name, description, url_slug, website_url, form_key, custom_styles, thank_you_page, submission_settings, is_published, owner_id)
	VALUES
		(:name, :description, :urlSlug, :websiteUrl, :formKey, :customStyles, :thankYouPage, :submissionSettings, false, :ownerId)
	`
	params := map[string]any{
		"name":               w.Name,
		"description":        w.Description,
		"urlSlug":            w.URLSlug,
		"websiteUrl":         w.WebsiteURL,
		"formKey":            formKey,
		"customStyles":       w.CustomStyles,
		"thankYouPage":       w.ThankYouPage,
		"submissionSettings": w.SubmissionSettings,
		"ownerId":            ownerID,
	}

	id, err := ExecNamedLastId(ctx, ms.DB(), query, params)
	if err != nil {
		if ms.IsErrUniqueViolation(err) {
			return 0, fmt.Errorf("url slug or form key already taken: %w", gerr.ErrConflict)
		}
		return 0, fmt.Errorf("failed to create waitlist: %w", err)
	}

	return id, nil
}

func (ms *MYSQLStore) GetById(ctx context.Context, id int) (*entity.Waitlist, error) {
	query := `SELECT * FROM waitlist WHERE id = :id`
	w, err := QueryNamedOne[entity.Waitlist](ctx, ms.DB(), query, map[string]any{
		"id": id,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get waitlist by id: %w", err)
	}
	return &w, nil
}

func (ms *MYSQLStore) GetBySlug(ctx context.Context, slug string) (*entity.Waitlist, error) {
	query := `SELECT * FROM waitlist WHERE url_slug = :slug`
	w, err := QueryNamedOne[entity.Waitlist](ctx, ms.DB(), query, map[string]any{
		"slug": slug,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get waitlist by slug: %w", err)
	}
	return &w, nil
}

func (ms *MYSQLStore) GetByFormKey(ctx context.Context, formKey string) (*entity.Waitlist, error) {
	query := `SELECT * FROM waitlist WHERE form_key = :formKey`
	w, err := QueryNamedOne[entity.Waitlist](ctx, ms.DB(), query, map[string]any{
		"formKey": formKey,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get waitlist by form key: %w", err)
	}
	return &w, nil
}

func (ms *MYSQLStore) ListByOwner(ctx context.Context, ownerID string) ([]entity.Waitlist, error) {
	query := `SELECT * FROM waitlist WHERE owner_id = :ownerId`
	ws, err := QueryListNamed[entity.Waitlist](ctx, ms.DB(), query, map[string]any{
		"ownerId": ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlists: %w", err)
	}
	return ws, nil
}

// UpdateBasicSettings overlays the provided fields on the existing record.
// Absent fields are passed as NULL and kept via COALESCE.
func (ms *MYSQLStore) UpdateBasicSettings(ctx context.Context, id int, patch entity.BasicSettingsPatch) error {
	query := `
	UPDATE waitlist SET
		name = COALESCE(:name, name),
		website_url = COALESCE(:websiteUrl, website_url)
	WHERE id = :id`
	err := ExecNamed(ctx, ms.DB(), query, map[string]any{
		"id":         id,
		"name":       patch.Name,
		"websiteUrl": patch.WebsiteURL,
	})
	if err != nil {
		return fmt.Errorf("failed to update basic settings: %w", err)
	}
	return nil
}

// UpdateThankYouPage merges the patch over the stored document. Read and
// write run in one transaction so concurrent patches don't drop fields.
func (ms *MYSQLStore) UpdateThankYouPage(ctx context.Context, id int, patch entity.ThankYouPagePatch) error {
	return ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		w, err := rep.Waitlists().GetById(ctx, id)
		if err != nil {
			return err
		}
		merged := w.ThankYouPage.Merge(patch)
		err = ExecNamed(ctx, rep.DB(), `UPDATE waitlist SET thank_you_page = :thankYouPage WHERE id = :id`, map[string]any{
			"id":           id,
			"thankYouPage": merged,
		})
		if err != nil {
			return fmt.Errorf("failed to update thank you page: %w", err)
		}
		return nil
	})
}

// UpdateSubmissionSettings merges the patch over the stored document.
func (ms *MYSQLStore) UpdateSubmissionSettings(ctx context.Context, id int, patch entity.SubmissionSettingsPatch) error {
	return ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		w, err := rep.Waitlists().GetById(ctx, id)
		if err != nil {
			return err
		}
		merged := w.SubmissionSettings.Merge(patch)
		err = ExecNamed(ctx, rep.DB(), `UPDATE waitlist SET submission_settings = :submissionSettings WHERE id = :id`, map[string]any{
			"id":                 id,
			"submissionSettings": merged,
		})
		if err != nil {
			return fmt.Errorf("failed to update submission settings: %w", err)
		}
		return nil
	})
}

func (ms *MYSQLStore) SetPublished(ctx context.Context, id int, published bool) error {
	err := ExecNamed(ctx, ms.DB(), `UPDATE waitlist SET is_published = :published WHERE id = :id`, map[string]any{
		"id":        id,
		"published": published,
	})
	if err != nil {
		return fmt.Errorf("failed to set published: %w", err)
	}
	return nil
}
