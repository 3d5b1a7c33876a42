package owner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waitline/waitline-manager/internal/dependency"
	"github.com/waitline/waitline-manager/internal/entity"
	gerr "github.com/waitline/waitline-manager/internal/errors"
)

// fakeRepo backs the server with in-memory maps. Only the methods the
// owner server touches are implemented; the rest panic via the embedded
// nil interface.
type fakeRepo struct {
	dependency.Repository
	waitlists *fakeWaitlists
	entries   *fakeEntries
}

func (f *fakeRepo) Waitlists() dependency.Waitlists { return f.waitlists }
func (f *fakeRepo) Entries() dependency.Entries     { return f.entries }

type fakeWaitlists struct {
	dependency.Waitlists
	nextID int
	byID   map[int]*entity.Waitlist
}

func newFakeRepo() *fakeRepo {
	wls := &fakeWaitlists{
		nextID: 1,
		byID:   map[int]*entity.Waitlist{},
	}
	return &fakeRepo{
		waitlists: wls,
		entries:   &fakeEntries{},
	}
}

func (f *fakeWaitlists) Create(_ context.Context, w *entity.WaitlistInsert, ownerID, formKey string) (int, error) {
	for _, existing := range f.byID {
		if existing.URLSlug == w.URLSlug {
			return 0, gerr.ErrConflict
		}
	}
	id := f.nextID
	f.nextID++
	f.byID[id] = &entity.Waitlist{
		ID:             id,
		FormKey:        formKey,
		OwnerID:        ownerID,
		WaitlistInsert: *w,
	}
	return id, nil
}

func (f *fakeWaitlists) GetById(_ context.Context, id int) (*entity.Waitlist, error) {
	w, ok := f.byID[id]
	if !ok {
		return nil, gerr.ErrNotFound
	}
	return w, nil
}

func (f *fakeWaitlists) ListByOwner(_ context.Context, ownerID string) ([]entity.Waitlist, error) {
	var out []entity.Waitlist
	for _, w := range f.byID {
		if w.OwnerID == ownerID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeWaitlists) UpdateThankYouPage(_ context.Context, id int, patch entity.ThankYouPagePatch) error {
	w, ok := f.byID[id]
	if !ok {
		return gerr.ErrNotFound
	}
	w.ThankYouPage = w.ThankYouPage.Merge(patch)
	return nil
}

func (f *fakeWaitlists) UpdateSubmissionSettings(_ context.Context, id int, patch entity.SubmissionSettingsPatch) error {
	w, ok := f.byID[id]
	if !ok {
		return gerr.ErrNotFound
	}
	w.SubmissionSettings = w.SubmissionSettings.Merge(patch)
	return nil
}

func (f *fakeWaitlists) UpdateBasicSettings(_ context.Context, id int, patch entity.BasicSettingsPatch) error {
	w, ok := f.byID[id]
	if !ok {
		return gerr.ErrNotFound
	}
	if patch.Name != nil {
		w.Name = *patch.Name
	}
	if patch.WebsiteURL != nil {
		w.WebsiteURL = patch.WebsiteURL
	}
	return nil
}

func (f *fakeWaitlists) SetPublished(_ context.Context, id int, published bool) error {
	w, ok := f.byID[id]
	if !ok {
		return gerr.ErrNotFound
	}
	w.IsPublished = published
	return nil
}

type fakeEntries struct {
	dependency.Entries
	entries   []entity.Entry
	analytics *entity.Analytics
}

func (f *fakeEntries) ListByWaitlist(_ context.Context, waitlistID int) ([]entity.Entry, error) {
	var out []entity.Entry
	for _, e := range f.entries {
		if e.WaitlistID == waitlistID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntries) Leaderboard(_ context.Context, waitlistID, limit int) ([]entity.Entry, error) {
	out, _ := f.ListByWaitlist(context.Background(), waitlistID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEntries) GetAnalytics(_ context.Context, waitlistID int) (*entity.Analytics, error) {
	return f.analytics, nil
}

func insert(slug string) *entity.WaitlistInsert {
	return &entity.WaitlistInsert{
		Name:        "Beta Launch",
		Description: "Early access list",
		URLSlug:     slug,
	}
}

func TestCreateWaitlist(t *testing.T) {
	repo := newFakeRepo()
	s := New(repo)

	ctx := context.Background()
	caller := &entity.User{ID: "owner-1"}

	id, err := s.CreateWaitlist(ctx, caller, insert("beta-launch"))
	require.NoError(t, err)

	w, err := repo.waitlists.GetById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", w.OwnerID)
	assert.Len(t, w.FormKey, 8)
	assert.Equal(t, entity.DefaultThankYouPage(), w.ThankYouPage)
	assert.Equal(t, entity.DefaultSubmissionSettings(), w.SubmissionSettings)
	assert.False(t, w.IsPublished)
}

func TestCreateWaitlistValidation(t *testing.T) {
	s := New(newFakeRepo())

	ctx := context.Background()
	caller := &entity.User{ID: "owner-1"}

	_, err := s.CreateWaitlist(ctx, caller, &entity.WaitlistInsert{
		URLSlug: "beta-launch",
	})
	assert.ErrorIs(t, err, gerr.ErrValidation)

	_, err = s.CreateWaitlist(ctx, caller, &entity.WaitlistInsert{
		Name: "Beta Launch",
	})
	assert.ErrorIs(t, err, gerr.ErrValidation)
}

func TestCreateWaitlistDuplicateSlug(t *testing.T) {
	repo := newFakeRepo()
	s := New(repo)

	ctx := context.Background()
	caller := &entity.User{ID: "owner-1"}

	_, err := s.CreateWaitlist(ctx, caller, insert("beta-launch"))
	require.NoError(t, err)

	_, err = s.CreateWaitlist(ctx, &entity.User{ID: "owner-2"}, insert("beta-launch"))
	assert.ErrorIs(t, err, gerr.ErrConflict)
}

func TestOwnershipGate(t *testing.T) {
	repo := newFakeRepo()
	s := New(repo)

	ctx := context.Background()
	owner := &entity.User{ID: "owner-1"}
	stranger := &entity.User{ID: "owner-2"}

	id, err := s.CreateWaitlist(ctx, owner, insert("beta-launch"))
	require.NoError(t, err)

	_, err = s.GetSettings(ctx, stranger, id)
	assert.ErrorIs(t, err, gerr.ErrUnauthorized)

	_, err = s.GetSettings(ctx, nil, id)
	assert.ErrorIs(t, err, gerr.ErrUnauthorized)

	_, err = s.GetSettings(ctx, owner, 404)
	assert.ErrorIs(t, err, gerr.ErrNotFound)

	err = s.SetPublished(ctx, stranger, id, true)
	assert.ErrorIs(t, err, gerr.ErrUnauthorized)

	err = s.UpdateThankYouPage(ctx, stranger, id, entity.ThankYouPagePatch{})
	assert.ErrorIs(t, err, gerr.ErrUnauthorized)

	_, err = s.Analytics(ctx, stranger, id)
	assert.ErrorIs(t, err, gerr.ErrUnauthorized)

	_, err = s.Submissions(ctx, stranger, id)
	assert.ErrorIs(t, err, gerr.ErrUnauthorized)

	w, err := s.GetSettings(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, "beta-launch", w.URLSlug)
}

func TestUpdateThankYouPagePartial(t *testing.T) {
	repo := newFakeRepo()
	s := New(repo)

	ctx := context.Background()
	caller := &entity.User{ID: "owner-1"}

	id, err := s.CreateWaitlist(ctx, caller, insert("beta-launch"))
	require.NoError(t, err)

	msg := "See you soon."
	err = s.UpdateThankYouPage(ctx, caller, id, entity.ThankYouPagePatch{Message: &msg})
	require.NoError(t, err)

	w, err := s.GetSettings(ctx, caller, id)
	require.NoError(t, err)
	assert.Equal(t, msg, w.ThankYouPage.Message)
	assert.Equal(t, entity.DefaultThankYouPage().Title, w.ThankYouPage.Title)
}

func TestUpdateSubmissionSettingsValidation(t *testing.T) {
	repo := newFakeRepo()
	s := New(repo)

	ctx := context.Background()
	caller := &entity.User{ID: "owner-1"}

	id, err := s.CreateWaitlist(ctx, caller, insert("beta-launch"))
	require.NoError(t, err)

	bad := "not-an-email"
	err = s.UpdateSubmissionSettings(ctx, caller, id, entity.SubmissionSettingsPatch{NotifyEmail: &bad})
	assert.ErrorIs(t, err, gerr.ErrValidation)

	good := "owner@mail.test"
	err = s.UpdateSubmissionSettings(ctx, caller, id, entity.SubmissionSettingsPatch{NotifyEmail: &good})
	require.NoError(t, err)

	w, err := s.GetSettings(ctx, caller, id)
	require.NoError(t, err)
	assert.Equal(t, good, w.SubmissionSettings.NotifyEmail)
	assert.True(t, w.SubmissionSettings.AutoResponse)
}

func TestDashboard(t *testing.T) {
	repo := newFakeRepo()
	s := New(repo)

	ctx := context.Background()
	caller := &entity.User{ID: "owner-1"}

	_, err := s.CreateWaitlist(ctx, caller, insert("beta-launch"))
	require.NoError(t, err)
	_, err = s.CreateWaitlist(ctx, caller, insert("second-list"))
	require.NoError(t, err)
	_, err = s.CreateWaitlist(ctx, &entity.User{ID: "owner-2"}, insert("other-list"))
	require.NoError(t, err)

	ws, err := s.Dashboard(ctx, caller)
	require.NoError(t, err)
	assert.Len(t, ws, 2)
}

func TestAnalytics(t *testing.T) {
	repo := newFakeRepo()
	repo.entries.analytics = &entity.Analytics{
		TotalEntries:   5,
		TotalReferrals: 2,
		DailyJoins:     map[string]int{"2026-09-01": 5},
	}
	s := New(repo)

	ctx := context.Background()
	caller := &entity.User{ID: "owner-1"}

	id, err := s.CreateWaitlist(ctx, caller, insert("beta-launch"))
	require.NoError(t, err)

	a, err := s.Analytics(ctx, caller, id)
	require.NoError(t, err)
	assert.Equal(t, 5, a.TotalEntries)
	assert.Equal(t, 2, a.TotalReferrals)
}
