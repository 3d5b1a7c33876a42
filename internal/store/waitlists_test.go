package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waitline/waitline-manager/internal/entity"
	gerr "github.com/waitline/waitline-manager/internal/errors"
)

func newTestWaitlist(t *testing.T, db *MYSQLStore, slug, formKey string) int {
	t.Helper()
	id, err := db.Waitlists().Create(context.Background(), &entity.WaitlistInsert{
		Name:               "Beta Launch",
		Description:        "Early access list",
		URLSlug:            slug,
		ThankYouPage:       entity.DefaultThankYouPage(),
		SubmissionSettings: entity.DefaultSubmissionSettings(),
	}, "owner-1", formKey)
	require.NoError(t, err)
	return id
}

func TestWaitlists_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ws := db.Waitlists()

	ctx := context.Background()

	id := newTestWaitlist(t, db, "beta-launch", "fk111111")

	w, err := ws.GetById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Beta Launch", w.Name)
	assert.Equal(t, "owner-1", w.OwnerID)
	assert.False(t, w.IsPublished)
	assert.Equal(t, entity.DefaultThankYouPage(), w.ThankYouPage)
	assert.True(t, w.SubmissionSettings.AutoResponse)

	bySlug, err := ws.GetBySlug(ctx, "beta-launch")
	require.NoError(t, err)
	assert.Equal(t, id, bySlug.ID)

	byKey, err := ws.GetByFormKey(ctx, "fk111111")
	require.NoError(t, err)
	assert.Equal(t, id, byKey.ID)

	_, err = ws.GetBySlug(ctx, "no-such-slug")
	assert.ErrorIs(t, err, gerr.ErrNotFound)

	list, err := ws.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = ws.ListByOwner(ctx, "owner-2")
	require.NoError(t, err)
	assert.Len(t, list, 0)
}

func TestWaitlists_DuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ws := db.Waitlists()

	ctx := context.Background()

	newTestWaitlist(t, db, "beta-launch", "fk111111")

	_, err := ws.Create(ctx, &entity.WaitlistInsert{
		Name:        "Another",
		Description: "Duplicate slug",
		URLSlug:     "beta-launch",
	}, "owner-2", "fk222222")
	assert.ErrorIs(t, err, gerr.ErrConflict)
}

func TestWaitlists_ThankYouPageMerge(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ws := db.Waitlists()

	ctx := context.Background()

	id := newTestWaitlist(t, db, "beta-launch", "fk111111")

	msg := "See you soon."
	err := ws.UpdateThankYouPage(ctx, id, entity.ThankYouPagePatch{
		Message: &msg,
	})
	require.NoError(t, err)

	w, err := ws.GetById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, msg, w.ThankYouPage.Message)
	// absent fields keep their stored values
	assert.Equal(t, entity.DefaultThankYouPage().Title, w.ThankYouPage.Title)
}

func TestWaitlists_SubmissionSettingsMerge(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ws := db.Waitlists()

	ctx := context.Background()

	id := newTestWaitlist(t, db, "beta-launch", "fk111111")

	notify := "owner@mail.test"
	err := ws.UpdateSubmissionSettings(ctx, id, entity.SubmissionSettingsPatch{
		NotifyEmail: &notify,
	})
	require.NoError(t, err)

	w, err := ws.GetById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, notify, w.SubmissionSettings.NotifyEmail)
	assert.True(t, w.SubmissionSettings.AutoResponse)
	assert.Equal(t, "default", w.SubmissionSettings.ResponseEmailTemplate)
}

func TestWaitlists_BasicSettingsAndPublish(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ws := db.Waitlists()

	ctx := context.Background()

	id := newTestWaitlist(t, db, "beta-launch", "fk111111")

	name := "Beta Launch v2"
	err := ws.UpdateBasicSettings(ctx, id, entity.BasicSettingsPatch{
		Name: &name,
	})
	require.NoError(t, err)

	w, err := ws.GetById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, name, w.Name)
	assert.Nil(t, w.WebsiteURL)

	err = ws.SetPublished(ctx, id, true)
	require.NoError(t, err)

	w, err = ws.GetById(ctx, id)
	require.NoError(t, err)
	assert.True(t, w.IsPublished)
}
