package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThankYouPageMerge(t *testing.T) {
	stored := ThankYouPage{
		Title:      "Thanks!",
		Message:    "You are in.",
		CustomHTML: "<b>hi</b>",
	}

	msg := "See you soon."
	merged := stored.Merge(ThankYouPagePatch{Message: &msg})
	assert.Equal(t, "Thanks!", merged.Title)
	assert.Equal(t, msg, merged.Message)
	assert.Equal(t, "<b>hi</b>", merged.CustomHTML)

	// empty patch keeps everything
	assert.Equal(t, stored, stored.Merge(ThankYouPagePatch{}))

	// explicit empty string clears the field
	empty := ""
	merged = stored.Merge(ThankYouPagePatch{CustomHTML: &empty})
	assert.Equal(t, "", merged.CustomHTML)
	assert.Equal(t, stored.Title, merged.Title)
}

func TestSubmissionSettingsMerge(t *testing.T) {
	stored := DefaultSubmissionSettings()
	assert.True(t, stored.AutoResponse)
	assert.Equal(t, "default", stored.ResponseEmailTemplate)

	off := false
	notify := "owner@mail.test"
	merged := stored.Merge(SubmissionSettingsPatch{
		AutoResponse: &off,
		NotifyEmail:  &notify,
	})
	assert.False(t, merged.AutoResponse)
	assert.Equal(t, notify, merged.NotifyEmail)
	assert.Equal(t, "default", merged.ResponseEmailTemplate)
}

func TestCustomStylesScan(t *testing.T) {
	var cs CustomStyles
	err := cs.Scan([]byte(`{"button_color":"#111111"}`))
	assert.NoError(t, err)
	assert.Equal(t, "#111111", cs["button_color"])

	var empty CustomStyles
	assert.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty)

	v, err := empty.Value()
	assert.NoError(t, err)
	assert.JSONEq(t, `{}`, string(v.([]byte)))
}
