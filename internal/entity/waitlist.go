package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Waitlist is an owner-created campaign with a public join form.
type Waitlist struct {
	ID          int       `db:"id" json:"id"`
	FormKey     string    `db:"form_key" json:"form_key"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	WaitlistInsert
}

type WaitlistInsert struct {
	Name               string             `db:"name" json:"name" valid:"required"`
	Description        string             `db:"description" json:"description"`
	URLSlug            string             `db:"url_slug" json:"url_slug" valid:"required"`
	WebsiteURL         *string            `db:"website_url" json:"website_url"`
	CustomStyles       CustomStyles       `db:"custom_styles" json:"custom_styles"`
	ThankYouPage       ThankYouPage       `db:"thank_you_page" json:"thank_you_page"`
	SubmissionSettings SubmissionSettings `db:"submission_settings" json:"submission_settings"`
}

// CustomStyles is an opaque styling override document stored as JSON.
type CustomStyles map[string]any

func (cs CustomStyles) Value() (driver.Value, error) {
	if cs == nil {
		return json.Marshal(CustomStyles{})
	}
	return json.Marshal(cs)
}

func (cs *CustomStyles) Scan(src any) error {
	return scanJSON(src, cs)
}

// ThankYouPage is the post-join page document.
type ThankYouPage struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	CustomHTML string `json:"custom_html"`
}

func DefaultThankYouPage() ThankYouPage {
	return ThankYouPage{
		Title:   "Thank you for joining!",
		Message: "You have been added to the waitlist.",
	}
}

func (t ThankYouPage) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *ThankYouPage) Scan(src any) error {
	return scanJSON(src, t)
}

// ThankYouPagePatch carries only the fields present in an update request.
type ThankYouPagePatch struct {
	Title      *string `json:"title"`
	Message    *string `json:"message"`
	CustomHTML *string `json:"custom_html"`
}

// Merge overlays the patch on the existing document, keeping current values
// for absent fields.
func (t ThankYouPage) Merge(p ThankYouPagePatch) ThankYouPage {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Message != nil {
		t.Message = *p.Message
	}
	if p.CustomHTML != nil {
		t.CustomHTML = *p.CustomHTML
	}
	return t
}

// SubmissionSettings controls what happens after a visitor joins.
type SubmissionSettings struct {
	NotifyEmail           string `json:"notify_email"`
	AutoResponse          bool   `json:"auto_response"`
	ResponseEmailTemplate string `json:"response_email_template"`
}

func DefaultSubmissionSettings() SubmissionSettings {
	return SubmissionSettings{
		AutoResponse:          true,
		ResponseEmailTemplate: "default",
	}
}

func (s SubmissionSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SubmissionSettings) Scan(src any) error {
	return scanJSON(src, s)
}

type SubmissionSettingsPatch struct {
	NotifyEmail           *string `json:"notify_email" valid:"email,optional"`
	AutoResponse          *bool   `json:"auto_response"`
	ResponseEmailTemplate *string `json:"response_email_template"`
}

func (s SubmissionSettings) Merge(p SubmissionSettingsPatch) SubmissionSettings {
	if p.NotifyEmail != nil {
		s.NotifyEmail = *p.NotifyEmail
	}
	if p.AutoResponse != nil {
		s.AutoResponse = *p.AutoResponse
	}
	if p.ResponseEmailTemplate != nil {
		s.ResponseEmailTemplate = *p.ResponseEmailTemplate
	}
	return s
}

// FormConfig is the public view of a waitlist handed to the embeddable
// form, addressed by form key.
type FormConfig struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	URLSlug      string       `json:"url_slug"`
	IsPublished  bool         `json:"is_published"`
	CustomStyles CustomStyles `json:"custom_styles"`
	ThankYouPage ThankYouPage `json:"thank_you_page"`
}

// BasicSettingsPatch carries the mutable top-level waitlist fields.
type BasicSettingsPatch struct {
	Name       *string `json:"name"`
	WebsiteURL *string `json:"website_url" valid:"url,optional"`
}

func scanJSON(src, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}
