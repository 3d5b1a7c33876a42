package entity

// User is the caller identity as verified by the external identity provider.
// ID is the provider's user id and is what waitlists record as owner_id.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
