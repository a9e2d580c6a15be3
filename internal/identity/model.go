// File: internal/identity/model.go
package identity

// Identity is the normalized principal produced by a successful OAuth
// exchange. It is immutable for the life of the session that binds it.
type Identity struct {
	ID                string  `json:"id"`
	DisplayName       string  `json:"displayName"`
	FirstName         *string `json:"firstName,omitempty"`
	LastName          *string `json:"lastName,omitempty"`
	Email             *string `json:"email,omitempty"`
	ProfilePictureURL *string `json:"profilePicture,omitempty"`

	// AccessToken is the provider token obtained during the exchange. It is
	// never serialized to clients and never written into a lead record.
	AccessToken string `json:"-"`
}
