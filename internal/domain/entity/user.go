package entity

import "time"

type User struct {
	ID    string `json:"id" firestore:"id"`
	Name  string `json:"name" firestore:"name"`
	Email string `json:"email" firestore:"email"`
	Role  string `json:"role" firestore:"role"` // "user", "admin"
	Photo string `json:"photo" firestore:"photo"`

	// Password holds the bcrypt hash; never serialized to clients.
	Password          string    `json:"-" firestore:"password"`
	PasswordChangedAt time.Time `json:"-" firestore:"passwordChangedAt"`

	// PasswordResetToken stores the SHA-256 digest of the emailed token.
	PasswordResetToken   string    `json:"-" firestore:"passwordResetToken,omitempty"`
	PasswordResetExpires time.Time `json:"-" firestore:"passwordResetExpires,omitempty"`

	Active    bool      `json:"-" firestore:"active"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PublicProfile is the projection embedded in chat member listings.
type PublicProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

func (u *User) Profile() PublicProfile {
	return PublicProfile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Photo: u.Photo,
	}
}

// ChangedPasswordAfter reports whether the credential was rotated after the
// given token issue time; such tokens are stale and must be rejected.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}
