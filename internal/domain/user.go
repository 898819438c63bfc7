package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered user of the tours application.
// The plaintext Password is only held transiently between request decoding
// and hashing; it is never serialized or persisted.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"        json:"id"`
	Name           string             `bson:"name"                 json:"name"`
	Email          string             `bson:"email"                json:"email"`
	Photo          string             `bson:"photo,omitempty"      json:"photo,omitempty"`
	Role           Role               `bson:"role"                 json:"role"`
	Password       string             `bson:"-"                    json:"-"` // Plaintext, transient
	HashedPassword string             `bson:"password"             json:"-"` // Never exposed
	CreatedAt      time.Time          `bson:"createdAt"            json:"created_at"`
	UpdatedAt      time.Time          `bson:"updatedAt"            json:"updated_at"`

	// PasswordChangedAt invalidates credentials issued before the user's
	// last password change.
	PasswordChangedAt time.Time `bson:"passwordChangedAt,omitempty" json:"-"`

	// PasswordResetToken holds only the SHA-256 hex of the reset token;
	// the plaintext is returned once to the caller and never stored.
	PasswordResetToken   string    `bson:"passwordResetToken,omitempty"   json:"-"`
	PasswordResetExpires time.Time `bson:"passwordResetExpires,omitempty" json:"-"`

	// Active is false for soft-deleted accounts. Inactive users are
	// excluded from every read path.
	Active bool `bson:"active" json:"-"`
}

// NewUser creates a new User with the given name, email and plaintext
// password. The caller is responsible for hashing the password before
// storing the user. New users always start with RoleUser; role escalation
// is a separate, admin-only update.
func NewUser(name, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Role:      RoleUser,
		Password:  password,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if !u.Role.Valid() {
		return ErrInvalidRole
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}

	// Existing users loaded from the store carry only the hash.
	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// HasPasswordChangedSince reports whether the user's password was changed
// after the given credential issue time. Used to reject stale tokens that
// survived a password change.
func (u *User) HasPasswordChangedSince(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}

// StampPasswordChanged records the moment of a password change. The stamp
// is backdated by one second because JWT issued-at claims have second
// precision and a credential issued in the same instant must stay valid.
func (u *User) StampPasswordChanged(now time.Time) {
	u.PasswordChangedAt = now.Add(-time.Second).UTC()
}

// UserUpdate describes a partial update to a user's profile. Nil fields
// are left untouched. Password changes never go through this path; they
// have their own flow that re-hashes and stamps PasswordChangedAt.
type UserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Photo *string `json:"photo,omitempty"`
	Role  *Role   `json:"role,omitempty"` // admin-only; handlers must not bind this from self-service routes
}

// Validate checks the fields that are present.
func (u *UserUpdate) Validate() error {
	if u.Name == nil && u.Email == nil && u.Photo == nil && u.Role == nil {
		return ErrNoUserFieldsToSet
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrEmptyName
	}
	if u.Email != nil {
		normalized := NormalizeEmail(*u.Email)
		if normalized == "" {
			return ErrEmptyEmail
		}
		if !validEmailFormat(normalized) {
			return ErrInvalidEmail
		}
	}
	if u.Role != nil && !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// ValidatePassword checks plaintext password length bounds. The upper
// bound is bcrypt's 72-byte input limit.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < 8:
		return ErrPasswordTooShort
	case len(password) > 72:
		return ErrPasswordTooLong
	default:
		return nil
	}
}

// NormalizeEmail lowercases and trims an email address so uniqueness
// checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmailFormat performs basic structural validation of an email
// address: a local part, an @, and a domain containing an interior dot.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
