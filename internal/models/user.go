package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name       string `bson:"name" json:"name"`
	Email      string `bson:"email" json:"email"`        // Stored normalized (trimmed, lower-cased)
	Password   string `bson:"password,omitempty" json:"-"` // Empty for federated-only accounts
	IsVerified bool   `bson:"is_verified" json:"is_verified"`
	GoogleID   string `bson:"google_id,omitempty" json:"-"`

	// Profile fields
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string `bson:"address,omitempty" json:"address,omitempty"`
	Bio       string `bson:"bio,omitempty" json:"bio,omitempty"`
}

// IsFederated reports whether the account signs in through an external
// identity provider.
func (u *User) IsFederated() bool {
	return u.GoogleID != ""
}

// PublicUser is the projection returned to clients.
type PublicUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	AvatarURL  string    `json:"avatarUrl,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Federated  bool      `json:"federated"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID.Hex(),
		Name:       u.Name,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		AvatarURL:  u.AvatarURL,
		Phone:      u.Phone,
		Address:    u.Address,
		Bio:        u.Bio,
		Federated:  u.IsFederated(),
		CreatedAt:  u.CreatedAt,
	}
}

// ProfileUpdate carries the optional fields of PUT /user/update-profile.
// Nil means "leave unchanged".
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Address == nil && p.Bio == nil && p.AvatarURL == nil
}
