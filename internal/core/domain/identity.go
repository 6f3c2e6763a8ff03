package domain

import "time"

// Identity is a registered account.
type Identity struct {
	ID           int64     `json:"id"`
	DisplayName  string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Email        string    `json:"mail,omitempty"`
	CreatedAt    time.Time `json:"createTime"`
}

// TokenPayload is the identity snapshot embedded in a bearer token.
type TokenPayload struct {
	SubjectID   int64
	Email       string
	DisplayName string
	Role        Role
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// PayloadFor builds the unsigned part of a token payload for id.
func PayloadFor(id *Identity) TokenPayload {
	return TokenPayload{
		SubjectID:   id.ID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Role:        id.Role,
	}
}
