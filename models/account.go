// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Permission levels assigned at account creation.
const (
	// PermissionLevelUser is granted to every account created through
	// regular registration.
	PermissionLevelUser = 1

	// PermissionLevelOwner is granted to the initial account created while
	// no other account exists.
	PermissionLevelOwner = 5
)

// Account represents a registered user identity.
// HashedPassword holds a PHC-formatted argon2id string (or a legacy bcrypt
// hash) and must never leave trusted boundaries.
type Account struct {
	// ID is the UUIDv7 primary key generated before insertion.
	ID string `json:"id"`

	// Username is unique across all accounts.
	Username string `json:"username"`

	// Email is optional; when email registration is enabled it is unique.
	Email string `json:"email,omitempty"`

	// HashedPassword is excluded from JSON serialization.
	HashedPassword string `json:"-"`

	// PermissionLevel is one of the PermissionLevel* constants.
	PermissionLevel int `json:"permission_level"`

	// Admin marks the administrative owner account.
	Admin bool `json:"admin"`

	// BodyColours are the avatar colour defaults applied at creation.
	BodyColours BodyColours `json:"body_colours"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}

// BodyColours holds the palette indices of every avatar body part.
type BodyColours struct {
	Head     int `json:"Head"`
	LeftArm  int `json:"LeftArm"`
	LeftLeg  int `json:"LeftLeg"`
	RightArm int `json:"RightArm"`
	RightLeg int `json:"RightLeg"`
	Torso    int `json:"Torso"`
}

// DefaultBodyColours returns the stock palette given to new avatars.
func DefaultBodyColours() BodyColours {
	return BodyColours{
		Head:     24,
		LeftArm:  24,
		LeftLeg:  119,
		RightArm: 24,
		RightLeg: 119,
		Torso:    23,
	}
}
