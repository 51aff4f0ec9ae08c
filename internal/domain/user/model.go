package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Type discriminates the variants sharing the users collection.
type Type string

const (
	TypeUser      Type = "User"
	TypeAdmin     Type = "Admin"
	TypePassenger Type = "ArtPassenger"
)

// AdminProfile is the Admin-only payload.
type AdminProfile struct {
	Level        string   `json:"adminLevel"`
	Permissions  []string `json:"permissions,omitempty"`
	AssignedArea string   `json:"assignedArea,omitempty"`
}

// PassengerProfile is the ArtPassenger-only payload.
type PassengerProfile struct {
	PaymentMethods []string `json:"paymentMethods,omitempty"`
	BookingHistory []string `json:"bookingHistory,omitempty"`
	Preferences    []string `json:"preferences,omitempty"`
	LoyaltyPoints  int      `json:"loyaltyPoints"`
}

// User is a tagged variant: a shared base record plus a payload discriminated
// by Type. Exactly one of Admin/Passenger is set for the matching tag.
type User struct {
	ID            string    `json:"userID"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"passwordHash"`
	Phone         string    `json:"phone,omitempty"`
	FirstName     string    `json:"firstName,omitempty"`
	LastName      string    `json:"lastName,omitempty"`
	RegisteredAt  time.Time `json:"dateRegistered"`
	AccountStatus string    `json:"accountStatus"`
	Type          Type      `json:"_userType"`

	Admin     *AdminProfile     `json:"admin,omitempty"`
	Passenger *PassengerProfile `json:"passenger,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Type == TypeAdmin
}

// UnmarshalJSON is the single reconstruction factory keyed on the _userType
// tag: it decodes the shared base and attaches the payload matching the tag,
// rejecting unknown tags and dropping payloads that do not belong.
func (u *User) UnmarshalJSON(data []byte) error {
	type base User // avoid recursion
	var b base
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	if b.Type == "" {
		b.Type = TypeUser
	}
	switch b.Type {
	case TypeAdmin:
		if b.Admin == nil {
			b.Admin = &AdminProfile{Level: "staff"}
		}
		b.Passenger = nil
	case TypePassenger:
		if b.Passenger == nil {
			b.Passenger = &PassengerProfile{}
		}
		b.Admin = nil
	case TypeUser:
		b.Admin = nil
		b.Passenger = nil
	default:
		return fmt.Errorf("unknown user type %q", b.Type)
	}
	*u = User(b)
	return nil
}

// NewPassenger builds an ArtPassenger with an empty profile.
func NewPassenger(id, username, email, passwordHash string, now time.Time) User {
	return User{
		ID:            id,
		Username:      username,
		Email:         email,
		PasswordHash:  passwordHash,
		RegisteredAt:  now,
		AccountStatus: "Active",
		Type:          TypePassenger,
		Passenger:     &PassengerProfile{},
	}
}

// NewAdmin builds an Admin at the given level.
func NewAdmin(id, username, email, passwordHash, level string, now time.Time) User {
	return User{
		ID:            id,
		Username:      username,
		Email:         email,
		PasswordHash:  passwordHash,
		RegisteredAt:  now,
		AccountStatus: "Active",
		Type:          TypeAdmin,
		Admin:         &AdminProfile{Level: level},
	}
}
