// Package models defines the records exchanged with the account API and
// cached locally: the user profile snapshot, its nested education record,
// and the ephemeral signup/login credentials.
package models

// Gender values accepted by the API.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Genders lists the accepted gender values in display order.
var Genders = []string{GenderMale, GenderFemale, GenderOther}

// Degrees lists the fixed academic levels accepted by the API.
var Degrees = []string{"Matric", "FSc", "Bachelors", "Masters", "MPhil", "PhD"}

// Upload size caps, enforced locally before any bytes leave the machine.
const (
	MaxProfilePictureBytes = 5 << 20
	MaxCVBytes             = 10 << 20
)

// Education is the nested education record of a profile. EndDate is
// meaningful only while IsOngoing is false, but a previously entered value
// is kept when the flag is toggled.
type Education struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	StartYear      string `json:"startYear"`
	IsOngoing      bool   `json:"isOngoing"`
	EndDate        string `json:"endDate,omitempty"`
	GraduationYear string `json:"graduationYear,omitempty"`
}

// UserProfile is the identity record owned by the authenticated session.
// It is created server-side at signup and mutated only through the update
// endpoints; Email is immutable after creation.
type UserProfile struct {
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber"`
	CountryCode    string    `json:"countryCode"`
	Gender         string    `json:"gender"`
	DateOfBirth    string    `json:"dob"`
	Country        string    `json:"country"`
	State          string    `json:"state"`
	Address        string    `json:"address"`
	Education      Education `json:"education"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CV             string    `json:"cv,omitempty"`
}

// Clone returns an independent copy of the profile. The nested education
// record is copied as well, so edits to the clone never leak into the
// original snapshot.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Credentials carries a signup/login secret pair. It exists only for the
// duration of a submission and is never persisted.
type Credentials struct {
	Email           string
	Password        string
	ConfirmPassword string
}
