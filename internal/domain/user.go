package domain

import "time"

// Occupation is the user's role; it selects the home screen after login.
type Occupation string

const (
	OccupationAdmin    Occupation = "Admin"
	OccupationEmployee Occupation = "Employee"
	OccupationDriver   Occupation = "Driver"
)

// ValidOccupation reports whether o is one of the recognized roles.
func ValidOccupation(o Occupation) bool {
	switch o {
	case OccupationAdmin, OccupationEmployee, OccupationDriver:
		return true
	}
	return false
}

// User mirrors the external auth list record (UserauthList/{uid}).
type User struct {
	UserID         string     `json:"userId"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Occupation     Occupation `json:"occupation"`
	ProfilePicture string     `json:"profilePicture"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"-"`
}
