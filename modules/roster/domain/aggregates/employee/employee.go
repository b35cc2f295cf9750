package employee

import (
	"strings"
	"time"
)

// TempCodePrefix marks rows created in the board's editable table that have
// not been persisted yet. Such tokens are local only; the first save replaces
// them with the real employee number.
const TempCodePrefix = "new_"

func IsTempCode(code string) bool {
	return strings.HasPrefix(code, TempCodePrefix)
}

type Employee struct {
	code       string
	familyName string
	givenName  string
	office     string
	department string
	email      string
	createdAt  time.Time
	updatedAt  time.Time
}

func New(code, familyName, givenName, office, department, email string) Employee {
	return Employee{
		code:       strings.TrimSpace(code),
		familyName: strings.TrimSpace(familyName),
		givenName:  strings.TrimSpace(givenName),
		office:     strings.TrimSpace(office),
		department: strings.TrimSpace(department),
		email:      strings.TrimSpace(email),
	}
}

func Hydrate(
	code string,
	familyName string,
	givenName string,
	office string,
	department string,
	email string,
	createdAt time.Time,
	updatedAt time.Time,
) Employee {
	return Employee{
		code:       code,
		familyName: familyName,
		givenName:  givenName,
		office:     office,
		department: department,
		email:      email,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (e Employee) Code() string         { return e.code }
func (e Employee) FamilyName() string   { return e.familyName }
func (e Employee) GivenName() string    { return e.givenName }
func (e Employee) Office() string       { return e.office }
func (e Employee) Department() string   { return e.department }
func (e Employee) Email() string        { return e.email }
func (e Employee) CreatedAt() time.Time { return e.createdAt }
func (e Employee) UpdatedAt() time.Time { return e.updatedAt }
func (e Employee) IsZero() bool         { return e.code == "" }

// DisplayName is the family-name-first form used in schedule views.
func (e Employee) DisplayName() string {
	return strings.TrimSpace(e.familyName + " " + e.givenName)
}
