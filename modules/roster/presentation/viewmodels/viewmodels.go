package viewmodels

type Employee struct {
	Code       string `json:"code"`
	FamilyName string `json:"family_name"`
	GivenName  string `json:"given_name"`
	Office     string `json:"office"`
	Department string `json:"department"`
	Email      string `json:"email"`
}
