package domain

// PassengerRecord holds the traveling passenger's data, mutated incrementally
// while the details step is active and frozen once the workflow moves past it.
type PassengerRecord struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfBirth    string `json:"date_of_birth"`
	DocumentNumber string `json:"document_number"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
}

// FullName is the display name used on documents.
func (p PassengerRecord) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}
