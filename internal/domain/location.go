package domain

// Location is immutable airport reference data, loaded once per session.
type Location struct {
	Code        string `json:"code"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Name        string `json:"name"`
	SearchLabel string `json:"label"`
}
