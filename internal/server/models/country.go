package models

// Country is one entry of the country directory.
type Country struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
