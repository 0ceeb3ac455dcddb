package model

// User is a resolved chat identity
type User struct {
	ID          string
	DisplayName string
	Unknown     bool
}

// UnknownUser is the sentinel returned when an identity cannot be resolved
func UnknownUser(id string) *User {
	return &User{ID: id, DisplayName: "Unknown#0000", Unknown: true}
}
