package domain

// User is the authenticated household member issuing a request.
type User struct {
	ID          string
	DisplayName string
}
