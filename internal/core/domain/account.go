package domain

// Account is the server-side record behind a User.
type Account struct {
	User
	PasswordHash string
	Verified     bool
}

// Image is a stored profile picture.
type Image struct {
	Data        []byte
	ContentType string
}
