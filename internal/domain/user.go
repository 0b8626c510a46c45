package domain

type UserID int64

// User is the authenticated GitHub account. Replaced wholesale on each fetch.
type User struct {
	ID        UserID
	Login     string
	Name      string
	AvatarURL string
	Email     string
}
