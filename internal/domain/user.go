package domain

import "time"

// User — пользователь сервиса. IsStaff даёт права администратора каталога.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
}

func NewUser(username, email, passwordHash string, isStaff bool) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsStaff:      isStaff,
	}
}
