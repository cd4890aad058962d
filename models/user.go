package models

import "bitbucket.org/mmdatafocus/busops_backend/store"

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
	Active       bool   `json:"active"`
}

func UserFromDocument(doc store.RawDocument) User {
	return User{
		ID:           doc.ID,
		Username:     doc.Field("username"),
		Name:         doc.Field("name"),
		Role:         doc.Field("role"),
		PasswordHash: doc.Field("passwordHash"),
		Active:       doc.Field("active") != "false",
	}
}
