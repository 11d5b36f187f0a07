// Серверная модель пользователя
package models

import "time"

// User — запись хранилища пользователей.
//
// ID генерирует хранилище при создании (hex ObjectID для mongo, UUID для postgres и memory).
// PasswordHash никогда не содержит исходный пароль и не покидает сервер.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
