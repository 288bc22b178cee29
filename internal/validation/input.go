package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Ограничения длины пользовательского ввода.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxMessageLength     = 1000
	MaxCommentLength     = 1000
	MaxComplaintLength   = 1000
	MaxAddressLength     = 500
	MinPasswordLength    = 8
	MaxPasswordLength    = 72 // предел bcrypt
)

// ValidateEmail проверяет синтаксис email.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email не указан")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("некорректный email")
	}
	return nil
}

// ValidatePassword проверяет длину пароля.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("пароль должен быть не короче %d символов", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("пароль слишком длинный")
	}
	return nil
}

// ValidateLength проверяет, что строка не пуста и не длиннее max.
func ValidateLength(field, value string, max int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s не указан", field)
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s длиннее %d символов", field, max)
	}
	return nil
}

// ValidateOptionalLength проверяет только верхнюю границу длины.
func ValidateOptionalLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s длиннее %d символов", field, max)
	}
	return nil
}

// Sanitize убирает ведущие и замыкающие пробелы и NUL-байты.
func Sanitize(value string) string {
	return strings.TrimSpace(strings.ReplaceAll(value, "\x00", ""))
}
