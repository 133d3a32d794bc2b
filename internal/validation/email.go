// Package validation содержит функции валидации входных данных.
package validation

import (
	"net/mail"
	"strings"
)

// IsValidEmail проверяет, что строка является одиночным адресом вида local@domain.tld без имени и угловых скобок.
func IsValidEmail(email string) bool {
	if email == "" || strings.TrimSpace(email) != email {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return false
	}

	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 || len(domain)-dot-1 < 2 {
		return false
	}

	return !strings.ContainsAny(email, `/\`)
}

// HasLength проверяет, что идентификатор имеет ровно n символов без пробелов по краям.
func HasLength(id string, n int) bool {
	return len(id) == n && strings.TrimSpace(id) == id
}
