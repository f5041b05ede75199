package domain

import (
	"strings"
	"unicode/utf8"
)

// GenerateUsername derives the login name from an owner's full name: the
// lowercase first letter of every space separated token, joined together.
func GenerateUsername(owner string) string {
	var b strings.Builder
	for _, token := range strings.Split(strings.ToLower(owner), " ") {
		if token == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(token)
		b.WriteRune(r)
	}
	return b.String()
}

// GenerateUsernames assigns a username to every account. Usernames are not
// checked for uniqueness.
func GenerateUsernames(accounts []Account) {
	for i := range accounts {
		accounts[i].Username = GenerateUsername(accounts[i].Owner)
	}
}
