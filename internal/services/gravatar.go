package services

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

const gravatarBaseURL = "https://s.gravatar.com/avatar/"

// GravatarURL derives the default avatar for an email address.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return gravatarBaseURL + hex.EncodeToString(sum[:])
}
