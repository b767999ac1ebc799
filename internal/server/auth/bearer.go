package auth

import (
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// ExtractBearer returns the token carried by an "Authorization: Bearer <t>"
// value.
func ExtractBearer(header string) (string, error) {
	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok {
		return "", common.ErrMalformedAuthHeader
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.ErrMalformedAuthHeader
	}
	return token, nil
}
