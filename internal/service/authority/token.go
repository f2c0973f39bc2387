package authority

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// TokenSource supplies the shared secret sent with every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// errEmptyToken is returned when a source yields no token.
var errEmptyToken = errors.New("authority token is empty")

// StaticToken is a token taken from configuration.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", errEmptyToken
	}

	return string(t), nil
}

// FileToken reads the token from a file on every call, so it can be rotated
// without restarting the endpoint.
type FileToken struct {
	Path string
}

// Token implements TokenSource.
func (t FileToken) Token(context.Context) (string, error) {
	raw, err := os.ReadFile(t.Path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("%s: %w", t.Path, errEmptyToken)
	}

	return token, nil
}

// NewTokenSource prefers the file when both a file and a literal are given.
func NewTokenSource(token, tokenFile string) TokenSource {
	if tokenFile != "" {
		return FileToken{Path: tokenFile}
	}

	return StaticToken(token)
}
