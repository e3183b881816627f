package urlstate

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/breakfast/internal/models"
)

// Version is the token format written by [Encode].
const Version = "v1"

const versionSep = "."

// ErrMalformedToken wraps every decode failure.
var ErrMalformedToken = errors.New("urlstate: malformed token")

// Encode serializes state into a URL-safe token.
func Encode(state models.ProgressState) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("failed to encode state: %w", err)
	}
	escaped := url.PathEscape(string(data))
	return Version + versionSep + base64.RawURLEncoding.EncodeToString([]byte(escaped)), nil
}

// Decode parses a token produced by [Encode] or by the legacy unversioned format.
func Decode(token string) (models.ProgressState, error) {
	var state models.ProgressState

	token = strings.TrimPrefix(strings.TrimSpace(token), "#")
	if token == "" {
		return state, fmt.Errorf("%w: empty", ErrMalformedToken)
	}

	var raw []byte
	var err error
	if version, body, ok := strings.Cut(token, versionSep); ok && strings.HasPrefix(version, "v") {
		if version != Version {
			return state, fmt.Errorf("%w: unsupported version %q", ErrMalformedToken, version)
		}
		raw, err = base64.RawURLEncoding.DecodeString(body)
	} else {
		raw, err = base64.StdEncoding.DecodeString(token)
	}
	if err != nil {
		return state, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	unescaped, err := url.PathUnescape(string(raw))
	if err != nil {
		return state, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if err := json.Unmarshal([]byte(unescaped), &state); err != nil {
		return models.ProgressState{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return state, nil
}
