package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	cerr "github.com/opst/writerid/cmd/wid/errors"
	apiauth "github.com/opst/writerid/pkg/api/types/auth"
)

// ErrNoToken is returned when a login response carries no token.
var ErrNoToken = errors.New("no token in login response")

func (c *client) Login(ctx context.Context, req apiauth.LoginRequest) (apiauth.Session, error) {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("Auth", "login"), req)
	if err != nil {
		return apiauth.Session{}, err
	}
	defer resp.Body.Close()

	body, err := readResponse(resp, MessageFor{
		Status4xx: "login failed",
		Status5xx: "server error",
	})
	if err != nil {
		return apiauth.Session{}, err
	}

	sess, err := NormalizeAuthResponse(body)
	if err != nil {
		return apiauth.Session{}, cerr.NewCuiError(
			"login failed", cerr.WithCause(err), cerr.WithVerbose(string(body)),
		)
	}
	return sess, nil
}

func (c *client) Register(ctx context.Context, req apiauth.RegisterRequest) error {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("Auth", "register"), req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = readResponse(resp, MessageFor{
		Status4xx: "registration failed",
		Status5xx: "server error",
	})
	return err
}

// NormalizeAuthResponse reads a login response into a session.
//
// The token is searched in "token", "accessToken" and "access_token".
// The user is read from "user" if it is an object, otherwise from the root.
// Missing user fields are taken from the token claims if the token is a JWT,
// and then filled with placeholders.
func NormalizeAuthResponse(body []byte) (apiauth.Session, error) {
	root := map[string]any{}
	if err := json.Unmarshal(body, &root); err != nil {
		return apiauth.Session{}, err
	}

	token := firstString(root, "token", "accessToken", "access_token")
	if token == "" {
		return apiauth.Session{}, ErrNoToken
	}

	src := root
	if u, ok := root["user"].(map[string]any); ok {
		src = u
	}

	user := apiauth.User{
		Id:        firstString(src, "id", "userId"),
		Email:     firstString(src, "email", "username"),
		FirstName: firstString(src, "firstName"),
		LastName:  firstString(src, "lastName"),
	}
	if name := firstString(src, "name", "fullName"); name != "" {
		parts := strings.Split(name, " ")
		if user.FirstName == "" {
			user.FirstName = parts[0]
		}
		if user.LastName == "" && 1 < len(parts) {
			user.LastName = parts[1]
		}
	}

	if claims, ok := TokenClaims(token); ok {
		fill(&user.Id, firstString(claims, "sub", "nameid", "userId"))
		fill(&user.Email, firstString(claims, "email", "unique_name"))
		fill(&user.FirstName, firstString(claims, "given_name"))
		fill(&user.LastName, firstString(claims, "family_name"))
	}

	fill(&user.Id, apiauth.PlaceholderId)
	fill(&user.Email, apiauth.PlaceholderEmail)
	fill(&user.FirstName, apiauth.PlaceholderFirstName)
	fill(&user.LastName, apiauth.PlaceholderLastName)

	return apiauth.Session{Token: token, User: user}, nil
}

// TokenClaims reads claims of a JWT without verifying its signature.
//
// The server verifies tokens. Claims are only used for display.
func TokenClaims(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

func fill(dest *string, value string) {
	if *dest == "" {
		*dest = value
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
