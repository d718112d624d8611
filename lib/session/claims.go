package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"sitedash/lib/constants"
	"sitedash/lib/models"
)

// ErrNoIdentity is returned when neither the session nor Cognito knows the user's id
var ErrNoIdentity = errors.New("no construction API identity for subject")

// TokenClaims are the custom claims stamped onto a user's Cognito tokens
type TokenClaims struct {
	UserID   string
	Role     string
	Email    string
	Username string
}

// Map renders the claims for a token override; empty values are left out
func (c *TokenClaims) Map() map[string]interface{} {
	claims := map[string]interface{}{
		"user_id": c.UserID,
	}
	if c.Role != "" {
		claims["role"] = c.Role
	}
	if c.Email != "" {
		claims["email"] = c.Email
	}
	if c.Username != "" {
		claims["username"] = c.Username
	}
	return claims
}

// Groups maps the role onto a Cognito group
func (c *TokenClaims) Groups() []string {
	if c.Role == "" {
		return []string{}
	}
	return []string{c.Role}
}

// TokenClaims resolves the claims for subject. The cached user record wins;
// otherwise the custom:user_id and custom:role user attributes are used.
func (p *Provider) TokenClaims(ctx context.Context, subject string, attributes map[string]string) (*TokenClaims, error) {
	if subject == "" {
		return nil, ErrNoSubject
	}

	raw, found, err := p.Store.GetItem(ctx, subject, constants.SessionItemUser)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if found {
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil && user.ID > 0 {
			return &TokenClaims{
				UserID:   strconv.FormatInt(user.ID, 10),
				Role:     user.Role,
				Email:    user.Email,
				Username: user.Username,
			}, nil
		}
	}

	claims := &TokenClaims{
		UserID: attributes["custom:user_id"],
		Role:   attributes["custom:role"],
		Email:  attributes["email"],
	}
	if claims.UserID == "" {
		return nil, ErrNoIdentity
	}
	return claims, nil
}
