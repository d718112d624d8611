// Package session resolves the acting user of a request and ends sessions.
//
// The signed-in user record is cached per Cognito subject in the session
// store so that screens needing more than the authorizer claims do not hit
// GET /users/me/ on every request.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sitedash/lib/auth"
	"sitedash/lib/constants"
	"sitedash/lib/data"
	"sitedash/lib/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/sirupsen/logrus"
)

// ErrNoSubject is returned when the claims carry no Cognito subject to key the store on
var ErrNoSubject = errors.New("claims carry no subject")

// SignOuter is the slice of the Cognito client used at logout
type SignOuter interface {
	GlobalSignOut(ctx context.Context, params *cognitoidentityprovider.GlobalSignOutInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error)
}

// UserLoader fetches the caller's account from the construction API
type UserLoader interface {
	GetCurrentUser(ctx context.Context) (*models.User, error)
}

// Provider reads and clears the per-subject session
type Provider struct {
	Store   data.SessionRepository
	Cognito SignOuter
	Logger  *logrus.Logger
}

// NewProvider creates a new session provider
func NewProvider(store data.SessionRepository, cognito SignOuter, logger *logrus.Logger) *Provider {
	return &Provider{
		Store:   store,
		Cognito: cognito,
		Logger:  logger,
	}
}

// FromClaims builds the acting user known from the authorizer alone
func FromClaims(claims *auth.Claims) models.User {
	return models.User{
		ID:       claims.UserID,
		Email:    claims.Email,
		Role:     claims.Role,
		IsActive: true,
	}
}

// CurrentUser returns the cached user record, loading and caching it on a miss.
// A failure to write the cache is logged and does not fail the request.
func (p *Provider) CurrentUser(ctx context.Context, claims *auth.Claims, users UserLoader) (*models.User, error) {
	if claims.CognitoID == "" {
		return nil, ErrNoSubject
	}

	raw, found, err := p.Store.GetItem(ctx, claims.CognitoID, constants.SessionItemUser)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if found {
		var cached models.User
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
		p.Logger.WithFields(logrus.Fields{
			"operation": "CurrentUser",
			"subject":   claims.CognitoID,
		}).Warn("Discarding unreadable cached user")
	}

	user, err := users.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(user)
	if err == nil {
		err = p.Store.SetItem(ctx, claims.CognitoID, constants.SessionItemUser, string(encoded))
	}
	if err != nil {
		p.Logger.WithFields(logrus.Fields{
			"operation": "CurrentUser",
			"subject":   claims.CognitoID,
			"user_id":   user.ID,
		}).WithError(err).Warn("Failed to cache current user")
	}

	return user, nil
}

// Logout forgets the cached user and revokes the caller's Cognito tokens
func (p *Provider) Logout(ctx context.Context, claims *auth.Claims, accessToken string) error {
	if claims.CognitoID == "" {
		return ErrNoSubject
	}

	if err := p.Store.RemoveItem(ctx, claims.CognitoID, constants.SessionItemUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if accessToken != "" {
		_, err := p.Cognito.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
			AccessToken: aws.String(accessToken),
		})
		if err != nil {
			return fmt.Errorf("failed to sign out: %w", err)
		}
	}

	p.Logger.WithFields(logrus.Fields{
		"operation": "Logout",
		"subject":   claims.CognitoID,
		"user_id":   claims.UserID,
	}).Info("User signed out")

	return nil
}
