package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"tolldesk/db"
	"tolldesk/models"
)

// ErrAuthentication is the single answer for an unknown user and a wrong
// password alike.
var ErrAuthentication = errors.New("invalid username or password")

// Authenticator checks credentials against the admin_users collection.
type Authenticator struct {
	source db.Source
}

func NewAuthenticator(source db.Source) *Authenticator {
	return &Authenticator{source: source}
}

// Login returns the account for username if password matches it. Store
// failures other than a missing user are returned as-is.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.source.Authenticate(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		log.Info().Str("user", username).Msg("login failed: user not found")
		return nil, ErrAuthentication
	}
	if err != nil {
		return nil, err
	}

	if err := CheckPassword(password, user.Password); err != nil {
		log.Info().Str("user", username).Err(err).Msg("login failed: password check")
		return nil, ErrAuthentication
	}
	return user, nil
}
