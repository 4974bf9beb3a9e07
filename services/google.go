package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var ErrEmailNotVerified = errors.New("google account email is not verified")

type GoogleProfile struct {
	ID    string
	Email string
	Name  string
}

// IdentityProvider is the external sign-in used alongside password login.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Profile(ctx context.Context, code string) (*GoogleProfile, error)
}

type GoogleOAuth struct {
	cfg *oauth2.Config
}

func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			googleoauth.UserinfoEmailScope,
			googleoauth.UserinfoProfileScope,
		},
		Endpoint: google.Endpoint,
	}}
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Profile exchanges the callback code and reads the signed-in user's
// profile from the userinfo endpoint.
func (g *GoogleOAuth) Profile(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(g.cfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}
	return &GoogleProfile{ID: info.Id, Email: info.Email, Name: info.Name}, nil
}
