package auth

import (
	"errors"

	"folio-cms/models"
	"folio-cms/repositories"
)

// Credentials is the raw credential material found on a request.
type Credentials struct {
	SessionToken  string
	BearerToken   string
	RememberToken string
}

// Resolution is the outcome of ResolveIdentity. Renewed is set when the
// identity came from the persistent-login credential, so the caller should
// start a fresh session.
type Resolution struct {
	Identity Identity
	Renewed  bool
}

// Gate decides who a request is and what it may do.
type Gate struct {
	users  repositories.UserRepository
	tokens *TokenIssuer
}

func NewGate(users repositories.UserRepository, tokens *TokenIssuer) *Gate {
	return &Gate{users: users, tokens: tokens}
}

func (g *Gate) Tokens() *TokenIssuer {
	return g.tokens
}

// ResolveIdentity never fails: anything that does not check out resolves to
// the anonymous identity.
func (g *Gate) ResolveIdentity(creds Credentials) Resolution {
	for _, token := range []string{creds.SessionToken, creds.BearerToken} {
		if token == "" {
			continue
		}
		if id, ok := g.resolve(token, KindSession); ok {
			return Resolution{Identity: id}
		}
	}

	if creds.RememberToken != "" {
		if id, ok := g.resolve(creds.RememberToken, KindRemember); ok {
			return Resolution{Identity: id, Renewed: true}
		}
	}

	return Resolution{}
}

func (g *Gate) resolve(token string, kind TokenKind) (Identity, bool) {
	claims, err := g.tokens.Parse(token, kind)
	if err != nil {
		return Identity{}, false
	}
	user, err := g.users.GetByID(claims.UserID)
	if err != nil {
		return Identity{}, false
	}
	return FromUser(user), true
}

// Recheck reloads the caller from the store so privilege changes made since
// the identity was resolved apply. A user that no longer exists becomes
// anonymous.
func (g *Gate) Recheck(id Identity) (Identity, error) {
	if !id.IsAuthenticated() {
		return Identity{}, nil
	}
	user, err := g.users.GetByID(id.UserID)
	if err != nil {
		var notFound models.ErrorNotFound
		if errors.As(err, &notFound) {
			return Identity{}, nil
		}
		return Identity{}, err
	}
	return FromUser(user), nil
}

// Require rechecks the caller and fails unless it holds at least level.
func (g *Gate) Require(id Identity, level Level) (Identity, error) {
	fresh, err := g.Recheck(id)
	if err != nil {
		return Identity{}, err
	}
	if fresh.Level() >= level {
		return fresh, nil
	}
	if !fresh.IsAuthenticated() {
		return fresh, models.ErrorUnauthorized{Message: "login required"}
	}
	return fresh, models.NewForbidden(level.String() + " access required")
}
