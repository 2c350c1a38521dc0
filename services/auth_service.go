package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"folio-cms/auth"
	"folio-cms/config"
	"folio-cms/models"
	"folio-cms/repositories"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/go-playground/validator.v9"
)

// LoginResult carries the credentials minted for a successful login.
// RememberToken is empty unless a persistent login was requested.
type LoginResult struct {
	User            *models.User
	SessionToken    string
	SessionExpires  time.Time
	RememberToken   string
	RememberExpires time.Time
}

type AuthService interface {
	Signup(req models.SignupRequest) (*models.User, error)
	Login(req models.LoginRequest) (*LoginResult, error)
	IssueSession(userID uint) (string, time.Time, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateProfile(actor auth.Identity, req models.ProfileUpdateRequest) (*models.User, error)
	ChangePassword(actor auth.Identity, req models.PasswordChangeRequest) error
	ListUsers(actor auth.Identity) ([]models.User, error)
	SetAdmin(actor auth.Identity, userID uint, isAdmin bool) (*models.User, error)
	SeedAdmin(seed config.AdminSeed) error
}

type authService struct {
	userRepo repositories.UserRepository
	gate     *auth.Gate
	validate *validator.Validate
}

func NewAuthService(userRepo repositories.UserRepository, gate *auth.Gate, validate *validator.Validate) AuthService {
	return &authService{userRepo: userRepo, gate: gate, validate: validate}
}

var errInvalidCredentials = models.ErrorUnauthorized{Message: "invalid username or password"}

// bcrypt only looks at the first 72 bytes and rejects anything longer.
const maxPasswordBytes = 72

func hashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", models.NewValidation("password must be at most %d bytes", maxPasswordBytes)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *authService) Signup(req models.SignupRequest) (*models.User, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkIdentity(username, email, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login accepts either the username or the email address.
func (s *authService) Login(req models.LoginRequest) (*LoginResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	login := strings.TrimSpace(req.Username)
	var (
		user *models.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.userRepo.GetByEmail(strings.ToLower(login))
	} else {
		user, err = s.userRepo.GetByUsername(login)
	}
	if err != nil {
		var notFound models.ErrorNotFound
		if errors.As(err, &notFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	result := &LoginResult{User: user}
	result.SessionToken, result.SessionExpires, err = s.gate.Tokens().Issue(user.ID, auth.KindSession)
	if err != nil {
		return nil, err
	}
	if req.Remember {
		result.RememberToken, result.RememberExpires, err = s.gate.Tokens().Issue(user.ID, auth.KindRemember)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *authService) IssueSession(userID uint) (string, time.Time, error) {
	return s.gate.Tokens().Issue(userID, auth.KindSession)
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *authService) UpdateProfile(actor auth.Identity, req models.ProfileUpdateRequest) (*models.User, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	actor, err := s.gate.Require(actor, auth.Authenticated)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(actor.UserID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkIdentity(username, email, user.ID); err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) ChangePassword(actor auth.Identity, req models.PasswordChangeRequest) error {
	if err := validateRequest(s.validate, req); err != nil {
		return err
	}
	actor, err := s.gate.Require(actor, auth.Authenticated)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(actor.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return models.NewValidation("current password is incorrect")
	}

	hashedPassword, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashedPassword
	return s.userRepo.Update(user)
}

func (s *authService) ListUsers(actor auth.Identity) ([]models.User, error) {
	if _, err := s.gate.Require(actor, auth.Administrator); err != nil {
		return nil, err
	}
	return s.userRepo.GetAll()
}

// SetAdmin grants or revokes the administrator flag. Administrators cannot
// revoke their own flag, so the site is never left without one by accident.
func (s *authService) SetAdmin(actor auth.Identity, userID uint, isAdmin bool) (*models.User, error) {
	actor, err := s.gate.Require(actor, auth.Administrator)
	if err != nil {
		return nil, err
	}
	if actor.UserID == userID && !isAdmin {
		return nil, models.NewValidation("you cannot remove your own administrator access")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SeedAdmin creates the configured administrator when no account with that
// username exists yet. An existing account is left alone.
func (s *authService) SeedAdmin(seed config.AdminSeed) error {
	if !seed.Enabled() {
		return nil
	}

	_, err := s.userRepo.GetByUsername(seed.Username)
	if err == nil {
		return nil
	}
	var notFound models.ErrorNotFound
	if !errors.As(err, &notFound) {
		return err
	}

	hashedPassword, err := hashPassword(seed.Password)
	if err != nil {
		return err
	}
	user := &models.User{
		Username:     seed.Username,
		Email:        strings.ToLower(seed.Email),
		PasswordHash: hashedPassword,
		IsAdmin:      true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return err
	}
	log.Printf("Seeded administrator account %q", user.Username)
	return nil
}

func (s *authService) checkIdentity(username, email string, excludeID uint) error {
	taken, err := s.userRepo.UsernameTaken(username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewValidation("username %q is already taken", username)
	}

	taken, err = s.userRepo.EmailTaken(email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewValidation("email %q is already registered", email)
	}
	return nil
}
