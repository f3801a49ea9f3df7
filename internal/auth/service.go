package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	internal "github.com/frahmantamala/leave-management/internal"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

// Errors the repository reports back to the service layer.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")
)

// UserRepository is the credential store: user records plus the single
// currently valid session token per user.
type UserRepository interface {
	Create(u *userDatamodel.User) error
	GetByEmail(email string) (*userDatamodel.User, error)
	// GetByToken resolves a presented token by indexed exact-match lookup
	// against the stored session_token column.
	GetByToken(token string) (*userDatamodel.User, error)
	SetSessionToken(userID int64, token string) error
}

// Service performs registration, login and token resolution.
type Service struct {
	userRepo   UserRepository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(userRepo UserRepository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// SessionToken derives the token issued at login. It is deterministic over
// the stored credential hash, so it only changes when the credential does.
// Validity is never re-derived from it: authentication is an exact match
// against the token stored on the user row.
func SessionToken(email, passwordHash string) string {
	sum := sha256.Sum256([]byte(email + ":" + passwordHash))
	return hex.EncodeToString(sum[:])
}

// Register creates a new user with a bcrypt-hashed credential.
func (s *Service) Register(dto RegisterDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	u := &userDatamodel.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         dto.Role,
		Department:   dto.Department,
		IsActive:     true,
	}

	if err := s.userRepo.Create(u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			s.logger.Warn("registration rejected: email taken", "email", dto.Email)
			return internal.ErrEmailRegistered
		}
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return internal.NewUnavailableError("credential store unavailable", err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	return nil
}

// Login verifies credentials, issues the session token and stores it on the
// user row. Storing overwrites any earlier token, so only the latest login
// holds a valid session.
func (s *Service) Login(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByEmail(dto.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user", "error", err, "email", dto.Email)
		return nil, internal.NewUnavailableError("credential store unavailable", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}

	token := SessionToken(u.Email, u.PasswordHash)
	if err := s.userRepo.SetSessionToken(u.ID, token); err != nil {
		s.logger.Error("failed to store session token", "error", err, "user_id", u.ID)
		return nil, internal.NewUnavailableError("credential store unavailable", err)
	}

	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)

	return &LoginResult{
		Token: token,
		User:  identityFromUser(u),
	}, nil
}

// Authenticate resolves a presented token to the user it belongs to.
func (s *Service) Authenticate(token string) (*Identity, error) {
	if token == "" {
		return nil, internal.ErrMissingToken
	}

	u, err := s.userRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		s.logger.Error("failed to resolve token", "error", err)
		return nil, internal.NewUnavailableError("credential store unavailable", err)
	}

	ident := identityFromUser(u)
	return &ident, nil
}

func identityFromUser(u *userDatamodel.User) Identity {
	role, err := ParseRole(u.Role)
	if err != nil {
		// A stored role outside the enum means a corrupt row; treat it as
		// the least privileged role rather than failing the request.
		role = RoleStudent
	}
	return Identity{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       role,
		Department: u.Department,
	}
}
