package services

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/store"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthConfig tunes the AuthService.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration // defaults to 24h
	Latency   time.Duration // simulated backend round trip for login/register
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService handles registration, login, sessions and profile edits.
// Password hashes never leave it: every user it returns is a models.User.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	store       *store.Store
	validate    *validator.Validate
	jwtSecret   []byte
	tokenTTL    time.Duration
	latency     time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, st *store.Store, cfg AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		store:       st,
		validate:    newValidator(),
		jwtSecret:   []byte(cfg.JWTSecret),
		tokenTTL:    ttl,
		latency:     cfg.Latency,
	}
}

// Register creates a user account and logs it in.
func (s *AuthService) Register(req RegisterRequest) (*models.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	return s.withLoading(func() (*models.AuthResponse, error) {
		if existing, err := s.userRepo.GetByEmail(req.Email); err == nil && existing != nil {
			return nil, fmt.Errorf("email '%s' already registered: %w", req.Email, ErrDuplicateEmail)
		} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up email: %w", err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		record := &models.UserRecord{
			User: models.User{
				ID:       "user-" + uuid.New().String(),
				Name:     strings.TrimSpace(req.Name),
				Email:    req.Email,
				Role:     models.RoleUser,
				Avatar:   "https://ui-avatars.com/api/?name=" + url.QueryEscape(req.Name) + "&background=random",
				JoinedAt: time.Now(),
			},
			PasswordHash: string(hashedPassword),
		}
		if err := s.userRepo.Create(record); err != nil {
			if errors.Is(err, repositories.ErrEmailTaken) {
				return nil, fmt.Errorf("email '%s' already registered: %w", req.Email, ErrDuplicateEmail)
			}
			return nil, fmt.Errorf("failed to register user: %w", err)
		}
		return s.startSession(record.Public())
	})
}

// Login authenticates by email and password. On failure the authentication
// state is left untouched.
func (s *AuthService) Login(email, password string) (*models.AuthResponse, error) {
	if err := validateStruct(s.validate, LoginRequest{Email: email, Password: password}); err != nil {
		return nil, err
	}
	return s.withLoading(func() (*models.AuthResponse, error) {
		record, err := s.userRepo.GetByEmail(strings.TrimSpace(email))
		if err != nil {
			// Do not reveal whether the email exists.
			return nil, ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
		return s.startSession(record.Public())
	})
}

// Logout drops the persisted session and clears the authenticated state.
func (s *AuthService) Logout() error {
	if err := s.sessionRepo.Delete(); err != nil {
		return err
	}
	return s.store.Dispatch(store.Logout{})
}

// RestoreSession logs the persisted session back in without credentials.
// A missing session is not an error; an invalid or expired one is removed.
func (s *AuthService) RestoreSession() error {
	sess, err := s.sessionRepo.Get()
	if err != nil {
		if errors.Is(err, repositories.ErrKeyNotFound) {
			return nil
		}
		return err
	}

	claims, err := s.ValidateToken(sess.Token)
	if err != nil || claims["user_id"] != sess.User.ID {
		log.Printf("Discarding stale session for user %s", sess.User.ID)
		return s.sessionRepo.Delete()
	}

	record, err := s.userRepo.GetByID(sess.User.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return s.sessionRepo.Delete()
		}
		return err
	}
	log.Printf("Restored session for user %s", record.ID)
	return s.store.Dispatch(store.LoginSuccess{User: record.Public(), Token: sess.Token})
}

// CurrentUser returns the logged-in user.
func (s *AuthService) CurrentUser() (*models.User, error) {
	st := s.store.State()
	if !st.IsAuthenticated || st.User == nil {
		return nil, ErrNotAuthenticated
	}
	return st.User, nil
}

// UpdateProfile merges patch into the logged-in user's profile.
func (s *AuthService) UpdateProfile(patch models.UserPatch) (*models.User, error) {
	if err := validateStruct(s.validate, patch); err != nil {
		return nil, err
	}
	current, err := s.CurrentUser()
	if err != nil {
		return nil, err
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		patch.Email = &email
		if other, err := s.userRepo.GetByEmail(email); err == nil && other.ID != current.ID {
			return nil, fmt.Errorf("email '%s' already registered: %w", email, ErrDuplicateEmail)
		}
	}
	if err := s.store.Dispatch(store.UpdateUser{Patch: patch}); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, fmt.Errorf("email '%s' already registered: %w", *patch.Email, ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.CurrentUser()
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// withLoading raises the loading flag, runs fn after the simulated latency
// and lowers the flag again if fn fails. On success LOGIN_SUCCESS has
// already cleared it.
func (s *AuthService) withLoading(fn func() (*models.AuthResponse, error)) (*models.AuthResponse, error) {
	if err := s.store.Dispatch(store.SetLoading{Loading: true}); err != nil {
		return nil, err
	}
	res := <-simulate(s.latency, fn)
	if res.err != nil {
		if err := s.store.Dispatch(store.SetLoading{Loading: false}); err != nil {
			log.Printf("Failed to reset loading flag: %v", err)
		}
		return nil, res.err
	}
	return res.value, nil
}

// startSession issues a token, persists the session and dispatches
// LOGIN_SUCCESS.
func (s *AuthService) startSession(user models.User) (*models.AuthResponse, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(&models.Session{User: user, Token: token}); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	if err := s.store.Dispatch(store.LoginSuccess{User: user, Token: token}); err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) generateToken(user models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}
