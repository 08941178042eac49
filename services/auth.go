package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/store"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 10

	msgNoToken            = "No token provided"
	msgInvalidToken       = "Invalid token"
	msgTokenExpired       = "Token expired"
	msgInvalidCredentials = "Invalid email or password"
	msgUserExists         = "User already exists"
	msgUserNotFound       = "User not found"
)

// Claims is the payload of every issued token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller resolved from a token.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

type AuthService struct {
	users  store.UserStore
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(users store.UserStore, secret string, ttl time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, log: log, now: time.Now}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type ProfileInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	PinCode *string `json:"pinCode"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// IssueToken signs a token for user that expires after the configured TTL.
func (s *AuthService) IssueToken(user models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return token.SignedString(s.secret)
}

// ParseToken verifies raw and returns the caller identity. Every failure is
// an auth error carrying the message shown to the client.
func (s *AuthService) ParseToken(raw string) (Identity, error) {
	if strings.TrimSpace(raw) == "" {
		return Identity{}, Unauthorized(msgNoToken)
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, Unauthorized(msgTokenExpired)
	case err != nil:
		return Identity{}, Unauthorized(msgInvalidToken)
	case claims.UserID == "":
		return Identity{}, Unauthorized(msgInvalidToken)
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, string, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" || len(in.Password) < 6 {
		return models.User{}, "", Validation("Name, email and a password of at least 6 characters are required")
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return models.User{}, "", Unexpected("Failed to hash password", err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hashed,
		Role:     models.RoleUser,
		Phone:    strings.TrimSpace(in.Phone),
	})
	if errors.Is(err, store.ErrDuplicate) {
		return models.User{}, "", Validation(msgUserExists)
	}
	if err != nil {
		return models.User{}, "", Unexpected("Error creating user", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return models.User{}, "", Unexpected("Failed to generate token", err)
	}
	s.log.Info("user registered", zap.String("user_id", user.ID))
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, in models.LoginData) (models.User, string, error) {
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, "", Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return models.User{}, "", Unexpected("Error fetching user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return models.User{}, "", Unauthorized(msgInvalidCredentials)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return models.User{}, "", Unexpected("Failed to generate token", err)
	}
	return user, token, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, NotFound(msgUserNotFound)
	}
	if err != nil {
		return models.User{}, Unexpected("Error fetching user", err)
	}
	return user, nil
}

// UpdateProfile sets the supplied profile fields; absent fields are kept.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&user.Name, in.Name)
	set(&user.Phone, in.Phone)
	set(&user.Address, in.Address)
	set(&user.City, in.City)
	set(&user.State, in.State)
	set(&user.PinCode, in.PinCode)
	if user.Name == "" {
		return models.User{}, Validation("Name cannot be empty")
	}

	saved, err := s.users.SaveUser(ctx, user)
	if err != nil {
		return models.User{}, Unexpected("Error updating profile", err)
	}
	return saved, nil
}

// EnsureAdmin creates the admin account if no user with email exists. An
// existing account is returned untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (models.User, error) {
	email = normalizeEmail(email)
	existing, err := s.users.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, Unexpected("Error fetching admin", err)
	}
	if name == "" {
		name = "Admin"
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return models.User{}, Unexpected("Failed to hash password", err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return models.User{}, Unexpected("Error creating admin", err)
	}
	s.log.Info("admin account created", zap.String("email", email))
	return user, nil
}
