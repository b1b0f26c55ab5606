package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/repository"
	"github.com/Symmetry7/KIITstudy/internal/validation"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

var ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrValidation)

// TokenPair is what a successful login or refresh hands the client.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// AuthService handles registration, login, and refresh-token rotation.
// Only KIIT institutional emails may register.
type AuthService struct {
	userRepo  repository.UserRepositoryInterface
	tokenRepo repository.RefreshTokenRepositoryInterface
	jwtSecret []byte
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepositoryInterface, tokenRepo repository.RefreshTokenRepositoryInterface) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSecret: []byte(os.Getenv("JWT_SECRET")),
		now:       time.Now,
	}
}

type RegisterInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	RollNumber string `json:"rollNumber" validate:"required"`
	Course     string `json:"course" validate:"omitempty,max=100"`
	Year       string `json:"year" validate:"omitempty,max=10"`
	Department string `json:"department" validate:"omitempty,max=100"`
}

// Register creates an account for a KIIT student.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := validation.NormalizeEmail(input.Email)
	if !validation.ValidateKIITEmail(email) {
		return nil, validationError("a valid @kiit.ac.in email is required")
	}
	if !validation.ValidateRollNumber(input.RollNumber) {
		return nil, validationError("roll number must be seven digits")
	}
	if !validation.ValidatePassword(input.Password) {
		return nil, validationError("password must be at least %d characters", validation.PasswordMinLength())
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name is required")
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, validationError("an account with this email already exists")
	}
	if _, err := s.userRepo.FindByRollNumber(input.RollNumber); err == nil {
		return nil, validationError("an account with this roll number already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		RollNumber:   input.RollNumber,
		Course:       input.Course,
		Year:         input.Year,
		Department:   input.Department,
		Streak:       0,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(validation.NormalizeEmail(email))
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued. A revoked or expired token fails closed.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	hash := hashToken(refreshToken)
	stored, err := s.tokenRepo.FindValidByHash(hash)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrValidation)
	}
	if stored.IsRevoked() || s.now().After(stored.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired", ErrValidation)
	}

	if err := s.tokenRepo.RevokeByHash(hash); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, asNotFound(err, "user")
	}
	return s.issueTokens(user)
}

// Logout revokes the presented refresh token. Unknown tokens are
// ignored so logout is idempotent.
func (s *AuthService) Logout(refreshToken string) error {
	return s.tokenRepo.RevokeByHash(hashToken(refreshToken))
}

// ParseAccessToken validates a JWT and returns the user ID it carries.
func (s *AuthService) ParseAccessToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid token subject")
	}
	return uint(id), nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	expiresAt := s.now().Add(accessTokenTTL)
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"iat":     s.now().Unix(),
		"exp":     expiresAt.Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, err
	}
	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: s.now().Add(refreshTokenTTL),
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashToken stores only a digest so a database leak cannot replay
// refresh tokens.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
