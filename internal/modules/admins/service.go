package admins

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionInvalid     = errors.New("session invalid or expired")
)

const sessionTTL = 12 * time.Hour

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

type LoginResult struct {
	Token     string
	Admin     Admin
	ExpiresAt time.Time
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var a Admin
	if err := s.db.WithContext(ctx).First(&a, "email = ? AND active = ?", email, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := randomToken(32)
	if err != nil {
		return LoginResult{}, err
	}

	now := time.Now()
	sess := Session{
		ID:        uuid.NewString(),
		AdminID:   a.ID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(sessionTTL),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, Admin: a, ExpiresAt: sess.ExpiresAt}, nil
}

// Authenticate resolves a bearer token to an active admin.
func (s *Service) Authenticate(ctx context.Context, token string) (Admin, error) {
	if token == "" {
		return Admin{}, ErrSessionInvalid
	}

	var sess Session
	err := s.db.WithContext(ctx).First(&sess,
		"token_hash = ? AND expires_at > ? AND revoked_at IS NULL",
		hashToken(token), time.Now()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Admin{}, ErrSessionInvalid
		}
		return Admin{}, err
	}

	var a Admin
	if err := s.db.WithContext(ctx).First(&a, "id = ? AND active = ?", sess.AdminID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Admin{}, ErrSessionInvalid
		}
		return Admin{}, err
	}
	return a, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&Session{}).
		Where("token_hash = ? AND revoked_at IS NULL", hashToken(token)).
		Update("revoked_at", now).Error
}

// CreateAdmin seeds an admin account; used by tooling, not exposed publicly.
func (s *Service) CreateAdmin(ctx context.Context, restaurantID, email, name, password string) (Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Admin{}, err
	}
	now := time.Now()
	a := Admin{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return Admin{}, err
	}
	return a, nil
}

func randomToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
