package otp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRateLimited    = errors.New("too many verification attempts, please try again later")
	ErrCodeInvalid    = errors.New("invalid or expired verification code")
	ErrTooManyGuesses = errors.New("too many attempts, please request a new code")
)

type Verification struct {
	ID          int64      `gorm:"primaryKey"`
	PhoneE164   string     `gorm:"column:phone_e164;index:ix_otp_phone"`
	CodeHash    string     `gorm:"column:code_hash"`
	Attempts    int        `gorm:"column:attempts"`
	MaxAttempts int        `gorm:"column:max_attempts"`
	ExpiresAt   time.Time  `gorm:"column:expires_at"`
	VerifiedAt  *time.Time `gorm:"column:verified_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (Verification) TableName() string { return "otp_verifications" }

type SentLog struct {
	ID                int64      `gorm:"primaryKey"`
	PhoneE164         string     `gorm:"column:phone_e164"`
	Status            string     `gorm:"column:status"`
	ProviderMessageID *string    `gorm:"column:provider_message_id"`
	ErrorMessage      *string    `gorm:"column:error_message"`
	SentAt            *time.Time `gorm:"column:sent_at"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
}

func (SentLog) TableName() string { return "otp_sent_logs" }

type VerificationService struct {
	db      *gorm.DB
	gateway Gateway
	limiter *SendLimiter
}

func NewVerificationService(db *gorm.DB, gateway Gateway, limiter *SendLimiter) *VerificationService {
	return &VerificationService{db: db, gateway: gateway, limiter: limiter}
}

// GenerateOTP generates a 6-digit code.
func (s *VerificationService) GenerateOTP() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	num := int((int(b[0])<<16)|(int(b[1])<<8)|int(b[2])) % 1000000
	return fmt.Sprintf("%06d", num), nil
}

// Start creates a verification code for the phone and sends it over the
// WhatsApp gateway. Previous unverified codes for the phone are dropped.
func (s *VerificationService) Start(ctx context.Context, phoneE164 string) error {
	if !s.limiter.Allow(ctx, phoneE164) {
		return ErrRateLimited
	}

	code, err := s.GenerateOTP()
	if err != nil {
		return err
	}

	hash := sha256.Sum256([]byte(code))
	hashHex := hex.EncodeToString(hash[:])

	_ = s.db.WithContext(ctx).Where("phone_e164 = ? AND verified_at IS NULL", phoneE164).Delete(&Verification{}).Error

	v := Verification{
		PhoneE164:   phoneE164,
		CodeHash:    hashHex,
		Attempts:    0,
		MaxAttempts: 3,
		ExpiresAt:   time.Now().Add(5 * time.Minute),
		CreatedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&v).Error; err != nil {
		return err
	}

	providerMsgID, sendErr := s.gateway.Send(ctx, phoneE164,
		fmt.Sprintf("Your Dineezy verification code is %s. It expires in 5 minutes.", code))

	logEntry := SentLog{
		PhoneE164: phoneE164,
		Status:    "sent",
		CreatedAt: time.Now(),
	}
	if sendErr != nil {
		logEntry.Status = "failed"
		errMsg := sendErr.Error()
		logEntry.ErrorMessage = &errMsg
	} else {
		if providerMsgID != "" {
			logEntry.ProviderMessageID = &providerMsgID
		}
		sentAt := time.Now()
		logEntry.SentAt = &sentAt
	}
	_ = s.db.WithContext(ctx).Create(&logEntry).Error

	return sendErr
}

// Verify checks the submitted code against the active verification record.
func (s *VerificationService) Verify(ctx context.Context, phoneE164, code string) error {
	hash := sha256.Sum256([]byte(code))
	hashHex := hex.EncodeToString(hash[:])

	var v Verification
	if err := s.db.WithContext(ctx).Where(
		"phone_e164 = ? AND code_hash = ? AND expires_at > ? AND verified_at IS NULL",
		phoneE164, hashHex, time.Now(),
	).First(&v).Error; err != nil {
		// count the wrong guess against the active record (best effort)
		_ = s.db.WithContext(ctx).Model(&Verification{}).Where(
			"phone_e164 = ? AND verified_at IS NULL AND expires_at > ?",
			phoneE164, time.Now(),
		).Update("attempts", gorm.Expr("attempts + 1")).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeInvalid
		}
		return err
	}

	if v.Attempts >= v.MaxAttempts {
		return ErrTooManyGuesses
	}

	now := time.Now()
	return s.db.WithContext(ctx).Model(&v).Update("verified_at", now).Error
}

// IsVerified reports whether the phone completed verification recently.
func (s *VerificationService) IsVerified(ctx context.Context, phoneE164 string, within time.Duration) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Verification{}).
		Where("phone_e164 = ? AND verified_at IS NOT NULL AND verified_at > ?", phoneE164, time.Now().Add(-within)).
		Count(&count).Error
	return count > 0, err
}
