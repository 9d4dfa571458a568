package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"gorm.io/gorm"

	"nivesh_pathshala/config"
	"nivesh_pathshala/models"
)

// OTP policy constants
const (
	OtpLength      = 6
	OtpTTL         = 5 * time.Minute
	OtpMaxAttempts = 3
)

// Errors surfaced to the API layer for 4xx mapping.
var (
	ErrOtpNotFound    = errors.New("no active OTP for this phone")
	ErrOtpExpired     = errors.New("OTP has expired")
	ErrOtpMismatch    = errors.New("incorrect OTP")
	ErrOtpMaxAttempts = errors.New("too many incorrect attempts")
)

// OtpService issues and verifies one-time passwords for phone login.
type OtpService struct {
	db  *gorm.DB
	now func() time.Time
}

// Global OTP service
var GlobalOtpService *OtpService

// InitOtpService initializes the OTP service.
func InitOtpService(db *gorm.DB) {
	GlobalOtpService = NewOtpService(db, time.Now)
	log.Println("OTP service initialized")
}

// NewOtpService creates an OTP service with an injectable clock.
func NewOtpService(db *gorm.DB, now func() time.Time) *OtpService {
	if now == nil {
		now = time.Now
	}
	return &OtpService{db: db, now: now}
}

// generateCode produces a random numeric code of OtpLength digits.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < OtpLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%0*d", OtpLength, n), nil
}

// Issue invalidates previous codes for the phone and creates a fresh
// one. In test mode the configured fixed code is issued instead, so
// staging works without an SMS gateway.
func (s *OtpService) Issue(phone string) (*models.Otp, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	if config.AppConfig != nil && config.AppConfig.OTPTestMode {
		code = config.AppConfig.TestOTP
	}

	otp := models.Otp{
		Phone:     phone,
		Code:      code,
		ExpiresAt: s.now().Add(OtpTTL),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Otp{}).
			Where("phone = ? AND used = ?", phone, false).
			Update("used", true).Error; err != nil {
			return err
		}
		return tx.Create(&otp).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue OTP: %w", err)
	}

	// SMS delivery hooks in here. For now the code only reaches the
	// user through the test-mode fixed value.
	log.Printf("Issued OTP for %s (expires %s)", maskPhone(phone), otp.ExpiresAt.Format(time.RFC3339))
	return &otp, nil
}

// Verify checks the submitted code against the latest active OTP and
// marks it used on success. Wrong codes burn an attempt.
func (s *OtpService) Verify(phone, code string) error {
	var otp models.Otp
	err := s.db.Where("phone = ? AND used = ?", phone, false).
		Order("created_at desc").First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOtpNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load OTP: %w", err)
	}

	if s.now().After(otp.ExpiresAt) {
		return ErrOtpExpired
	}
	if otp.Attempts >= OtpMaxAttempts {
		return ErrOtpMaxAttempts
	}

	if otp.Code != code {
		otp.Attempts++
		if err := s.db.Save(&otp).Error; err != nil {
			return fmt.Errorf("failed to record attempt: %w", err)
		}
		if otp.Attempts >= OtpMaxAttempts {
			return ErrOtpMaxAttempts
		}
		return ErrOtpMismatch
	}

	otp.Used = true
	if err := s.db.Save(&otp).Error; err != nil {
		return fmt.Errorf("failed to mark OTP used: %w", err)
	}
	return nil
}

// CleanupExpired deletes OTP rows past their expiry. Run by the
// scheduler.
func (s *OtpService) CleanupExpired() (int64, error) {
	res := s.db.Where("expires_at < ?", s.now()).Delete(&models.Otp{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clean up OTPs: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// maskPhone hides all but the last two digits in logs.
func maskPhone(phone string) string {
	if len(phone) <= 2 {
		return "**"
	}
	masked := make([]byte, len(phone))
	for i := range masked {
		if i >= len(phone)-2 {
			masked[i] = phone[i]
		} else {
			masked[i] = '*'
		}
	}
	return string(masked)
}
