package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nivesh_pathshala/models"
)

func newOtpTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.MigrateUserModels(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestIssueAndVerify(t *testing.T) {
	db := newOtpTestDB(t)
	svc := NewOtpService(db, nil)

	otp, err := svc.Issue("9876543210")
	require.NoError(t, err)
	assert.Len(t, otp.Code, OtpLength)

	require.NoError(t, svc.Verify("9876543210", otp.Code))

	// A code is single use.
	err = svc.Verify("9876543210", otp.Code)
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestIssueInvalidatesPreviousCode(t *testing.T) {
	db := newOtpTestDB(t)
	svc := NewOtpService(db, nil)

	first, err := svc.Issue("9876543210")
	require.NoError(t, err)
	second, err := svc.Issue("9876543210")
	require.NoError(t, err)

	if first.Code != second.Code {
		err = svc.Verify("9876543210", first.Code)
		assert.Error(t, err)
	}
	assert.NoError(t, svc.Verify("9876543210", second.Code))
}

func TestVerifyExpiredCode(t *testing.T) {
	db := newOtpTestDB(t)
	current := time.Date(2025, 8, 29, 10, 0, 0, 0, time.UTC)
	svc := NewOtpService(db, func() time.Time { return current })

	otp, err := svc.Issue("9876543210")
	require.NoError(t, err)

	current = current.Add(OtpTTL + time.Second)
	err = svc.Verify("9876543210", otp.Code)
	assert.ErrorIs(t, err, ErrOtpExpired)
}

func TestVerifyBurnsAttempts(t *testing.T) {
	db := newOtpTestDB(t)
	svc := NewOtpService(db, nil)

	otp, err := svc.Issue("9876543210")
	require.NoError(t, err)

	wrong := "000000"
	if otp.Code == wrong {
		wrong = "111111"
	}

	assert.ErrorIs(t, svc.Verify("9876543210", wrong), ErrOtpMismatch)
	assert.ErrorIs(t, svc.Verify("9876543210", wrong), ErrOtpMismatch)
	assert.ErrorIs(t, svc.Verify("9876543210", wrong), ErrOtpMaxAttempts)

	// The correct code is rejected once attempts are exhausted.
	assert.ErrorIs(t, svc.Verify("9876543210", otp.Code), ErrOtpMaxAttempts)
}

func TestVerifyUnknownPhone(t *testing.T) {
	db := newOtpTestDB(t)
	svc := NewOtpService(db, nil)

	err := svc.Verify("9000000000", "123456")
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestCleanupExpired(t *testing.T) {
	db := newOtpTestDB(t)
	current := time.Date(2025, 8, 29, 10, 0, 0, 0, time.UTC)
	svc := NewOtpService(db, func() time.Time { return current })

	_, err := svc.Issue("9876543210")
	require.NoError(t, err)
	_, err = svc.Issue("9123456780")
	require.NoError(t, err)

	// Nothing expired yet.
	deleted, err := svc.CleanupExpired()
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)

	current = current.Add(OtpTTL + time.Minute)
	deleted, err = svc.CleanupExpired()
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "********10", maskPhone("9876543210"))
	assert.Equal(t, "**", maskPhone("9"))
}
