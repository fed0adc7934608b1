package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-backend/internal/dto"
	"crm-backend/internal/mailer"
	"crm-backend/internal/models"
)

const verifyPathMarker = "/api/auth/verify-email/"

// extractToken pulls the plaintext verification token out of a sent email.
func extractToken(t *testing.T, body string) string {
	t.Helper()
	idx := strings.Index(body, verifyPathMarker)
	require.GreaterOrEqual(t, idx, 0, "verification link not found in email body")
	rest := body[idx+len(verifyPathMarker):]
	require.GreaterOrEqual(t, len(rest), 64)
	return rest[:64]
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	db := newTestDB(t)
	m := &fakeMailer{}
	svc := newTestAuthService(t, db, m)

	user, err := svc.Register(&dto.RegisterRequest{
		Name:     "Jane Doe",
		Email:    "Jane@Example.COM",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.IsEmailVerified)
	assert.NotNil(t, user.EmailVerificationToken)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "jane@example.com", m.sent[0].To)
	assert.Equal(t, mailer.SubjectVerification, m.sent[0].Subject)

	// Unverified users cannot log in, even with the right password.
	_, _, err = svc.Login("jane@example.com", "secret123")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	plaintext := extractToken(t, m.sent[0].Body)
	// Only the hash is persisted.
	assert.NotEqual(t, plaintext, *user.EmailVerificationToken)

	verified, err := svc.VerifyEmail(plaintext)
	require.NoError(t, err)
	assert.True(t, verified.IsEmailVerified)
	assert.Nil(t, verified.EmailVerificationToken)

	// Welcome mail follows verification.
	require.Len(t, m.sent, 2)
	assert.Equal(t, mailer.SubjectWelcome, m.sent[1].Subject)

	sessionToken, loggedIn, err := svc.Login("JANE@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, sessionToken)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(t, db, &fakeMailer{})

	cases := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"short name", dto.RegisterRequest{Name: "J", Email: "a@b.co", Password: "secret123"}},
		{"bad email", dto.RegisterRequest{Name: "Jane", Email: "not-an-email", Password: "secret123"}},
		{"short password", dto.RegisterRequest{Name: "Jane", Email: "a@b.co", Password: "12345"}},
		{"bad role", dto.RegisterRequest{Name: "Jane", Email: "a@b.co", Password: "secret123", Role: "superuser"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(&tc.req)
			requireValidation(t, err)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(t, db, &fakeMailer{})

	_, err := svc.Register(&dto.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	// Same address, different case.
	_, err = svc.Register(&dto.RegisterRequest{Name: "Jane Again", Email: "JANE@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterRollsBackWhenEmailFails(t *testing.T) {
	db := newTestDB(t)
	m := &fakeMailer{fail: errSMTPDown}
	svc := newTestAuthService(t, db, m)

	_, err := svc.Register(&dto.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrVerificationDispatch)

	// The half-registered user must not survive; the address stays free.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "jane@example.com").Count(&count).Error)
	assert.Zero(t, count)

	m.fail = nil
	_, err = svc.Register(&dto.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	assert.NoError(t, err)
}

func TestVerifyEmailSingleUse(t *testing.T) {
	db := newTestDB(t)
	m := &fakeMailer{}
	svc := newTestAuthService(t, db, m)

	_, err := svc.Register(&dto.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	plaintext := extractToken(t, m.sent[0].Body)

	_, err = svc.VerifyEmail(plaintext)
	require.NoError(t, err)

	// Replay of a consumed token fails identically to a bogus one.
	_, err = svc.VerifyEmail(plaintext)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = svc.VerifyEmail("deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	db := newTestDB(t)
	m := &fakeMailer{}
	svc := newTestAuthService(t, db, m)

	user, err := svc.Register(&dto.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	plaintext := extractToken(t, m.sent[0].Body)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("email_verification_expires", expired).Error)

	_, err = svc.VerifyEmail(plaintext)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestResendVerification(t *testing.T) {
	db := newTestDB(t)
	m := &fakeMailer{}
	svc := newTestAuthService(t, db, m)

	_, err := svc.Register(&dto.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	firstToken := extractToken(t, m.sent[0].Body)

	require.NoError(t, svc.ResendVerification("jane@example.com"))
	require.Len(t, m.sent, 2)
	secondToken := extractToken(t, m.sent[1].Body)
	require.NotEqual(t, firstToken, secondToken)

	// The superseded token is dead; only the latest one redeems.
	_, err = svc.VerifyEmail(firstToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = svc.VerifyEmail(secondToken)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResendVerification("jane@example.com"), ErrAlreadyVerified)
	assert.ErrorIs(t, svc.ResendVerification("nobody@example.com"), ErrUserNotFound)
}

func TestLoginFailureModes(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(t, db, &fakeMailer{})

	verified := seedUser(t, db, "ok@example.com", models.RoleUser, true)

	deactivated := seedUser(t, db, "off@example.com", models.RoleUser, true)
	require.NoError(t, db.Model(deactivated).Update("is_active", false).Error)

	seedUser(t, db, "pending@example.com", models.RoleUser, false)

	_, _, err := svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("off@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountDeactivated)

	_, _, err = svc.Login("pending@example.com", "password123")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	_, _, err = svc.Login("ok@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, u, err := svc.Login("ok@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, verified.ID, u.ID)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(t, db, &fakeMailer{})

	user := seedUser(t, db, "jane@example.com", models.RoleUser, true)
	seedUser(t, db, "taken@example.com", models.RoleUser, true)

	updated, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Name: "Jane Smith"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", updated.Name)

	_, err = svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Email: "taken@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Name: "x"})
	requireValidation(t, err)

	// Changing the email does not reset verification state.
	updated, err = svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Email: "jane.new@example.com"})
	require.NoError(t, err)
	var fresh models.User
	require.NoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	assert.Equal(t, "jane.new@example.com", fresh.Email)
	assert.True(t, fresh.IsEmailVerified)
}
