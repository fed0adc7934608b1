package services

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"crm-backend/internal/config"
	"crm-backend/internal/dto"
	"crm-backend/internal/mailer"
	"crm-backend/internal/models"
	"crm-backend/internal/token"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	db      *gorm.DB
	issuer  *token.Issuer
	mailer  mailer.Mailer
	baseURL string
}

func NewAuthService(db *gorm.DB, issuer *token.Issuer, m mailer.Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		db:      db,
		issuer:  issuer,
		mailer:  m,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Register creates an unverified user and emails the verification link. If
// the email cannot be sent the user record is deleted again, so a failed
// registration leaves no trace. Never returns a session token.
func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 50 {
		return nil, validationErr("Name must be between 2 and 50 characters")
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if len(req.Password) < 6 {
		return nil, validationErr("Password must be at least 6 characters long")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, validationErr("Invalid role")
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	plaintext, tokenHash, expiresAt, err := s.issuer.NewVerificationToken()
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:                     name,
		Email:                    email,
		Password:                 string(hash),
		Role:                     role,
		IsActive:                 true,
		EmailVerificationToken:   &tokenHash,
		EmailVerificationExpires: &expiresAt,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// The unique index is the authoritative duplicate check; the read
		// above only exists for a friendlier fast path.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	verificationURL := s.verificationURL(plaintext)
	if err := s.mailer.Send(user.Email, mailer.SubjectVerification, mailer.VerificationEmail(user.Name, verificationURL)); err != nil {
		slog.Error("verification email failed, rolling back registration", "error", err, "user_id", user.ID.String())
		if delErr := s.db.Delete(&models.User{}, "id = ?", user.ID).Error; delErr != nil {
			slog.Error("registration rollback failed", "error", delErr, "user_id", user.ID.String())
		}
		return nil, fmt.Errorf("%w: %v", ErrVerificationDispatch, err)
	}

	slog.Info("verification email sent", "user_id", user.ID.String())
	return &user, nil
}

// VerifyEmail consumes a verification token. The consume is an UPDATE keyed
// on the stored hash, so of two concurrent redemptions only one sees a row
// affected; the loser gets ErrInvalidOrExpiredToken, same as a replay.
func (s *AuthService) VerifyEmail(plaintext string) (*models.User, error) {
	tokenHash := token.HashToken(plaintext)

	var user models.User
	err := s.db.Where("email_verification_token = ? AND email_verification_expires > ?", tokenHash, time.Now()).
		First(&user).Error
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	res := s.db.Model(&models.User{}).
		Where("id = ? AND email_verification_token = ?", user.ID, tokenHash).
		Updates(map[string]interface{}{
			"is_email_verified":          true,
			"email_verification_token":   nil,
			"email_verification_expires": nil,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to verify email: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidOrExpiredToken
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil

	// Best-effort welcome mail; a failure must not undo the verification.
	if err := s.mailer.Send(user.Email, mailer.SubjectWelcome, mailer.WelcomeEmail(user.Name)); err != nil {
		slog.Error("welcome email failed", "error", err, "user_id", user.ID.String())
	}

	return &user, nil
}

// ResendVerification issues a fresh token, superseding any outstanding one.
func (s *AuthService) ResendVerification(rawEmail string) error {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return err
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return ErrUserNotFound
	}

	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	plaintext, tokenHash, expiresAt, err := s.issuer.NewVerificationToken()
	if err != nil {
		return err
	}

	err = s.db.Model(&user).Updates(map[string]interface{}{
		"email_verification_token":   tokenHash,
		"email_verification_expires": expiresAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	if err := s.mailer.Send(user.Email, mailer.SubjectVerification, mailer.VerificationEmail(user.Name, s.verificationURL(plaintext))); err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationDispatch, err)
	}
	return nil
}

// Login returns a session token and the user. A missing user and a wrong
// password both come back as ErrInvalidCredentials.
func (s *AuthService) Login(rawEmail, password string) (string, *models.User, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return "", nil, err
	}
	if password == "" {
		return "", nil, validationErr("Password is required")
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, ErrAccountDeactivated
	}

	if !user.IsEmailVerified {
		return "", nil, ErrEmailNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	sessionToken, err := s.issuer.IssueSession(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return sessionToken, &user, nil
}

// GetUser looks up a user by id.
func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// UpdateProfile applies a partial update of name and email. Registration
// validation rules apply to whichever fields are present. Changing the
// email does not reset verification state.
func (s *AuthService) UpdateProfile(id uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}

	updates := map[string]interface{}{}

	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		if len(name) < 2 || len(name) > 50 {
			return nil, validationErr("Name must be between 2 and 50 characters")
		}
		updates["name"] = name
	}

	if req.Email != "" {
		email, err := normalizeEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			var existing models.User
			if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
				return nil, ErrDuplicateEmail
			}
			updates["email"] = email
		}
	}

	if len(updates) == 0 {
		return &user, nil
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &user, nil
}

func (s *AuthService) verificationURL(plaintext string) string {
	return s.baseURL + "/api/auth/verify-email/" + plaintext
}

// normalizeEmail lower-cases and trims, so lookups and the unique index are
// case-insensitive.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(email) {
		return "", validationErr("Please enter a valid email")
	}
	return email, nil
}

// PublicUser maps a user to its API representation.
func PublicUser(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}
