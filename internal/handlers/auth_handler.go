package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"crm-backend/internal/dto"
	"crm-backend/internal/middleware"
	"crm-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	appScheme   string
}

func NewAuthHandler(authService *services.AuthService, appScheme string) *AuthHandler {
	return &AuthHandler{authService: authService, appScheme: appScheme}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case services.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		case errors.Is(err, services.ErrDuplicateEmail):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: "User already exists with this email",
			})
		case errors.Is(err, services.ErrVerificationDispatch):
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Success: false, Message: "Registration failed. Could not send verification email. Please try again.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error during registration",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		Success:                   true,
		Message:                   "User registered successfully. Please check your email to verify your account before logging in.",
		User:                      services.PublicUser(user),
		RequiresEmailVerification: true,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	sessionToken, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case services.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Message: "Invalid credentials",
			})
		case errors.Is(err, services.ErrAccountDeactivated):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Message: "Account is deactivated",
			})
		case errors.Is(err, services.ErrEmailNotVerified):
			// The client routes this to the resend-verification flow.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success":                   false,
				"message":                   "Please verify your email address before logging in. Check your email for verification link.",
				"requiresEmailVerification": true,
				"email":                     strings.ToLower(strings.TrimSpace(req.Email)),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error during login",
		})
	}

	return c.JSON(dto.LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   sessionToken,
		User:    services.PublicUser(user),
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Success: false, Message: "User not found",
		})
	}

	return c.JSON(dto.UserEnvelope{Success: true, User: services.PublicUser(user)})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	user, err := h.authService.UpdateProfile(userID, &req)
	if err != nil {
		switch {
		case services.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		case errors.Is(err, services.ErrDuplicateEmail):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: "User already exists with this email",
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error during profile update",
		})
	}

	return c.JSON(dto.UserEnvelope{
		Success: true,
		Message: "Profile updated successfully",
		User:    services.PublicUser(user),
	})
}

// VerifyEmail consumes the emailed token. Browser clicks get an HTML page
// that deep-links back into the mobile app; API clients asking for JSON get
// a JSON body instead.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	wantsJSON := strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)

	user, err := h.authService.VerifyEmail(c.Params("token"))
	if err != nil {
		if wantsJSON {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: "Invalid or expired verification token",
			})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Status(fiber.StatusBadRequest).SendString(verificationFailedPage())
	}

	if wantsJSON {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Email verified successfully",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(verificationSuccessPage(user.Email, user.Role, h.appScheme))
}

func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req dto.ResendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	if err := h.authService.ResendVerification(req.Email); err != nil {
		switch {
		case services.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "No account found with this email address",
			})
		case errors.Is(err, services.ErrAlreadyVerified):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: "Email is already verified",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error. Could not send verification email.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Verification email sent successfully. Please check your email.",
	})
}
