package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/antropov/habitd/internal/models"
)

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates a web account from email and password.
func (handler *Handler) Register(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if len(input.Password) < 8 {
		return apiError(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	if _, found, err := handler.repositories.WebUsers.FindByEmail(email); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	} else if found {
		return apiError(c, fiber.StatusConflict, "email already registered")
	}

	user, err := handler.createWebUser(email, input.Password)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	pair, err := handler.issueTokenPair(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.Status(fiber.StatusCreated).JSON(pair)
}

// Login verifies credentials and issues a token pair. An unknown email is
// registered on the spot with the submitted password, so first login and
// registration are the same call.
func (handler *Handler) Login(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if input.Password == "" {
		return apiError(c, fiber.StatusBadRequest, "password is required")
	}

	limiterKey := loginLimiterKey(c, email)
	now := handler.now()
	if handler.loginLimiter.tooManyRecent(limiterKey, now, loginAttemptLimit, loginAttemptWindow) {
		return apiError(c, fiber.StatusTooManyRequests, "too many attempts, try again later")
	}

	user, found, err := handler.repositories.WebUsers.FindByEmail(email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	if !found {
		if len(input.Password) < 8 {
			return apiError(c, fiber.StatusBadRequest, "password must be at least 8 characters")
		}
		user, err = handler.createWebUser(email, input.Password)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "internal error")
		}
	} else if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		handler.loginLimiter.addFailure(limiterKey, now, loginAttemptWindow)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	handler.loginLimiter.reset(limiterKey)

	pair, err := handler.issueTokenPair(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(pair)
}

// Refresh rotates a refresh token: the presented session is consumed and a
// fresh pair is issued. A replayed token finds no session and is rejected.
func (handler *Handler) Refresh(c *fiber.Ctx) error {
	input := refreshInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	claims, err := handler.parseToken(strings.TrimSpace(input.RefreshToken), tokenTypeRefresh)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid refresh token")
	}

	session, err := handler.repositories.WebUsers.ConsumeSession(claims.ID, handler.now())
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid refresh token")
	}

	pair, err := handler.issueTokenPair(session.WebUserID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(pair)
}

// Logout revokes the presented refresh token, or every session of the caller
// when none is given.
func (handler *Handler) Logout(c *fiber.Ctx) error {
	input := refreshInput{}
	_ = c.BodyParser(&input)

	if raw := strings.TrimSpace(input.RefreshToken); raw != "" {
		claims, err := handler.parseToken(raw, tokenTypeRefresh)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid refresh token")
		}
		if err := handler.repositories.WebUsers.DeleteSession(claims.ID); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "internal error")
		}
		return c.JSON(fiber.Map{"ok": true})
	}

	if err := handler.repositories.WebUsers.DeleteSessionsForUser(currentWebUserID(c)); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Me reports the caller's account and, when present, the linked Telegram
// identity.
func (handler *Handler) Me(c *fiber.Ctx) error {
	webUserID := currentWebUserID(c)
	user, err := handler.repositories.WebUsers.FindByID(webUserID)
	if err != nil {
		return serviceError(c, err)
	}

	response := fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	}
	if link, found, err := handler.repositories.Links.FindLink(webUserID); err == nil && found {
		response["telegram_id"] = link.TelegramID
	}
	return c.JSON(response)
}

func (handler *Handler) createWebUser(email string, password string) (models.WebUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.WebUser{}, err
	}
	user := models.WebUser{Email: email, PasswordHash: string(hash)}
	if err := handler.repositories.WebUsers.Create(&user); err != nil {
		return models.WebUser{}, err
	}
	return user, nil
}

func (handler *Handler) issueTokenPair(webUserID uint) (tokenPair, error) {
	accessToken, err := handler.buildToken(webUserID, tokenTypeAccess, "", handler.accessTokenTTL)
	if err != nil {
		return tokenPair{}, err
	}

	tokenID := uuid.NewString()
	refreshToken, err := handler.buildToken(webUserID, tokenTypeRefresh, tokenID, handler.refreshTokenTTL)
	if err != nil {
		return tokenPair{}, err
	}

	session := models.Session{
		WebUserID: webUserID,
		TokenID:   tokenID,
		ExpiresAt: handler.now().Add(handler.refreshTokenTTL),
	}
	if err := handler.repositories.WebUsers.CreateSession(&session); err != nil {
		return tokenPair{}, err
	}

	return tokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

var (
	errEmailRequired = errors.New("email is required")
	errInvalidEmail  = errors.New("invalid email")
)

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errEmailRequired
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", errInvalidEmail
	}
	return email, nil
}
