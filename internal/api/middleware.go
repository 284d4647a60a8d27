package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	contextWebUserKey    = "webUserID"
	contextTelegramIDKey = "telegramID"

	telegramIDHeader = "X-Telegram-Id"

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type authClaims struct {
	WebUserID uint   `json:"uid"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// AuthRequired admits requests carrying a valid bearer access token and
// stores the web user id in the request context.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	claims, err := handler.parseBearerToken(c, tokenTypeAccess)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	c.Locals(contextWebUserKey, claims.WebUserID)
	return c.Next()
}

// IdentityRequired resolves the Telegram identity the request acts as. Bot
// backend calls carry it in the X-Telegram-Id header; web clients carry a
// bearer token and must have linked a Telegram account.
func (handler *Handler) IdentityRequired(c *fiber.Ctx) error {
	if raw := strings.TrimSpace(c.Get(telegramIDHeader)); raw != "" {
		telegramID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || telegramID == 0 {
			return apiError(c, fiber.StatusBadRequest, "invalid telegram id")
		}
		c.Locals(contextTelegramIDKey, telegramID)
		return c.Next()
	}

	claims, err := handler.parseBearerToken(c, tokenTypeAccess)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	link, found, err := handler.repositories.Links.FindLink(claims.WebUserID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	if !found {
		return apiError(c, fiber.StatusForbidden, "no linked telegram account")
	}

	c.Locals(contextWebUserKey, claims.WebUserID)
	c.Locals(contextTelegramIDKey, link.TelegramID)
	return c.Next()
}

func (handler *Handler) parseBearerToken(c *fiber.Ctx, wantType string) (*authClaims, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return nil, errors.New("missing authorization header")
	}
	rawToken, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, errors.New("not a bearer token")
	}

	claims, err := handler.parseToken(strings.TrimSpace(rawToken), wantType)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (handler *Handler) parseToken(rawToken string, wantType string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithTimeFunc(handler.now))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != wantType {
		return nil, errors.New("wrong token type")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(handler.now()) {
		return nil, errors.New("token expired")
	}
	return claims, nil
}

func (handler *Handler) buildToken(webUserID uint, tokenType string, tokenID string, ttl time.Duration) (string, error) {
	now := handler.now()
	claims := authClaims{
		WebUserID: webUserID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   strconv.FormatUint(uint64(webUserID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}

func currentWebUserID(c *fiber.Ctx) uint {
	webUserID, _ := c.Locals(contextWebUserKey).(uint)
	return webUserID
}

func currentTelegramID(c *fiber.Ctx) int64 {
	telegramID, _ := c.Locals(contextTelegramIDKey).(int64)
	return telegramID
}
