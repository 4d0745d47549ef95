package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/Micolomike/Xchange/internal/errors"
	"github.com/Micolomike/Xchange/internal/logger"
	"github.com/Micolomike/Xchange/internal/models"
)

const (
	userIDKey    = "userID"
	sessionIDKey = "sessionID"

	sessionIssuer = "xchange-api"
)

// SessionOptions configures the session cookie.
type SessionOptions struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionLookup resolves a session id to a live session.
type SessionLookup interface {
	GetActiveSession(id string) (*models.Session, error)
}

// SessionClaims is the payload of the signed session cookie. The cookie only
// points at a server-side session; it is not trusted on its own.
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    uint   `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a token referencing session.
func GenerateSessionToken(opts SessionOptions, session *models.Session) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		SessionID: session.ID,
		UserID:    session.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
			Subject:   strconv.FormatUint(uint64(session.UserID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(opts.Secret))
}

// ParseSessionToken verifies the signature and expiry of a session token.
func ParseSessionToken(secret, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(sessionIssuer))

	if err != nil || !token.Valid {
		return nil, errors.New("invalid session token")
	}
	if claims.SessionID == "" {
		return nil, errors.New("session token has no session id")
	}
	return claims, nil
}

// SetSessionCookie writes the session cookie.
func SetSessionCookie(c *gin.Context, opts SessionOptions, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.CookieName, token, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, opts SessionOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.CookieName, "", -1, "/", "", opts.Secure, true)
}

// LoadSession reads the session cookie, if any, and puts the user and session
// ids into the context. Requests without a usable session pass through
// anonymously; RequireSession enforces one where needed.
func LoadSession(opts SessionOptions, sessions SessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(opts.CookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		claims, err := ParseSessionToken(opts.Secret, raw)
		if err != nil {
			c.Next()
			return
		}

		session, err := sessions.GetActiveSession(claims.SessionID)
		if err != nil {
			if !apperrors.HasCode(err, apperrors.ErrUnauthorized) {
				logger.Get().Errorw("session lookup failed", "session_id", claims.SessionID, "error", err)
			}
			c.Next()
			return
		}
		if session.UserID != claims.UserID {
			c.Next()
			return
		}

		c.Set(sessionIDKey, session.ID)
		c.Set(userIDKey, session.UserID)
		c.Next()
	}
}

// RequireSession aborts with 401 unless LoadSession found a session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// UserID returns the id of the logged-in user.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// SessionID returns the id of the current session.
func SessionID(c *gin.Context) (string, bool) {
	v, ok := c.Get(sessionIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
