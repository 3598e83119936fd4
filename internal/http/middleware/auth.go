package middleware

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/literacy-backend/internal/http/response"
	"github.com/yungbote/literacy-backend/internal/platform/apierr"
	"github.com/yungbote/literacy-backend/internal/platform/ctxutil"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

const (
	headerMaintenanceKey = "X-Maintenance-Key"
	headerCronSecret     = "X-Cron-Secret"
	principalKey         = "principal"

	RoleAdmin = "admin"
)

type AuthConfig struct {
	JWTSecret string
	// MaintenanceKey is compared in constant time; MaintenanceKeyBcrypt, when
	// set, is a bcrypt hash checked instead.
	MaintenanceKey       string
	MaintenanceKeyBcrypt string
	CronSecret           string
}

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	log *logger.Logger
	cfg AuthConfig
}

func NewAuthMiddleware(log *logger.Logger, cfg AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), cfg: cfg}
}

// RequireAdmin accepts a bearer JWT with role=admin or the maintenance key.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			p   *ctxutil.Principal
			err error
		)
		if key := strings.TrimSpace(c.GetHeader(headerMaintenanceKey)); key != "" {
			p, err = am.checkMaintenanceKey(key)
		} else {
			p, err = am.checkJWT(bearerToken(c))
		}
		if err != nil {
			am.log.Debug("admin auth rejected", "path", c.Request.URL.Path, "error", err)
			status := http.StatusUnauthorized
			code := "unauthorized"
			if errors.Is(err, errForbidden) {
				status, code = http.StatusForbidden, "forbidden"
			}
			response.RespondError(c, status, code, err)
			c.Abort()
			return
		}
		am.attach(c, p)
		c.Next()
	}
}

// RequireCron accepts the cron secret from X-Cron-Secret or ?key=.
func (am *AuthMiddleware) RequireCron() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := strings.TrimSpace(c.GetHeader(headerCronSecret))
		if secret == "" {
			secret = strings.TrimSpace(c.Query("key"))
		}
		if am.cfg.CronSecret == "" || secret == "" || !constantEqual(secret, am.cfg.CronSecret) {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("invalid cron secret: %w", apierr.ErrUnauthorized))
			c.Abort()
			return
		}
		am.attach(c, &ctxutil.Principal{Subject: "cron", Role: RoleAdmin, Method: "cron_secret"})
		c.Next()
	}
}

var errForbidden = errors.New("admin role required")

func (am *AuthMiddleware) checkJWT(token string) (*ctxutil.Principal, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", apierr.ErrUnauthorized)
	}
	if am.cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt auth not configured: %w", apierr.ErrUnauthorized)
	}
	claims := &AdminClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(am.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid or expired token: %w", apierr.ErrUnauthorized)
	}
	if claims.Role != RoleAdmin {
		return nil, errForbidden
	}
	return &ctxutil.Principal{Subject: claims.Subject, Role: claims.Role, Method: "jwt"}, nil
}

func (am *AuthMiddleware) checkMaintenanceKey(key string) (*ctxutil.Principal, error) {
	switch {
	case am.cfg.MaintenanceKeyBcrypt != "":
		if bcrypt.CompareHashAndPassword([]byte(am.cfg.MaintenanceKeyBcrypt), []byte(key)) != nil {
			return nil, fmt.Errorf("invalid maintenance key: %w", apierr.ErrUnauthorized)
		}
	case am.cfg.MaintenanceKey != "":
		if !constantEqual(key, am.cfg.MaintenanceKey) {
			return nil, fmt.Errorf("invalid maintenance key: %w", apierr.ErrUnauthorized)
		}
	default:
		return nil, fmt.Errorf("maintenance key not configured: %w", apierr.ErrUnauthorized)
	}
	return &ctxutil.Principal{Subject: "maintenance", Role: RoleAdmin, Method: "maintenance_key"}, nil
}

func (am *AuthMiddleware) attach(c *gin.Context, p *ctxutil.Principal) {
	c.Set(principalKey, p)
	c.Request = c.Request.WithContext(ctxutil.WithPrincipal(c.Request.Context(), p))
}

func constantEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
