package utils

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	redis "github.com/redis/go-redis/v9"
)

type contextKey string

const UserIDKey = contextKey("userID")
const RequestIDKey = contextKey("requestID")

// Access-token validation failures. Callers branch with errors.Is; the
// message text is never inspected.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenBad     = errors.New("invalid token")
)

// redisClient is an optional revocation store for access-token jtis. It stays
// nil when REDIS_ADDR is not configured, in which case logout only rotates the
// refresh token.
var redisClient *redis.Client

// InitRedis connects the optional revocation store. Called from main after the
// environment is loaded; a failed ping leaves revocation disabled rather than
// blocking startup.
func InitRedis() {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return
	}
	opts := &redis.Options{Addr: addr}
	if p := os.Getenv("REDIS_PASS"); p != "" {
		opts.Password = p
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		var dbn int
		_, _ = fmt.Sscanf(dbStr, "%d", &dbn)
		opts.DB = dbn
	}
	rc := redis.NewClient(opts)
	if err := rc.Ping(context.Background()).Err(); err != nil {
		fmt.Printf("warning: redis ping failed: %v\n", err)
		return
	}
	redisClient = rc
}

// CloseRedis releases the revocation store connection on shutdown.
func CloseRedis() {
	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}

// GenerateAccessToken issues an HS256 access token carrying the user id and a
// random jti, and returns both the signed token and the jti.
func GenerateAccessToken(userID uint, expiry time.Duration) (string, string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", "", errors.New("JWT_SECRET is not set")
	}

	now := time.Now()
	jti, err := generateJTI()
	if err != nil {
		return "", "", err
	}

	claims := jwt.MapClaims{
		"id":  userID,
		"exp": now.Add(expiry).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": jti,
	}
	if aud := os.Getenv("JWT_AUD"); aud != "" {
		claims["aud"] = aud
	}
	if iss := os.Getenv("JWT_ISS"); iss != "" {
		claims["iss"] = iss
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// ValidateAccessToken parses and validates an access token. The signing
// algorithm is pinned to HS256 to avoid algorithm confusion, registered
// claims are checked by the parser, and the jti is checked against the
// revocation store when one is configured.
func ValidateAccessToken(tokenStr string) (jwt.MapClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if aud := os.Getenv("JWT_AUD"); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	if iss := os.Getenv("JWT_ISS"); iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}

	token, err := jwt.ParseWithClaims(tokenStr, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenBad
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenBad
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" && redisClient != nil {
		res, err := redisClient.Get(context.Background(), "jwt:blacklist:"+jti).Result()
		if err == nil && res == "1" {
			return nil, errors.New("token revoked")
		}
		// redis errors are ignored so an outage never locks everyone out
	}

	return claims, nil
}

// RevokeJTI blacklists an access-token jti until its natural expiry.
func RevokeJTI(jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("empty jti")
	}
	if redisClient == nil {
		return errors.New("no revocation store configured")
	}
	return redisClient.Set(context.Background(), "jwt:blacklist:"+jti, "1", ttl).Err()
}

// UserIDFromClaims extracts the "id" claim, tolerating the numeric types the
// JSON decoder may produce.
func UserIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	switch v := claims["id"].(type) {
	case float64:
		return uint(v), true
	case int:
		return uint(v), true
	case string:
		var n uint
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetUserID returns the authenticated user id placed in the request context
// by the auth middleware.
func GetUserID(r *http.Request) (uint, bool) {
	v := r.Context().Value(UserIDKey)
	id, ok := v.(uint)
	return id, ok
}
