package bloglist

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenService issues and verifies signed identity tokens
type TokenService interface {
	Issue(subjectID, username string, ttl time.Duration) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Verify(tokenString string) (*JWTClaims, error)
	DefaultTTL() time.Duration
}

// TokenServiceImpl implements the TokenService interface with HS256
type TokenServiceImpl struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	logger     Logger
	now        func() time.Time
}

var _ TokenService = (*TokenServiceImpl)(nil)

// NewTokenService creates a new TokenService instance. A zero ttl issues
// tokens without expiry.
func NewTokenService(signingKey []byte, ttl time.Duration, issuer string, logger Logger) *TokenServiceImpl {
	return &TokenServiceImpl{
		signingKey: signingKey,
		ttl:        ttl,
		issuer:     issuer,
		logger:     normalizeLogger(logger, "bloglist.tokens"),
		now:        time.Now,
	}
}

// NewTokenServiceFromConfig creates a TokenService from auth options
func NewTokenServiceFromConfig(cfg Config, logger Logger) *TokenServiceImpl {
	return NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetTokenTTL(), cfg.GetIssuer(), logger)
}

// DefaultTTL is the lifetime applied to login tokens
func (ts *TokenServiceImpl) DefaultTTL() time.Duration {
	return ts.ttl
}

// Issue creates a signed token for subjectID. ttl == 0 omits the exp claim.
func (ts *TokenServiceImpl) Issue(subjectID, username string, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", goerrors.New("subject is required", goerrors.CategoryBadInput)
	}

	if ttl < 0 {
		return "", goerrors.New("token TTL must be non-negative", goerrors.CategoryBadInput)
	}

	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   ts.issuer,
			Subject:  subjectID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		UID:      subjectID,
		Username: username,
	}

	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Verify parses and validates a token string, returning its claims
func (ts *TokenServiceImpl) Verify(tokenString string) (*JWTClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Warn("token verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(ErrTokenInvalid.TextCode).
			WithCode(goerrors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.UserID() == "" {
		ts.logger.Debug("token verify could not decode subject")
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
