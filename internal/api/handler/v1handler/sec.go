package v1handler

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"
	"yourplaces/internal/config"
	"yourplaces/pkg/domain"
	"yourplaces/pkg/logger"
	"yourplaces/pkg/serrors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ogen-go/ogen/conv"
	"github.com/ogen-go/ogen/ogenerrors"
	"go.uber.org/zap"
)

type ctxKey string

// UserIDKey is the context key under which the authenticated domain.UserID is stored.
const UserIDKey ctxKey = "userID"

// BearerAuth carries the token of an Authorization: Bearer header.
type BearerAuth struct {
	Token string
}

type SecHandlerOptions struct {
	// PublicKey is the PEM encoded RSA public key tokens are verified with.
	PublicKey string
}

func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{
		PublicKey: cfg.JWT.PublicKey,
	}
}

// SecHandler verifies RS256 signed bearer tokens whose subject is a user id.
type SecHandler struct {
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
}

func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse jwt public key: %w", err)
	}

	return &SecHandler{
		publicKey: publicKey,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// HandleBearerAuth validates the token and returns a context carrying the user id.
// Rejections wrap an *ogenerrors.SecurityError naming the operation.
func (s *SecHandler) HandleBearerAuth(
	ctx context.Context,
	operationName string,
	t BearerAuth) (context.Context, error) {
	var claims jwt.RegisteredClaims
	if _, err := s.parser.ParseWithClaims(t.Token, &claims, func(*jwt.Token) (any, error) {
		return s.publicKey, nil
	}); err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, securityError(operationName, err), "invalid token")
	}

	userID, err := conv.ToUUID(claims.Subject)
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, securityError(operationName, err), "invalid token subject")
	}

	ctx = context.WithValue(ctx, UserIDKey, domain.UserID(userID))
	ctx = logger.WithFields(ctx, zap.String("userID", userID.String()), zap.String("operation", operationName))

	return ctx, nil
}

func securityError(operationName string, err error) *ogenerrors.SecurityError {
	return &ogenerrors.SecurityError{
		OperationContext: ogenerrors.OperationContext{Name: operationName},
		Security:         "BearerAuth",
		Err:              err,
	}
}

// GetUserIDFromContext returns the authenticated user, or the zero id when the
// request was not authenticated.
func GetUserIDFromContext(ctx context.Context) domain.UserID {
	userID, _ := ctx.Value(UserIDKey).(domain.UserID)

	return userID
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)

	return token, token != ""
}

func (h *Handler) withBearerAuth(sec *SecHandler, operationName string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			h.writeError(w, r, serrors.Wrap(serrors.ErrUnauthorized,
				securityError(operationName, ogenerrors.ErrSecurityRequirementIsNotSatisfied), "authentication failed"))

			return
		}

		ctx, err := sec.HandleBearerAuth(r.Context(), operationName, BearerAuth{Token: token})
		if err != nil {
			h.writeError(w, r, err)

			return
		}

		next(w, r.WithContext(ctx))
	}
}
