package middlewares

import (
	"net/http"
	"strings"

	"github.com/Kariqs/storefront-api/services"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// TokenParser resolves a bearer token to the caller identity.
type TokenParser interface {
	ParseToken(raw string) (services.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller identity on the context.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, _ := strings.CutPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		authenticate(ctx, parser, raw)
	}
}

// RequireAuthWS is RequireAuth for websocket handshakes, where browsers cannot
// set headers: the token may also come from the token query parameter. Use it
// only on upgrade routes so tokens stay out of ordinary URLs.
func RequireAuthWS(parser TokenParser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, found := strings.CutPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if !found {
			raw = ctx.Query("token")
		}
		authenticate(ctx, parser, raw)
	}
}

func authenticate(ctx *gin.Context, parser TokenParser, raw string) {
	identity, err := parser.ParseToken(strings.TrimSpace(raw))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": services.MessageOf(err),
		})
		return
	}

	ctx.Set(identityKey, identity)
	ctx.Next()
}

// IdentityFrom returns the identity set by RequireAuth.
func IdentityFrom(ctx *gin.Context) (services.Identity, bool) {
	value, exists := ctx.Get(identityKey)
	if !exists {
		return services.Identity{}, false
	}
	identity, ok := value.(services.Identity)
	return identity, ok
}
