package middleware

import (
	providerRepo "gatherly/database/repository/provider"
	userRepo "gatherly/database/repository/user"
	"gatherly/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthAnyMiddleware accepts both consumer and provider tokens, dispatching
// on the role claim. Handlers pick up whichever of "userID" or "providerID"
// got set.
func JWTAuthAnyMiddleware(users userRepo.UserRepository, providers providerRepo.ProviderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		id, role, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || id == "" {
			abortUnauthorized(c, "Invalid token")
			return
		}

		computedHash := utils.HashToken(tokenString)
		switch role {
		case "user":
			if !tokenHashValid(c, "user", id, computedHash, func() (string, error) {
				u, err := users.GetByID(id)
				if err != nil || u == nil {
					return "", err
				}
				return u.TokenHash, nil
			}) {
				abortUnauthorized(c, "Token revoked or account not found")
				return
			}
			c.Set("userID", id)
		case "provider":
			if !tokenHashValid(c, "provider", id, computedHash, func() (string, error) {
				p, err := providers.GetByID(id)
				if err != nil || p == nil {
					return "", err
				}
				return p.TokenHash, nil
			}) {
				abortUnauthorized(c, "Token revoked or account not found")
				return
			}
			c.Set("providerID", id)
		default:
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Next()
	}
}
