package middleware

import (
	providerRepo "gatherly/database/repository/provider"
	"gatherly/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthProviderMiddleware authenticates provider accounts, mirroring the
// consumer middleware but requiring the "provider" role claim.
func JWTAuthProviderMiddleware(repo providerRepo.ProviderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		providerID, role, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || providerID == "" || role != "provider" {
			abortUnauthorized(c, "Invalid token")
			return
		}

		computedHash := utils.HashToken(tokenString)
		if !tokenHashValid(c, "provider", providerID, computedHash, func() (string, error) {
			p, err := repo.GetByID(providerID)
			if err != nil || p == nil {
				return "", err
			}
			return p.TokenHash, nil
		}) {
			abortUnauthorized(c, "Token revoked or account not found")
			return
		}

		c.Set("providerID", providerID)
		c.Next()
	}
}
