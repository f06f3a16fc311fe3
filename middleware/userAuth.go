package middleware

import (
	"net/http"
	"strings"

	userRepo "gatherly/database/repository/user"
	"gatherly/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthUserMiddleware authenticates consumer accounts. The token must carry
// the "user" role and its hash must match the account's current token hash,
// so a sign-in or revocation elsewhere invalidates older tokens.
func JWTAuthUserMiddleware(repo userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		userID, role, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" || role != "user" {
			abortUnauthorized(c, "Invalid token")
			return
		}

		computedHash := utils.HashToken(tokenString)
		if !tokenHashValid(c, "user", userID, computedHash, func() (string, error) {
			u, err := repo.GetByID(userID)
			if err != nil || u == nil {
				return "", err
			}
			return u.TokenHash, nil
		}) {
			abortUnauthorized(c, "Token revoked or account not found")
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// tokenHashValid compares the presented token hash against the stored one,
// going through the Redis auth cache to spare the database on hot paths.
func tokenHashValid(c *gin.Context, role, id, computedHash string, load func() (string, error)) bool {
	cacheKey := utils.AuthCachePrefix + role + ":" + id
	cache := utils.GetAuthCacheClient()

	if cached, err := cache.Get(c.Request.Context(), cacheKey).Result(); err == nil {
		return cached == computedHash
	}

	stored, err := load()
	if err != nil || stored == "" {
		return false
	}
	if stored != computedHash {
		return false
	}
	if err := cache.Set(c.Request.Context(), cacheKey, stored, utils.AuthCacheTTL).Err(); err != nil {
		utils.GetLogger().Debug("auth cache store failed")
	}
	return true
}
