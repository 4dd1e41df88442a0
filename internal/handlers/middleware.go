package handlers

import (
	"net/http"
	"strings"

	"chatline/internal/errs"
	"chatline/internal/models"
	"chatline/internal/msgs"
	"chatline/internal/utils"

	"github.com/gin-gonic/gin"
)

// MustAuthenticateMiddleware verifies the bearer token and attaches the
// decoded identity to the request context.
func (rh *RestHandler) MustAuthenticateMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		jwtToken := ctx.GetHeader("Authorization")
		jwtToken = strings.TrimPrefix(jwtToken, "Bearer ")

		if jwtToken == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  models.ErrorMessages([]error{errs.ErrUnauthorized}),
			})
			return
		}

		claims, err := utils.VerifyToken(jwtToken, rh.authService.JwtKey())
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  models.ErrorMessages([]error{errs.ErrUnauthorized}),
			})
			return
		}

		ctx.Set("user_id", claims.ID)
		ctx.Set("user_email", claims.Email)
		ctx.Set("user_name", claims.UserName)
		ctx.Next()
	}
}
