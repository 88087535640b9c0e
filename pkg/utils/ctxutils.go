// pkg/utils/ctxutils.go

package utils

import (
	"context"

	"aras-dashboard/pkg/contextkeys"
	apperrors "aras-dashboard/pkg/errors"
	"aras-dashboard/pkg/service"
)

func GetUserIDFromCtx(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(string)
	if !ok || userID == "" {
		return "", apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetClaimsFromCtx(ctx context.Context) (*service.JwtCustomClaim, error) {
	claims, ok := ctx.Value(contextkeys.UserInfoKey).(*service.JwtCustomClaim)
	if !ok || claims == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

// GetAuthTokenFromCtx - пустая строка, если запрос пришёл без токена.
func GetAuthTokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(contextkeys.AuthTokenKey).(string)
	return token
}
