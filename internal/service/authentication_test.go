package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"postboard/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	timeNow = time.Now
	parseWithClaims = jwt.ParseWithClaims
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restoreGlobals)
	pwd := "secret"
	hash, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, pwd, hash)
	require.NoError(t, ComparePassword(hash, pwd))

	bcryptGenerateFromPassword = func(_ []byte, _ int) ([]byte, error) {
		return nil, errors.New("gen")
	}
	_, err = HashPassword(pwd)
	require.Error(t, err)
}

func TestAuthenticateUser(t *testing.T) {
	t.Cleanup(restoreGlobals)
	hash, _ := HashPassword("pw")
	u := model.User{PasswordHash: hash}
	require.NoError(t, AuthenticateUser(context.Background(), u, "pw"))
	require.Error(t, AuthenticateUser(context.Background(), u, "bad"))
}

func TestAccessTokenTTL(t *testing.T) {
	os.Unsetenv("ACCESS_TOKEN_EXPIRE_MINUTES")
	require.Equal(t, DefaultAccessTokenTTL, AccessTokenTTL())

	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "60")
	require.Equal(t, time.Hour, AccessTokenTTL())

	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "abc")
	require.Equal(t, DefaultAccessTokenTTL, AccessTokenTTL())

	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "-5")
	require.Equal(t, DefaultAccessTokenTTL, AccessTokenTTL())
}

func TestIssueAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	os.Unsetenv("JWT_SECRET")
	_, err := IssueAccessToken(model.User{}, time.Minute)
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s")
	tok, err := IssueAccessToken(model.User{ID: 5}, time.Minute)
	require.NoError(t, err)
	claims := &CustomClaims{}
	_, err = jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return []byte("s"), nil })
	require.NoError(t, err)
	require.Equal(t, 5, claims.UserID)
	require.Equal(t, "5", claims.Subject)
}

func TestVerifyAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)

	os.Unsetenv("JWT_SECRET")
	_, err := VerifyAccessToken("tok")
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s")
	tok, err := IssueAccessToken(model.User{ID: 9}, time.Minute)
	require.NoError(t, err)

	claims, err := VerifyAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, 9, claims.UserID)

	// 過期令牌
	timeNow = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := IssueAccessToken(model.User{ID: 9}, time.Minute)
	require.NoError(t, err)
	timeNow = time.Now
	_, err = VerifyAccessToken(expired)
	require.Error(t, err)

	// 竄改的令牌
	_, err = VerifyAccessToken(tok + "x")
	require.Error(t, err)

	// 錯誤簽名演算法
	none := jwt.NewWithClaims(jwt.SigningMethodNone, CustomClaims{UserID: 9})
	noneTok, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = VerifyAccessToken(noneTok)
	require.Error(t, err)
}
