package jwt

import (
	"testing"

	"gamewatch/backend/internal/config"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	tokenString, err := GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	token, err := gojwt.Parse(tokenString, func(token *gojwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !token.Valid {
		t.Fatal("token not valid")
	}

	claims, ok := token.Claims.(gojwt.MapClaims)
	if !ok {
		t.Fatal("claims not MapClaims")
	}
	if sub, ok := claims["sub"].(float64); !ok || uint(sub) != 42 {
		t.Errorf("sub = %v, want 42", claims["sub"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("exp claim missing")
	}
}

func TestGenerateToken_WrongSecretRejected(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	tokenString, err := GenerateToken(1)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = gojwt.Parse(tokenString, func(token *gojwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	if err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}
