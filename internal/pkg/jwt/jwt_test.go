package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexhr/nexhr-backend-go/internal/domain/employee"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	emp := employee.Employee{
		ID:         "emp-1",
		Name:       "Sangeet Pal",
		Email:      "sangeet@example.com",
		Department: "Information Technology",
		Role:       employee.RoleManager,
	}

	tokenString, expiresAt, err := svc.GenerateAccessToken(emp)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "Sangeet Pal", claims["name"])
	assert.Equal(t, "sangeet@example.com", claims["email"])
	assert.Equal(t, "Information Technology", claims["department"])
	assert.Equal(t, "manager", claims["role"])
	assert.Equal(t, "access", claims["type"])

	assert.Equal(t, expiresAt, token.Expiration().Unix())
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.Expiration(), time.Minute)
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "soon")

	_, _, err := svc.GenerateAccessToken(employee.Employee{ID: "emp-1"})
	assert.Error(t, err)
}
