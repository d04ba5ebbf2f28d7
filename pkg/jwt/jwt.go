// Package jwt emite y valida los tokens de operador de la API.
//
// El operador viaja en el claim estándar "sub" y el rol en "role".
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos por la API.
const (
	RoleAdmin    = "admin"    // todo, incluida la importación masiva y el borrado de artículos
	RoleOperator = "operador" // registra movimientos y da de alta artículos
	RoleReader   = "lector"   // solo consultas y exportaciones
)

var (
	ErrEmptySecret     = errors.New("jwt: secret vacío")
	ErrUnknownRole     = errors.New("jwt: rol desconocido")
	ErrMissingOperator = errors.New("jwt: operador vacío")
)

// ValidRole indica si role es uno de los roles de la API.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOperator, RoleReader:
		return true
	}
	return false
}

// Claims registrados + rol.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Identity operador autenticado por un token.
type Identity struct {
	Operator string
	Role     string
}

// Generate firma (HS256) un token para operator con el rol dado, válido durante ttl.
func Generate(secret, operator, role, issuer string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if operator == "" {
		return "", ErrMissingOperator
	}
	if !ValidRole(role) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   operator,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma, caducidad y rol del token.
func Parse(secret, token string) (Identity, error) {
	if secret == "" {
		return Identity{}, ErrEmptySecret
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, err
	}
	if claims.Subject == "" {
		return Identity{}, ErrMissingOperator
	}
	if !ValidRole(claims.Role) {
		return Identity{}, fmt.Errorf("%w: %q", ErrUnknownRole, claims.Role)
	}
	return Identity{Operator: claims.Subject, Role: claims.Role}, nil
}
