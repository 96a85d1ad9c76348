package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errores de verificación de token. El caller decide cómo exponerlos;
// Malformed y SignatureInvalid suelen colapsar en la misma respuesta 401.
var (
	ErrExpired          = errors.New("jwt: token expirado")
	ErrMalformed        = errors.New("jwt: token malformado")
	ErrSignatureInvalid = errors.New("jwt: firma inválida")
)

// Options parámetros de emisión y verificación de tokens.
type Options struct {
	Secret     string
	Issuer     string
	Audience   string
	ExpMinutes int
}

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// CompanyID queda vacío para el administrador general (rol sin empresa).
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	CompanyID string `json:"company_id,omitempty"`
	RoleID    string `json:"role_id"`
}

// Generate genera un token HS256 firmado con subject userID, email, empresa y rol.
func Generate(opts Options, userID, email, companyID, roleID string) (string, error) {
	if opts.Secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    opts.Issuer,
			Audience:  jwt.ClaimStrings{opts.Audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(opts.ExpMinutes) * time.Minute)),
		},
		Email:     email,
		CompanyID: companyID,
		RoleID:    roleID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(opts.Secret))
}

// Parse valida firma, expiración, issuer y audience, y devuelve los claims.
// Los errores se traducen a ErrExpired / ErrMalformed / ErrSignatureInvalid.
func Parse(opts Options, tokenString string) (*Claims, error) {
	if opts.Secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(opts.Secret), nil
	}, jwt.WithIssuer(opts.Issuer), jwt.WithAudience(opts.Audience))
	if err != nil {
		return nil, translateError(err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

func translateError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	default:
		// Malformado, issuer/audience incorrecto, claims ilegibles, etc.
		return ErrMalformed
	}
}
