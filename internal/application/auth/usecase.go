package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

// Roles aceptados en las credenciales.
var validRoles = map[string]bool{"admin": true, "bodeguero": true, "auditor": true}

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Credential usuario habilitado para iniciar sesión. PasswordHash es bcrypt.
type Credential struct {
	UserID       string
	Role         string
	PasswordHash string
}

// ParseCredentials lee la lista "usuario:rol:hash" separada por comas (formato de AUTH_USERS).
func ParseCredentials(raw string) ([]Credential, error) {
	var creds []Credential
	seen := make(map[string]bool)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, fmt.Errorf("credencial mal formada: %q", entry)
		}
		if !validRoles[parts[1]] {
			return nil, fmt.Errorf("rol desconocido para %s: %q", parts[0], parts[1])
		}
		if seen[parts[0]] {
			return nil, fmt.Errorf("usuario duplicado: %s", parts[0])
		}
		seen[parts[0]] = true
		creds = append(creds, Credential{UserID: parts[0], Role: parts[1], PasswordHash: parts[2]})
	}
	return creds, nil
}

// HashPassword genera el hash bcrypt a registrar en AUTH_USERS.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password vacío", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// AuthUseCase login contra credenciales de configuración.
type AuthUseCase struct {
	users  map[string]Credential
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(creds []Credential, jwtCfg JWTConfig) *AuthUseCase {
	users := make(map[string]Credential, len(creds))
	for _, c := range creds {
		users[c.UserID] = c
	}
	return &AuthUseCase{users: users, jwtCfg: jwtCfg}
}

// Login verifica usuario/password y emite un JWT con el rol configurado.
// Usuario inexistente y password incorrecto responden igual (ErrUnauthorized).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username y password son requeridos", domain.ErrValidation)
	}
	cred, ok := uc.users[in.Username]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, cred.UserID, cred.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		UserID:    cred.UserID,
		Role:      cred.Role,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
	}, nil
}
