package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/voonda-api/internal/domain"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
	"github.com/tu-usuario/voonda-api/internal/domain/repository"
	"github.com/tu-usuario/voonda-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
)

const bcryptCost = 12

// LockoutPolicy política de bloqueo por intentos fallidos.
type LockoutPolicy struct {
	MaxFailedAttempts int
	LockoutDuration   time.Duration
}

// AuthUseCase autenticación: login con lockout persistido, verificación de
// token con re-resolución de estado vivo, registro privilegiado y desbloqueo
// administrativo.
type AuthUseCase struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	companies repository.CompanyRepository
	jwtOpts   jwt.Options
	policy    LockoutPolicy
	now       func() time.Time
	folder    cases.Caser
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, roles repository.RoleRepository, companies repository.CompanyRepository, jwtOpts jwt.Options, policy LockoutPolicy) *AuthUseCase {
	return &AuthUseCase{
		users:     users,
		roles:     roles,
		companies: companies,
		jwtOpts:   jwtOpts,
		policy:    policy,
		now:       time.Now,
		folder:    cases.Fold(),
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

// FoldEmail normaliza un email para lookup y almacenamiento (case folding
// Unicode, no un simple ToLower).
func (uc *AuthUseCase) FoldEmail(email string) string {
	return uc.folder.String(strings.TrimSpace(email))
}

// LoginResult token emitido más el identity del usuario.
type LoginResult struct {
	Token    string
	Identity Identity
	User     *entity.User
}

// Login verifica credenciales y gestiona el estado de bloqueo.
//
// El mensaje para email inexistente y para password incorrecto es el mismo
// error (ErrInvalidCredentials) para no permitir enumeración de cuentas.
// Cada password incorrecto incrementa el contador de forma atómica en el
// store; al llegar al umbral se fija locked_until = now + ventana. Durante
// un bloqueo activo el contador sigue subiendo pero la ventana no se
// extiende (comportamiento heredado, aceptado como no escalante).
func (uc *AuthUseCase) Login(email, password string) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(uc.FoldEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrAccountDisabled
	}
	if user.LockedAt(uc.now()) {
		return nil, domain.ErrAccountLocked
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if err := uc.users.RegisterFailedAttempt(user.ID, uc.policy.MaxFailedAttempts, uc.policy.LockoutDuration); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidCredentials
	}

	// Éxito: contador a cero, bloqueo limpio, last_login estampado.
	if err := uc.users.ResetLockout(user.ID, uc.now()); err != nil {
		return nil, err
	}

	identity, err := uc.buildIdentity(user)
	if err != nil {
		return nil, err
	}
	companyID := ""
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}
	token, err := jwt.Generate(uc.jwtOpts, user.ID, user.Email, companyID, user.RoleID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Identity: identity, User: user}, nil
}

// Verify valida el token y re-resuelve el estado actual de la cuenta desde
// el store: los claims solos no alcanzan para autorizar, porque una cuenta
// desactivada o bloqueada debe quedar afuera antes del expiry embebido.
func (uc *AuthUseCase) Verify(tokenString string) (Identity, error) {
	claims, err := jwt.Parse(uc.jwtOpts, tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return Identity{}, domain.ErrTokenExpired
		}
		return Identity{}, domain.ErrTokenInvalid
	}
	user, err := uc.users.GetByID(claims.Subject)
	if err != nil {
		return Identity{}, err
	}
	if user == nil {
		return Identity{}, domain.ErrTokenInvalid
	}
	if !user.Active {
		return Identity{}, domain.ErrAccountDisabled
	}
	if user.LockedAt(uc.now()) {
		return Identity{}, domain.ErrAccountLocked
	}
	return uc.buildIdentity(user)
}

// Me devuelve el usuario fresco del identity (para GET /auth/me).
func (uc *AuthUseCase) Me(id Identity) (*entity.User, error) {
	user, err := uc.users.GetByID(id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// RegisterInput datos de registro privilegiado.
type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	Phone     string
	CompanyID *string
	RoleID    string
}

// Register crea un usuario (registro privilegiado). Invariante del modelo:
// CompanyID nil solo para el rol administrador general; cualquier otro rol
// exige empresa existente.
func (uc *AuthUseCase) Register(in RegisterInput) (*entity.User, error) {
	var fe domain.FieldErrors
	if in.Email == "" {
		fe.Add("email", "es requerido")
	}
	if len(in.Password) < 8 {
		fe.Add("password", "debe tener al menos 8 caracteres")
	}
	if in.RoleID == "" {
		fe.Add("role_id", "es requerido")
	}
	if !fe.Empty() {
		return nil, fe
	}

	role, err := uc.roles.GetByID(in.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		fe.Add("role_id", "el rol no existe")
		return nil, fe
	}
	if role.IsSystemAdmin() {
		in.CompanyID = nil
	} else {
		if in.CompanyID == nil || *in.CompanyID == "" {
			fe.Add("company_id", "es requerido para roles de empresa")
			return nil, fe
		}
		company, err := uc.companies.GetByID(*in.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			fe.Add("company_id", "la empresa no existe")
			return nil, fe
		}
	}

	folded := uc.FoldEmail(in.Email)
	existing, err := uc.users.GetByEmail(folded)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = folded
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		RoleID:       in.RoleID,
		Email:        folded,
		PasswordHash: string(hash),
		Name:         name,
		Phone:        strings.TrimSpace(in.Phone),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Unlock desbloqueo administrativo de una cuenta: resetea contador y
// locked_until. Reservado al administrador general.
func (uc *AuthUseCase) Unlock(actor Identity, userID string) error {
	if !actor.IsSystemAdmin() {
		return domain.ErrPermissionDenied
	}
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	return uc.users.Unlock(userID)
}

func (uc *AuthUseCase) buildIdentity(user *entity.User) (Identity, error) {
	role, err := uc.roles.GetByID(user.RoleID)
	if err != nil {
		return Identity{}, err
	}
	if role == nil {
		// Usuario con rol colgante: cuenta inconsistente, no autorizable.
		return Identity{}, domain.ErrTokenInvalid
	}
	return Identity{
		UserID:    user.ID,
		Email:     user.Email,
		CompanyID: user.CompanyID,
		Role:      role,
	}, nil
}
