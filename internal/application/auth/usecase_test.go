package auth_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/auth"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/dto"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/repository"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/infrastructure/memory"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{Secret: "secreto-de-test", ExpMinutes: 60, Issuer: "kiosco-test"}

func TestRegisterYLogin(t *testing.T) {
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), jwtCfg)

	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "javi@kiosco.ar", Password: "contraseña-segura", Name: "Javi",
	})
	require.NoError(t, err)
	assert.Equal(t, "vendedor", user.Role, "rol por defecto")

	resp, err := uc.Login(dto.LoginRequest{Email: "javi@kiosco.ar", Password: "contraseña-segura"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	userID, role, err := jwt.Parse(jwtCfg.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "vendedor", role)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), jwtCfg)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "javi@kiosco.ar", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "javi@kiosco.ar", Password: "87654321"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// repoCaido simula el almacén de usuarios inaccesible: la búsqueda por email
// falla siempre.
type repoCaido struct {
	repository.UserRepository
}

func (repoCaido) GetByEmail(string) (*entity.User, error) {
	return nil, errors.New("dial tcp: connection refused")
}

// Un almacén caído no debe leerse como "email libre": el registro tiene que
// devolver el error de la búsqueda en lugar de intentar la escritura.
func TestRegister_AlmacenCaido(t *testing.T) {
	uc := auth.NewAuthUseCase(repoCaido{}, jwtCfg)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "javi@kiosco.ar", Password: "12345678"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), jwtCfg)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "javi@kiosco.ar", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "javi@kiosco.ar", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), jwtCfg)

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@kiosco.ar", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
