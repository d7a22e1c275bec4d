package authenticating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-metrics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-metrics-api/internal/config"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{
			Secret:        "test-secret",
			TokenTTLHours: 1,
			BCryptCost:    bcrypt.MinCost,
		},
	}
}

func TestService_CreateUser(t *testing.T) {
	t.Run("Usuário novo recebe hash, role padrão e fica ativo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userRepo := mocks.NewMockUserRepository(ctrl)

		userRepo.EXPECT().
			GetUserByEmail(gomock.Any(), "ana@example.com").
			Return(nil, nil)
		userRepo.EXPECT().
			CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
				assert.Equal(t, "ana@example.com", user.Email)
				assert.True(t, user.Active)
				assert.Equal(t, 2, user.RoleID)

				// A senha nunca é guardada em claro
				assert.NotEqual(t, "secret123", user.PasswordHash)
				err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123"))
				assert.NoError(t, err)

				user.ID = 10
				return user, nil
			})

		service := NewService(userRepo, testConfig())

		created, err := service.CreateUser(context.Background(), &domain.User{
			Name:         "Ana",
			Email:        " Ana@Example.com ",
			PasswordHash: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, 10, created.ID)
	})

	t.Run("E-mail já cadastrado é rejeitado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userRepo := mocks.NewMockUserRepository(ctrl)
		userRepo.EXPECT().
			GetUserByEmail(gomock.Any(), "ana@example.com").
			Return(&domain.User{ID: 10}, nil)

		service := NewService(userRepo, testConfig())

		_, err := service.CreateUser(context.Background(), &domain.User{
			Name:         "Ana",
			Email:        "ana@example.com",
			PasswordHash: "secret123",
		})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("Campos obrigatórios ausentes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewService(mocks.NewMockUserRepository(ctrl), testConfig())

		_, err := service.CreateUser(context.Background(), &domain.User{Name: "Ana"})
		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})
}

func TestService_LoginAndValidateToken(t *testing.T) {
	t.Run("Login válido gera token que valida de volta os claims", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
		require.NoError(t, err)

		userRepo := mocks.NewMockUserRepository(ctrl)
		userRepo.EXPECT().
			GetUserByEmail(gomock.Any(), "ana@example.com").
			Return(&domain.User{
				ID:           10,
				Name:         "Ana",
				Email:        "ana@example.com",
				PasswordHash: string(hash),
				Active:       true,
				RoleID:       1,
			}, nil)

		service := NewService(userRepo, testConfig())

		token, err := service.LoginUser(context.Background(), "ana@example.com", "secret123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 10, claims.UserID)
		assert.Equal(t, "Ana", claims.UserName)
		assert.Equal(t, "ana@example.com", claims.UserEmail)
		assert.Equal(t, 1, claims.UserRoleID)
	})

	t.Run("Senha errada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
		require.NoError(t, err)

		userRepo := mocks.NewMockUserRepository(ctrl)
		userRepo.EXPECT().
			GetUserByEmail(gomock.Any(), "ana@example.com").
			Return(&domain.User{ID: 10, PasswordHash: string(hash), Active: true}, nil)

		service := NewService(userRepo, testConfig())

		_, err = service.LoginUser(context.Background(), "ana@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Usuário desativado não loga", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userRepo := mocks.NewMockUserRepository(ctrl)
		userRepo.EXPECT().
			GetUserByEmail(gomock.Any(), "ana@example.com").
			Return(&domain.User{ID: 10, Active: false}, nil)

		service := NewService(userRepo, testConfig())

		_, err := service.LoginUser(context.Background(), "ana@example.com", "secret123")
		assert.ErrorIs(t, err, ErrUserDisabled)
	})

	t.Run("Usuário inexistente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userRepo := mocks.NewMockUserRepository(ctrl)
		userRepo.EXPECT().
			GetUserByEmail(gomock.Any(), "ghost@example.com").
			Return(nil, nil)

		service := NewService(userRepo, testConfig())

		_, err := service.LoginUser(context.Background(), "ghost@example.com", "secret123")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Token adulterado é rejeitado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewService(mocks.NewMockUserRepository(ctrl), testConfig())

		_, err := service.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestService_GetUserProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().
		GetUserByID(gomock.Any(), 10).
		Return(&domain.User{ID: 10, Name: "Ana", PasswordHash: "hash"}, nil)

	service := NewService(userRepo, testConfig())

	user, err := service.GetUserProfile(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, "Ana", user.Name)
	assert.Empty(t, user.PasswordHash)
}
