package profiling

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-ranking-api/infrastructure/repository"
	"github.com/vfg2006/sales-ranking-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-ranking-api/internal/audit"
	"github.com/vfg2006/sales-ranking-api/internal/cache"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func strPtr(s string) *string {
	return &s
}

var pngDataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG fake"))

func newService(t *testing.T) (*Service, *mocks.MockProfileRepository, *cache.Tagged, *audit.Trail) {
	ctrl := gomock.NewController(t)
	profileRepository := mocks.NewMockProfileRepository(ctrl)
	readCache := cache.New(16, time.Minute)
	trail := audit.NewTrail(10)

	return NewService(profileRepository, readCache, trail), profileRepository, readCache, trail
}

func assertProfileError(t *testing.T, err error, want error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, want)

	var profileErr *ProfileError
	require.True(t, errors.As(err, &profileErr))
	assert.Equal(t, code, profileErr.Code)
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Remove espaços", input: "  Maria  ", want: "Maria"},
		{name: "Remove marcação", input: "<script>Ana</script>{x}", want: "scriptAna/scriptx"},
		{name: "Limita tamanho", input: strings.Repeat("á", 600), want: strings.Repeat("á", maxTextLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeInput(tt.input))
		})
	}
}

func TestNormalizePhoto(t *testing.T) {
	tests := []struct {
		name    string
		photo   *string
		want    *string
		wantErr error
	}{
		{name: "Sem foto", photo: nil, want: nil},
		{name: "Foto vazia", photo: strPtr("  "), want: nil},
		{name: "URL https", photo: strPtr(" https://cdn.exemplo.com/a.png "), want: strPtr("https://cdn.exemplo.com/a.png")},
		{name: "Data URL", photo: strPtr(pngDataURL), want: strPtr(pngDataURL)},
		{name: "Esquema inválido", photo: strPtr("ftp://exemplo.com/a.png"), wantErr: ErrInvalidPhoto},
		{name: "Texto qualquer", photo: strPtr("foto.png"), wantErr: ErrInvalidPhoto},
		{name: "Data URL que não é imagem", photo: strPtr("data:text/plain;base64,YWJj"), wantErr: ErrInvalidPhoto},
		{name: "Base64 inválido", photo: strPtr("data:image/png;base64,@@@"), wantErr: ErrInvalidPhoto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizePhoto(tt.photo)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.UserProfileRequest
		setup    func(profileRepository *mocks.MockProfileRepository)
		wantErr  error
		wantCode string
	}{
		{
			name: "Perfil válido",
			req:  domain.UserProfileRequest{SheetName: " Maria Silva ", DisplayName: "Maria", PhotoURL: strPtr(pngDataURL)},
			setup: func(profileRepository *mocks.MockProfileRepository) {
				profileRepository.EXPECT().SheetNameExists(gomock.Any(), "Maria Silva", "").Return(false, nil)
				profileRepository.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:     "Nome na planilha ausente",
			req:      domain.UserProfileRequest{DisplayName: "Maria"},
			setup:    func(*mocks.MockProfileRepository) {},
			wantErr:  ErrSheetNameRequired,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "Nome de exibição só com marcação",
			req:      domain.UserProfileRequest{SheetName: "Maria", DisplayName: "<>"},
			setup:    func(*mocks.MockProfileRepository) {},
			wantErr:  ErrDisplayNameRequired,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "Foto inválida",
			req:      domain.UserProfileRequest{SheetName: "Maria", DisplayName: "Maria", PhotoURL: strPtr("foto.png")},
			setup:    func(*mocks.MockProfileRepository) {},
			wantErr:  ErrInvalidPhoto,
			wantCode: apiErrors.ErrInvalidFormat,
		},
		{
			name: "Nome na planilha já usado, sem diferenciar maiúsculas",
			req:  domain.UserProfileRequest{SheetName: "MARIA", DisplayName: "Maria"},
			setup: func(profileRepository *mocks.MockProfileRepository) {
				profileRepository.EXPECT().SheetNameExists(gomock.Any(), "MARIA", "").Return(true, nil)
			},
			wantErr:  ErrSheetNameTaken,
			wantCode: apiErrors.ErrAlreadyExists,
		},
		{
			name: "Conflito detectado pelo índice único",
			req:  domain.UserProfileRequest{SheetName: "Maria", DisplayName: "Maria"},
			setup: func(profileRepository *mocks.MockProfileRepository) {
				profileRepository.EXPECT().SheetNameExists(gomock.Any(), "Maria", "").Return(false, nil)
				profileRepository.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repository.ErrProfileSheetNameTaken)
			},
			wantErr:  ErrSheetNameTaken,
			wantCode: apiErrors.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, profileRepository, _, trail := newService(t)
			tt.setup(profileRepository)

			profile, err := service.Create(context.Background(), tt.req)

			if tt.wantErr != nil {
				assertProfileError(t, err, tt.wantErr, tt.wantCode)
				assert.Empty(t, trail.Entries(0))
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, profile.ID)
			assert.Equal(t, "Maria Silva", profile.SheetName)
			require.Len(t, trail.Entries(0), 1)
			assert.Equal(t, audit.ActionProfileSaved, trail.Entries(0)[0].Action)
		})
	}
}

func TestCreate_InvalidaCacheDePerfis(t *testing.T) {
	service, profileRepository, readCache, _ := newService(t)
	readCache.Set(cache.TagProfiles, "by-sheet-name", "valor")

	profileRepository.EXPECT().SheetNameExists(gomock.Any(), "Ana", "").Return(false, nil)
	profileRepository.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	_, err := service.Create(context.Background(), domain.UserProfileRequest{SheetName: "Ana", DisplayName: "Ana"})
	require.NoError(t, err)

	_, cached := readCache.Get(cache.TagProfiles, "by-sheet-name")
	assert.False(t, cached)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(profileRepository *mocks.MockProfileRepository)
		wantErr  error
		wantCode string
	}{
		{
			name: "Atualiza perfil existente",
			setup: func(profileRepository *mocks.MockProfileRepository) {
				profileRepository.EXPECT().GetByID(gomock.Any(), "p1").Return(&domain.UserProfile{ID: "p1", SheetName: "Ana"}, nil)
				profileRepository.EXPECT().SheetNameExists(gomock.Any(), "Ana", "p1").Return(false, nil)
				profileRepository.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, profile *domain.UserProfile) error {
						assert.Equal(t, "p1", profile.ID)
						assert.Equal(t, "Ana Paula", profile.DisplayName)
						return nil
					})
			},
		},
		{
			name: "Perfil inexistente",
			setup: func(profileRepository *mocks.MockProfileRepository) {
				profileRepository.EXPECT().GetByID(gomock.Any(), "p1").Return(nil, nil)
			},
			wantErr:  ErrProfileNotFound,
			wantCode: apiErrors.ErrNotFound,
		},
		{
			name: "Perfil excluído antes da gravação",
			setup: func(profileRepository *mocks.MockProfileRepository) {
				profileRepository.EXPECT().GetByID(gomock.Any(), "p1").Return(&domain.UserProfile{ID: "p1", SheetName: "Ana"}, nil)
				profileRepository.EXPECT().SheetNameExists(gomock.Any(), "Ana", "p1").Return(false, nil)
				profileRepository.EXPECT().Update(gomock.Any(), gomock.Any()).Return(repository.ErrProfileGone)
			},
			wantErr:  ErrProfileNotFound,
			wantCode: apiErrors.ErrNotFound,
		},
		{
			name: "Nome usado por outro perfil",
			setup: func(profileRepository *mocks.MockProfileRepository) {
				profileRepository.EXPECT().GetByID(gomock.Any(), "p1").Return(&domain.UserProfile{ID: "p1"}, nil)
				profileRepository.EXPECT().SheetNameExists(gomock.Any(), "Ana", "p1").Return(true, nil)
			},
			wantErr:  ErrSheetNameTaken,
			wantCode: apiErrors.ErrAlreadyExists,
		},
		{
			name: "Erro de banco",
			setup: func(profileRepository *mocks.MockProfileRepository) {
				profileRepository.EXPECT().GetByID(gomock.Any(), "p1").Return(nil, errors.New("timeout"))
			},
			wantErr:  ErrDatabaseOperation,
			wantCode: apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, profileRepository, _, _ := newService(t)
			tt.setup(profileRepository)

			profile, err := service.Update(context.Background(), "p1", domain.UserProfileRequest{SheetName: "Ana", DisplayName: "Ana Paula"})

			if tt.wantErr != nil {
				assertProfileError(t, err, tt.wantErr, tt.wantCode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "p1", profile.ID)
		})
	}
}

func TestDelete(t *testing.T) {
	service, profileRepository, _, trail := newService(t)

	profileRepository.EXPECT().Delete(gomock.Any(), "p1").Return(true, nil)
	profileRepository.EXPECT().Delete(gomock.Any(), "p2").Return(false, nil)

	require.NoError(t, service.Delete(context.Background(), "p1"))
	assertProfileError(t, service.Delete(context.Background(), "p2"), ErrProfileNotFound, apiErrors.ErrNotFound)

	entries := trail.Entries(0)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionProfileDelete, entries[0].Action)
}

func TestGetAvatar(t *testing.T) {
	tests := []struct {
		name     string
		profile  *domain.UserProfile
		validate func(t *testing.T, avatar *Avatar, err error)
	}{
		{
			name:    "URL externa redireciona",
			profile: &domain.UserProfile{ID: "p1", PhotoURL: strPtr("https://cdn.exemplo.com/a.png")},
			validate: func(t *testing.T, avatar *Avatar, err error) {
				require.NoError(t, err)
				assert.Equal(t, "https://cdn.exemplo.com/a.png", avatar.RedirectURL)
				assert.Nil(t, avatar.Data)
			},
		},
		{
			name:    "Data URL devolve bytes",
			profile: &domain.UserProfile{ID: "p1", PhotoURL: strPtr(pngDataURL)},
			validate: func(t *testing.T, avatar *Avatar, err error) {
				require.NoError(t, err)
				assert.Empty(t, avatar.RedirectURL)
				assert.Equal(t, "image/png", avatar.ContentType)
				assert.Equal(t, []byte("\x89PNG fake"), avatar.Data)
			},
		},
		{
			name:    "Perfil sem foto",
			profile: &domain.UserProfile{ID: "p1"},
			validate: func(t *testing.T, avatar *Avatar, err error) {
				assertProfileError(t, err, ErrAvatarNotFound, apiErrors.ErrNotFound)
			},
		},
		{
			name:    "Perfil inexistente",
			profile: nil,
			validate: func(t *testing.T, avatar *Avatar, err error) {
				assertProfileError(t, err, ErrAvatarNotFound, apiErrors.ErrNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, profileRepository, _, _ := newService(t)
			profileRepository.EXPECT().GetByID(gomock.Any(), "p1").Return(tt.profile, nil)

			avatar, err := service.GetAvatar(context.Background(), "p1")
			tt.validate(t, avatar, err)
		})
	}
}
