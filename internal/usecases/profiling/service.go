// Package profiling mantém os perfis de exibição dos consultores e serve as fotos.
package profiling

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-ranking-api/infrastructure/repository"
	"github.com/vfg2006/sales-ranking-api/internal/audit"
	"github.com/vfg2006/sales-ranking-api/internal/cache"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
	"github.com/vfg2006/sales-ranking-api/pkg/utils"
)

const maxTextLength = 500

type ProfileService interface {
	List(ctx context.Context) ([]domain.UserProfile, error)
	Create(ctx context.Context, req domain.UserProfileRequest) (*domain.UserProfile, error)
	Update(ctx context.Context, id string, req domain.UserProfileRequest) (*domain.UserProfile, error)
	Delete(ctx context.Context, id string) error
	GetAvatar(ctx context.Context, id string) (*Avatar, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, action string, details map[string]any)
}

// Avatar é a foto de um perfil: ou um redirecionamento para URL externa,
// ou os bytes decodificados de uma data URL.
type Avatar struct {
	RedirectURL string
	ContentType string
	Data        []byte
}

type Service struct {
	profileRepository repository.ProfileRepository
	cache             *cache.Tagged
	audit             AuditRecorder
}

func NewService(profileRepository repository.ProfileRepository, readCache *cache.Tagged, recorder AuditRecorder) *Service {
	return &Service{
		profileRepository: profileRepository,
		cache:             readCache,
		audit:             recorder,
	}
}

// sanitizeInput remove espaços nas pontas, caracteres de marcação e limita o tamanho
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '{', '}':
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	if utf8.RuneCountInString(s) > maxTextLength {
		s = string([]rune(s)[:maxTextLength])
	}
	return strings.TrimSpace(s)
}

func (s *Service) validate(req domain.UserProfileRequest) (*domain.UserProfile, error) {
	profile := &domain.UserProfile{
		SheetName:   sanitizeInput(req.SheetName),
		DisplayName: sanitizeInput(req.DisplayName),
	}

	if profile.SheetName == "" {
		return nil, NewProfileError(ErrSheetNameRequired, apiErrors.ErrMissingRequiredData, "")
	}
	if profile.DisplayName == "" {
		return nil, NewProfileError(ErrDisplayNameRequired, apiErrors.ErrMissingRequiredData, "")
	}

	photo, err := normalizePhoto(req.PhotoURL)
	if err != nil {
		return nil, NewProfileError(err, apiErrors.ErrInvalidFormat, "")
	}
	profile.PhotoURL = photo

	return profile, nil
}

func (s *Service) List(ctx context.Context) ([]domain.UserProfile, error) {
	profiles, err := s.profileRepository.List(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar perfis")
		return nil, NewProfileError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "")
	}
	return profiles, nil
}

func (s *Service) Create(ctx context.Context, req domain.UserProfileRequest) (*domain.UserProfile, error) {
	profile, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	if err := s.ensureSheetNameAvailable(ctx, profile.SheetName, ""); err != nil {
		return nil, err
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, NewProfileError(ErrGenerateID, apiErrors.ErrInternalServer, err.Error())
	}
	profile.ID = id

	if err := s.profileRepository.Create(ctx, profile); err != nil {
		return nil, s.persistenceError(ctx, err, profile)
	}

	s.afterWrite(ctx, audit.ActionProfileSaved, profile)
	return profile, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UserProfileRequest) (*domain.UserProfile, error) {
	existing, err := s.profileRepository.GetByID(ctx, id)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar perfil")
		return nil, NewProfileErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, id, "")
	}
	if existing == nil {
		return nil, NewProfileErrorWithID(ErrProfileNotFound, apiErrors.ErrNotFound, id, "")
	}

	profile, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	profile.ID = id

	if err := s.ensureSheetNameAvailable(ctx, profile.SheetName, id); err != nil {
		return nil, err
	}

	if err := s.profileRepository.Update(ctx, profile); err != nil {
		return nil, s.persistenceError(ctx, err, profile)
	}

	s.afterWrite(ctx, audit.ActionProfileSaved, profile)
	return profile, nil
}

// Delete remove apenas o mapeamento de exibição; as vendas do consultor não mudam
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.profileRepository.Delete(ctx, id)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao excluir perfil")
		return NewProfileErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, id, "")
	}
	if !deleted {
		return NewProfileErrorWithID(ErrProfileNotFound, apiErrors.ErrNotFound, id, "")
	}

	s.afterWrite(ctx, audit.ActionProfileDelete, &domain.UserProfile{ID: id})
	return nil
}

func (s *Service) GetAvatar(ctx context.Context, id string) (*Avatar, error) {
	profile, err := s.profileRepository.GetByID(ctx, id)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar perfil do avatar")
		return nil, NewProfileErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, id, "")
	}
	if profile == nil || profile.PhotoURL == nil || *profile.PhotoURL == "" {
		return nil, NewProfileErrorWithID(ErrAvatarNotFound, apiErrors.ErrNotFound, id, "")
	}

	photo := *profile.PhotoURL
	if !IsDataURL(photo) {
		return &Avatar{RedirectURL: photo}, nil
	}

	contentType, data, err := DecodeDataURL(photo)
	if err != nil {
		log.ForContext(ctx).WithField("profile_id", id).WithError(err).Warn("Foto gravada em formato inválido")
		return nil, NewProfileErrorWithID(ErrAvatarNotFound, apiErrors.ErrNotFound, id, "")
	}

	return &Avatar{ContentType: contentType, Data: data}, nil
}

func (s *Service) ensureSheetNameAvailable(ctx context.Context, sheetName, excludeID string) error {
	exists, err := s.profileRepository.SheetNameExists(ctx, sheetName, excludeID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao verificar nome na planilha")
		return NewProfileError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "")
	}
	if exists {
		return NewProfileError(ErrSheetNameTaken, apiErrors.ErrAlreadyExists, sheetName)
	}
	return nil
}

func (s *Service) persistenceError(ctx context.Context, err error, profile *domain.UserProfile) error {
	if errors.Is(err, repository.ErrProfileSheetNameTaken) {
		return NewProfileErrorWithID(ErrSheetNameTaken, apiErrors.ErrAlreadyExists, profile.ID, profile.SheetName)
	}
	if errors.Is(err, repository.ErrProfileGone) || errors.Is(err, sql.ErrNoRows) {
		return NewProfileErrorWithID(ErrProfileNotFound, apiErrors.ErrNotFound, profile.ID, "")
	}

	log.ForContext(ctx).WithFields(logrus.Fields{
		"profile_id": profile.ID,
	}).WithError(err).Error("Erro ao gravar perfil")
	return NewProfileErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, profile.ID, "")
}

func (s *Service) afterWrite(ctx context.Context, action string, profile *domain.UserProfile) {
	s.cache.Invalidate(cache.TagProfiles)

	if s.audit != nil {
		details := map[string]any{"profile_id": profile.ID}
		if profile.SheetName != "" {
			details["sheet_name"] = profile.SheetName
		}
		s.audit.Record(ctx, action, details)
	}
}
