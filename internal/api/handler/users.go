package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/profiling"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

// ListProfiles retorna os perfis de exibição dos consultores
func ListProfiles(service profiling.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := service.List(r.Context())
		if err != nil {
			writeServiceError(r.Context(), w, err, "Erro ao listar perfis")
			return
		}
		if profiles == nil {
			profiles = []domain.UserProfile{}
		}

		writeJSON(w, http.StatusOK, profiles)
	}
}

func CreateProfile(service profiling.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.UserProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Erro ao decodificar perfil")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		profile, err := service.Create(r.Context(), req)
		if err != nil {
			writeServiceError(r.Context(), w, err, "Erro ao criar perfil")
			return
		}

		writeJSON(w, http.StatusCreated, profile)
	}
}

func UpdateProfile(service profiling.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do perfil não fornecido", nil)
			return
		}

		var req domain.UserProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Erro ao decodificar perfil")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		profile, err := service.Update(r.Context(), id, req)
		if err != nil {
			writeServiceError(r.Context(), w, err, "Erro ao atualizar perfil")
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

// DeleteProfile remove o perfil; as vendas do consultor continuam no ranking
func DeleteProfile(service profiling.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do perfil não fornecido", nil)
			return
		}

		if err := service.Delete(r.Context(), id); err != nil {
			writeServiceError(r.Context(), w, err, "Erro ao excluir perfil")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"message": "Perfil excluído com sucesso"})
	}
}

// GetAvatar redireciona para a URL da foto ou devolve a imagem decodificada da data URL
func GetAvatar(service profiling.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		avatar, err := service.GetAvatar(r.Context(), id)
		if err != nil {
			writeServiceError(r.Context(), w, err, "Erro ao buscar foto")
			return
		}

		if avatar.RedirectURL != "" {
			http.Redirect(w, r, avatar.RedirectURL, http.StatusFound)
			return
		}

		w.Header().Set("Content-Type", avatar.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(avatar.Data)))
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(avatar.Data); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Erro ao enviar foto")
		}
	}
}
