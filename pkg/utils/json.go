package utils

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON serializa a resposta com o status informado
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

// PrettyJSON formata um valor para logs de depuração
func PrettyJSON(in any) string {
	buffer, err := json.MarshalIndent(in, "", "\t")
	if err != nil {
		return ""
	}
	return string(buffer)
}
