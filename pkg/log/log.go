package log

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Fields é um alias para logrus.Fields
type Fields = logrus.Fields

type contextKey string

// CorrelationIDKey é a chave do ID de correlação no contexto
const CorrelationIDKey contextKey = "correlation_id"

const correlationIDField = "correlation_id"

// CorrelationIDHeader é devolvido ao cliente e aceito quando enviado por ele
const CorrelationIDHeader = "X-Correlation-ID"

// IsDevelopment retorna verdadeiro se estamos em ambiente de desenvolvimento
func IsDevelopment() bool {
	env := os.Getenv("APP_ENV")
	return env == "" || env == "development" || env == "dev"
}

// Configure define formato e nível do logger global
func Configure(level string) {
	if IsDevelopment() {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", level)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

// WithCorrelationID adiciona um ID de correlação novo ao contexto
func WithCorrelationID(ctx context.Context) (context.Context, string) {
	return ContextWithCorrelationID(ctx, uuid.New().String())
}

// ContextWithCorrelationID adiciona um ID de correlação conhecido ao contexto
func ContextWithCorrelationID(ctx context.Context, correlationID string) (context.Context, string) {
	return context.WithValue(ctx, CorrelationIDKey, correlationID), correlationID
}

// GetCorrelationID obtém o ID de correlação do contexto
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return correlationID
	}
	return ""
}

// ForContext cria uma entrada de log com o ID de correlação do contexto
func ForContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		return entry.WithField(correlationIDField, correlationID)
	}
	return entry
}
