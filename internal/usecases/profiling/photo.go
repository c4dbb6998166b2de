package profiling

import (
	"encoding/base64"
	"net/url"
	"strings"
)

const (
	// MaxPhotoBytes limita o tamanho da imagem decodificada
	MaxPhotoBytes = 2 << 20

	dataURLPrefix = "data:"
	base64Marker  = ";base64,"
)

// IsDataURL indica se a foto está gravada inline em vez de uma URL externa
func IsDataURL(photo string) bool {
	return strings.HasPrefix(photo, dataURLPrefix)
}

// DecodeDataURL extrai tipo e bytes de "data:image/png;base64,...."
func DecodeDataURL(photo string) (string, []byte, error) {
	if !IsDataURL(photo) {
		return "", nil, ErrInvalidPhoto
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(photo, dataURLPrefix), base64Marker)
	if !ok {
		return "", nil, ErrInvalidPhoto
	}

	contentType := strings.ToLower(strings.TrimSpace(header))
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, ErrInvalidPhoto
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxPhotoBytes+3 {
		return "", nil, ErrPhotoTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrInvalidPhoto
	}
	if len(data) > MaxPhotoBytes {
		return "", nil, ErrPhotoTooLarge
	}

	return contentType, data, nil
}

// normalizePhoto devolve nil para foto vazia e valida URLs e data URLs
func normalizePhoto(photo *string) (*string, error) {
	if photo == nil {
		return nil, nil
	}

	value := strings.TrimSpace(*photo)
	if value == "" {
		return nil, nil
	}

	if IsDataURL(value) {
		if _, _, err := DecodeDataURL(value); err != nil {
			return nil, err
		}
		return &value, nil
	}

	parsed, err := url.Parse(value)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, ErrInvalidPhoto
	}

	return &value, nil
}
