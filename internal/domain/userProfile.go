package domain

import "time"

// UserProfile associa o nome do consultor na planilha a um nome de exibição e foto
type UserProfile struct {
	ID          string    `json:"id"`
	SheetName   string    `json:"sheet_name"`
	DisplayName string    `json:"display_name"`
	PhotoURL    *string   `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserProfileRequest struct {
	SheetName   string  `json:"sheet_name"`
	DisplayName string  `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
}
