package domain

// IngestionReport é a resposta do webhook para um lote processado
type IngestionReport struct {
	TotalReceived    int             `json:"total_received"`
	Succeeded        int             `json:"succeeded"`
	Failed           int             `json:"failed"`
	Created          int             `json:"created"`
	Updated          int             `json:"updated"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
	FailureDetails   []FailureDetail `json:"failure_details"`
}

// FailureDetail descreve um item rejeitado: índice no lote, campo e registro original
type FailureDetail struct {
	Index   int            `json:"index"`
	Field   string         `json:"field"`
	Message string         `json:"message"`
	Errors  []FieldError   `json:"errors,omitempty"`
	Record  map[string]any `json:"record"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
