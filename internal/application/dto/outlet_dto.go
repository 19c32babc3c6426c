package dto

import "time"

// OutletResponse outlet visible para la organización del token.
type OutletResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// OutletListResponse respuesta de GET /api/outlets.
type OutletListResponse struct {
	Items []OutletResponse `json:"items"`
}
