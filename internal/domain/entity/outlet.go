package entity

import "time"

// Outlet representa una sede o cocina de la organización, con catálogo y precios propios.
// Nunca se elimina: se desactiva con Active = false.
type Outlet struct {
	ID             string
	OrganizationID string
	Name           string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
