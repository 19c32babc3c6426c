package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Errores de costeo recuperables a nivel de línea (se convierten en advertencias).
	ErrNoPriceFound      = errors.New("sin precio en el outlet")
	ErrIncompatibleUnits = errors.New("unidades incompatibles")
	ErrUnknownUnit       = errors.New("unidad desconocida")

	// Errores estructurales: abortan el cálculo completo.
	ErrCyclicRecipe       = errors.New("receta cíclica")
	ErrInvalidYield       = errors.New("rendimiento inválido")
	ErrAmbiguousReference = errors.New("referencia ambigua")
	ErrRecursionTooDeep   = errors.New("profundidad de sub-recetas excedida")
)

// NoPriceFoundError indica que un ingrediente (o producto) no tiene precio resoluble en el outlet.
type NoPriceFoundError struct {
	CanonicalIngredientID string
	DistributorProductID  string
	OutletID              string
}

func (e *NoPriceFoundError) Error() string {
	if e.DistributorProductID != "" {
		return fmt.Sprintf("producto %s sin precio en outlet %s", e.DistributorProductID, e.OutletID)
	}
	return fmt.Sprintf("ingrediente %s sin precio en outlet %s", e.CanonicalIngredientID, e.OutletID)
}

func (e *NoPriceFoundError) Unwrap() error { return ErrNoPriceFound }

// CyclicRecipeError lleva la cadena de recetas que cierra el ciclo (la última repite una anterior).
type CyclicRecipeError struct {
	Chain []string
}

func (e *CyclicRecipeError) Error() string {
	return "receta cíclica: " + strings.Join(e.Chain, " -> ")
}

func (e *CyclicRecipeError) Unwrap() error { return ErrCyclicRecipe }

// InvalidYieldError rendimiento de receta <= 0 o cantidad de invitados <= 0.
type InvalidYieldError struct {
	Entity string // "recipe" | "menu"
	ID     string
	Value  string
}

func (e *InvalidYieldError) Error() string {
	if e.Entity == "menu" {
		return fmt.Sprintf("cantidad de invitados inválida para menú %s: %s (debe ser > 0)", e.ID, e.Value)
	}
	return fmt.Sprintf("rendimiento inválido para receta %s: %s (debe ser > 0)", e.ID, e.Value)
}

func (e *InvalidYieldError) Unwrap() error { return ErrInvalidYield }

// AmbiguousReferenceError línea de receta o prep item con cero o más de una referencia.
type AmbiguousReferenceError struct {
	Entity   string // "recipe_ingredient" | "prep_item"
	ID       string
	ParentID string
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("referencia ambigua en %s %s (contenedor %s)", e.Entity, e.ID, e.ParentID)
}

func (e *AmbiguousReferenceError) Unwrap() error { return ErrAmbiguousReference }

// RecursionDepthError el grafo de sub-recetas supera el límite de profundidad configurado.
type RecursionDepthError struct {
	Limit int
	Chain []string
}

func (e *RecursionDepthError) Error() string {
	return fmt.Sprintf("profundidad de sub-recetas mayor a %d: %s", e.Limit, strings.Join(e.Chain, " -> "))
}

func (e *RecursionDepthError) Unwrap() error { return ErrRecursionTooDeep }

// IsStructural indica si el error debe abortar el cálculo completo (ciclos, rendimientos, referencias, profundidad).
func IsStructural(err error) bool {
	return errors.Is(err, ErrCyclicRecipe) ||
		errors.Is(err, ErrInvalidYield) ||
		errors.Is(err, ErrAmbiguousReference) ||
		errors.Is(err, ErrRecursionTooDeep)
}
