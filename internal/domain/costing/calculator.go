package costing

import (
	"time"

	"github.com/jhoicas/costeo-api/internal/domain"
)

// DefaultMaxDepth límite de anidamiento de sub-recetas cuando no se configura otro.
const DefaultMaxDepth = 50

var zeroTime time.Time

// Calculator motor de costeo. Sin estado mutable: una instancia sirve peticiones concurrentes.
type Calculator struct {
	maxDepth int
}

// NewCalculator construye el motor. maxDepth <= 0 usa DefaultMaxDepth.
func NewCalculator(maxDepth int) *Calculator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Calculator{maxDepth: maxDepth}
}

// MaxDepth límite de profundidad configurado.
func (c *Calculator) MaxDepth() int { return c.maxDepth }

// enter valida profundidad y ciclo antes de bajar a recipeID y devuelve la nueva ruta.
// path es la pila de la llamada actual (no se comparte entre peticiones).
func (c *Calculator) enter(path []string, recipeID string) ([]string, error) {
	for _, id := range path {
		if id == recipeID {
			return nil, &domain.CyclicRecipeError{Chain: extend(path, recipeID)}
		}
	}
	if len(path) >= c.maxDepth {
		return nil, &domain.RecursionDepthError{Limit: c.maxDepth, Chain: extend(path, recipeID)}
	}
	return extend(path, recipeID), nil
}

// fits verifica que un subárbol ya calculado de altura height no exceda el límite desde path.
func (c *Calculator) fits(path []string, recipeID string, height int) error {
	if len(path)+height > c.maxDepth {
		return &domain.RecursionDepthError{Limit: c.maxDepth, Chain: extend(path, recipeID)}
	}
	return nil
}

// extend copia la ruta: cada rama de la recursión conserva su propia historia.
func extend(path []string, id string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, id)
}
