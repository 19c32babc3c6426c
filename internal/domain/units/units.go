// Package units normaliza cantidades entre unidades de peso, volumen y conteo.
// Tabla estática; las conversiones peso <-> volumen solo son posibles con densidad (g/ml) del ingrediente.
package units

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Family familia de unidades.
type Family string

const (
	Weight Family = "weight" // base: gramo
	Volume Family = "volume" // base: mililitro
	Count  Family = "count"  // base: unidad
)

// Unit unidad conocida: símbolo canónico, familia y factor hacia la unidad base de su familia.
type Unit struct {
	Symbol string
	Family Family
	ToBase decimal.Decimal
}

func u(symbol string, family Family, toBase string) Unit {
	return Unit{Symbol: symbol, Family: family, ToBase: decimal.RequireFromString(toBase)}
}

var (
	gram       = u("g", Weight, "1")
	milligram  = u("mg", Weight, "0.001")
	kilogram   = u("kg", Weight, "1000")
	ounce      = u("oz", Weight, "28.349523125")
	pound      = u("lb", Weight, "453.59237")
	milliliter = u("ml", Volume, "1")
	centiliter = u("cl", Volume, "10")
	deciliter  = u("dl", Volume, "100")
	liter      = u("l", Volume, "1000")
	teaspoon   = u("tsp", Volume, "4.92892159375")
	tablespoon = u("tbsp", Volume, "14.78676478125")
	fluidOunce = u("fl oz", Volume, "29.5735295625")
	cup        = u("cup", Volume, "236.5882365")
	pint       = u("pt", Volume, "473.176473")
	quart      = u("qt", Volume, "946.352946")
	gallon     = u("gal", Volume, "3785.411784")
	each       = u("ea", Count, "1")
	dozen      = u("dz", Count, "12")
)

// aliases nombres aceptados (ya plegados: minúsculas y sin tildes).
var aliases = map[string]Unit{
	"g": gram, "gr": gram, "gram": gram, "gramo": gram, "grams": gram, "gramos": gram,
	"mg": milligram, "milligram": milligram, "miligramo": milligram,
	"kg": kilogram, "kilo": kilogram, "kilogram": kilogram, "kilogramo": kilogram,
	"oz": ounce, "ounce": ounce, "onza": ounce,
	"lb": pound, "pound": pound, "libra": pound, "#": pound,
	"ml": milliliter, "milliliter": milliliter, "millilitre": milliliter, "mililitro": milliliter, "cc": milliliter,
	"cl": centiliter, "centilitro": centiliter,
	"dl": deciliter, "decilitro": deciliter,
	"l": liter, "lt": liter, "liter": liter, "litre": liter, "litro": liter,
	"tsp": teaspoon, "teaspoon": teaspoon, "cucharadita": teaspoon, "cdta": teaspoon,
	"tbsp": tablespoon, "tbs": tablespoon, "tablespoon": tablespoon, "cucharada": tablespoon, "cda": tablespoon,
	"fl oz": fluidOunce, "floz": fluidOunce, "fl. oz": fluidOunce, "fluid ounce": fluidOunce, "onza liquida": fluidOunce,
	"cup": cup, "taza": cup,
	"pt": pint, "pint": pint, "pinta": pint,
	"qt": quart, "quart": quart, "cuarto": quart,
	"gal": gallon, "gallon": gallon, "galon": gallon,
	"ea": each, "each": each, "unit": each, "unidad": each, "un": each, "pc": each, "pcs": each, "piece": each, "pieza": each, "und": each,
	"dz": dozen, "doz": dozen, "dozen": dozen, "docena": dozen,
}

// UnitError error de conversión. Unwrap devuelve ErrUnknownUnit o ErrIncompatibleUnits.
type UnitError struct {
	From   string
	To     string
	Reason error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("no se puede convertir %q a %q: %v", e.From, e.To, e.Reason)
}

func (e *UnitError) Unwrap() error { return e.Reason }

// Fold pasa a minúsculas, elimina tildes y colapsa espacios.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	out = cases.Fold().String(out)
	out = strings.TrimSuffix(out, ".")
	return strings.Join(strings.Fields(out), " ")
}

// Lookup resuelve un nombre de unidad (acepta plurales y nombres en español).
func Lookup(name string) (Unit, bool) {
	key := Fold(name)
	if key == "" {
		return Unit{}, false
	}
	if unit, ok := aliases[key]; ok {
		return unit, true
	}
	if strings.HasSuffix(key, "es") {
		if unit, ok := aliases[strings.TrimSuffix(key, "es")]; ok {
			return unit, true
		}
	}
	if strings.HasSuffix(key, "s") {
		if unit, ok := aliases[strings.TrimSuffix(key, "s")]; ok {
			return unit, true
		}
	}
	return Unit{}, false
}

// Canonical devuelve el símbolo canónico de la unidad, o el nombre original si no se reconoce.
func Canonical(name string) string {
	if unit, ok := Lookup(name); ok {
		return unit.Symbol
	}
	return strings.TrimSpace(name)
}

// Compatible indica si existe camino de conversión entre a y b con la densidad dada.
func Compatible(a, b string, density *decimal.Decimal) bool {
	_, err := Convert(decimal.NewFromInt(1), a, b, density)
	return err == nil
}

// Convert convierte qty de from a to. density (g/ml) solo se usa para cruzar peso y volumen.
// Una unidad fuera de la tabla solo convierte a sí misma.
func Convert(qty decimal.Decimal, from, to string, density *decimal.Decimal) (decimal.Decimal, error) {
	if key := Fold(from); key != "" && key == Fold(to) {
		return qty, nil
	}
	src, ok := Lookup(from)
	if !ok {
		return decimal.Zero, &UnitError{From: from, To: to, Reason: domain.ErrUnknownUnit}
	}
	dst, ok := Lookup(to)
	if !ok {
		return decimal.Zero, &UnitError{From: from, To: to, Reason: domain.ErrUnknownUnit}
	}
	if src.Symbol == dst.Symbol {
		return qty, nil
	}
	if src.Family == dst.Family {
		return qty.Mul(src.ToBase).Div(dst.ToBase), nil
	}

	// Cruce de familias: solo peso <-> volumen y con densidad positiva.
	crossable := (src.Family == Weight && dst.Family == Volume) || (src.Family == Volume && dst.Family == Weight)
	if !crossable || density == nil || !density.IsPositive() {
		return decimal.Zero, &UnitError{From: from, To: to, Reason: domain.ErrIncompatibleUnits}
	}
	base := qty.Mul(src.ToBase)
	if src.Family == Volume {
		// ml -> g
		return base.Mul(*density).Div(dst.ToBase), nil
	}
	// g -> ml
	return base.Div(*density).Div(dst.ToBase), nil
}
