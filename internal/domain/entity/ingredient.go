package entity

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Allergen identificador estable de un alérgeno (se serializa tal cual en las respuestas).
type Allergen string

const (
	AllergenGluten      Allergen = "gluten"
	AllergenCrustaceans Allergen = "crustaceans"
	AllergenEggs        Allergen = "eggs"
	AllergenFish        Allergen = "fish"
	AllergenPeanuts     Allergen = "peanuts"
	AllergenSoy         Allergen = "soy"
	AllergenDairy       Allergen = "dairy"
	AllergenTreeNuts    Allergen = "tree_nuts"
	AllergenCelery      Allergen = "celery"
	AllergenMustard     Allergen = "mustard"
	AllergenSesame      Allergen = "sesame"
	AllergenSulphites   Allergen = "sulphites"
	AllergenLupin       Allergen = "lupin"
	AllergenMolluscs    Allergen = "molluscs"
)

// AllergenFlags banderas booleanas de alérgenos de un ingrediente canónico.
type AllergenFlags struct {
	Gluten      bool
	Crustaceans bool
	Eggs        bool
	Fish        bool
	Peanuts     bool
	Soy         bool
	Dairy       bool
	TreeNuts    bool
	Celery      bool
	Mustard     bool
	Sesame      bool
	Sulphites   bool
	Lupin       bool
	Molluscs    bool
}

// List devuelve los alérgenos activos ordenados alfabéticamente.
func (f AllergenFlags) List() []Allergen {
	pairs := []struct {
		on bool
		a  Allergen
	}{
		{f.Gluten, AllergenGluten},
		{f.Crustaceans, AllergenCrustaceans},
		{f.Eggs, AllergenEggs},
		{f.Fish, AllergenFish},
		{f.Peanuts, AllergenPeanuts},
		{f.Soy, AllergenSoy},
		{f.Dairy, AllergenDairy},
		{f.TreeNuts, AllergenTreeNuts},
		{f.Celery, AllergenCelery},
		{f.Mustard, AllergenMustard},
		{f.Sesame, AllergenSesame},
		{f.Sulphites, AllergenSulphites},
		{f.Lupin, AllergenLupin},
		{f.Molluscs, AllergenMolluscs},
	}
	out := make([]Allergen, 0, len(pairs))
	for _, p := range pairs {
		if p.on {
			out = append(out, p.a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Union combina dos conjuntos de banderas (cualquier ingrediente con el alérgeno contamina).
func (f AllergenFlags) Union(o AllergenFlags) AllergenFlags {
	return AllergenFlags{
		Gluten:      f.Gluten || o.Gluten,
		Crustaceans: f.Crustaceans || o.Crustaceans,
		Eggs:        f.Eggs || o.Eggs,
		Fish:        f.Fish || o.Fish,
		Peanuts:     f.Peanuts || o.Peanuts,
		Soy:         f.Soy || o.Soy,
		Dairy:       f.Dairy || o.Dairy,
		TreeNuts:    f.TreeNuts || o.TreeNuts,
		Celery:      f.Celery || o.Celery,
		Mustard:     f.Mustard || o.Mustard,
		Sesame:      f.Sesame || o.Sesame,
		Sulphites:   f.Sulphites || o.Sulphites,
		Lupin:       f.Lupin || o.Lupin,
		Molluscs:    f.Molluscs || o.Molluscs,
	}
}

// CanonicalIngredient ingrediente normalizado a nivel organización (ej. "Mantequilla").
// Varios productos de distribuidor de distintos outlets pueden mapear a él.
type CanonicalIngredient struct {
	ID             string
	OrganizationID string
	Name           string
	PreferredUnit  string
	DensityGPerML  *decimal.Decimal // opcional: habilita conversión peso <-> volumen
	Allergens      AllergenFlags
	Vegan          bool
	Vegetarian     bool
}
