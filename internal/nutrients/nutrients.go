// Package nutrients enumerates the micronutrients tracked on foods and
// supplements and converts between the typed panel and the free-form
// name→amount mapping stored on supplement entries.
package nutrients

import (
	"sort"
	"strings"
)

// Nutrient is a known micronutrient.
type Nutrient int

const (
	Fiber Nutrient = iota + 1
	Sugar
	Sodium
	Cholesterol
	Potassium
	Calcium
	Iron
	Magnesium
	Zinc
	VitaminA
	VitaminC
	VitaminD
	VitaminE
	VitaminK
	VitaminB6
	VitaminB12
	Folate
	Omega3
)

type info struct {
	key   string
	label string
	unit  string
}

var table = map[Nutrient]info{
	Fiber:       {"fiber", "Fiber", "g"},
	Sugar:       {"sugar", "Sugar", "g"},
	Sodium:      {"sodium", "Sodium", "mg"},
	Cholesterol: {"cholesterol", "Cholesterol", "mg"},
	Potassium:   {"potassium", "Potassium", "mg"},
	Calcium:     {"calcium", "Calcium", "mg"},
	Iron:        {"iron", "Iron", "mg"},
	Magnesium:   {"magnesium", "Magnesium", "mg"},
	Zinc:        {"zinc", "Zinc", "mg"},
	VitaminA:    {"vitamin_a", "Vitamin A", "mcg"},
	VitaminC:    {"vitamin_c", "Vitamin C", "mg"},
	VitaminD:    {"vitamin_d", "Vitamin D", "mcg"},
	VitaminE:    {"vitamin_e", "Vitamin E", "mg"},
	VitaminK:    {"vitamin_k", "Vitamin K", "mcg"},
	VitaminB6:   {"vitamin_b6", "Vitamin B6", "mg"},
	VitaminB12:  {"vitamin_b12", "Vitamin B12", "mcg"},
	Folate:      {"folate", "Folate", "mcg"},
	Omega3:      {"omega_3", "Omega-3", "mg"},
}

var byKey = func() map[string]Nutrient {
	m := make(map[string]Nutrient, len(table))
	for n, i := range table {
		m[i.key] = n
	}
	return m
}()

// Key is the stable storage key, e.g. "vitamin_c".
func (n Nutrient) Key() string { return table[n].key }

// Label is the display name.
func (n Nutrient) Label() string { return table[n].label }

// Unit is the canonical unit amounts are expressed in.
func (n Nutrient) Unit() string { return table[n].unit }

func (n Nutrient) String() string { return n.Key() }

// Lookup resolves a storage key or display label (case-insensitive).
func Lookup(name string) (Nutrient, bool) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	n, ok := byKey[norm]
	return n, ok
}

// All returns every known nutrient in declaration order.
func All() []Nutrient {
	out := make([]Nutrient, 0, len(table))
	for n := Fiber; n <= Omega3; n++ {
		out = append(out, n)
	}
	return out
}

// Amount is a quantity of one nutrient.
type Amount struct {
	Nutrient Nutrient
	Value    float64
}

func (a Amount) Unit() string { return a.Nutrient.Unit() }

// Panel holds known nutrients with their amounts plus any names that are not
// in the table. A nutrient missing from Known is undefined, not zero.
type Panel struct {
	Known map[Nutrient]float64
	Other map[string]float64
}

// FromMap converts a free-form mapping into a Panel. Every key lands in
// either Known or Other, so ToMap(FromMap(m)) preserves all amounts.
func FromMap(m map[string]float64) Panel {
	p := Panel{}
	for k, v := range m {
		if n, ok := Lookup(k); ok {
			if p.Known == nil {
				p.Known = make(map[Nutrient]float64)
			}
			p.Known[n] += v
			continue
		}
		if p.Other == nil {
			p.Other = make(map[string]float64)
		}
		p.Other[k] += v
	}
	return p
}

// ToMap flattens the panel using storage keys for known nutrients.
func (p Panel) ToMap() map[string]float64 {
	m := make(map[string]float64, len(p.Known)+len(p.Other))
	for n, v := range p.Known {
		m[n.Key()] = v
	}
	for k, v := range p.Other {
		m[k] = v
	}
	return m
}

// Get reports the amount of n and whether it is defined.
func (p Panel) Get(n Nutrient) (float64, bool) {
	v, ok := p.Known[n]
	return v, ok
}

// Set defines n.
func (p *Panel) Set(n Nutrient, v float64) {
	if p.Known == nil {
		p.Known = make(map[Nutrient]float64)
	}
	p.Known[n] = v
}

func (p Panel) IsEmpty() bool {
	return len(p.Known) == 0 && len(p.Other) == 0
}

// Amounts lists the known amounts in declaration order.
func (p Panel) Amounts() []Amount {
	out := make([]Amount, 0, len(p.Known))
	for _, n := range All() {
		if v, ok := p.Known[n]; ok {
			out = append(out, Amount{Nutrient: n, Value: v})
		}
	}
	return out
}

// Scaled returns a copy with every amount multiplied by factor.
func (p Panel) Scaled(factor float64) Panel {
	out := Panel{}
	for n, v := range p.Known {
		out.Set(n, v*factor)
	}
	for k, v := range p.Other {
		if out.Other == nil {
			out.Other = make(map[string]float64)
		}
		out.Other[k] = v * factor
	}
	return out
}

// Accumulator sums panels. A nutrient appears in the result only if at least
// one added panel defines it.
type Accumulator struct {
	sum Panel
}

func (a *Accumulator) Add(p Panel) {
	for n, v := range p.Known {
		if a.sum.Known == nil {
			a.sum.Known = make(map[Nutrient]float64)
		}
		a.sum.Known[n] += v
	}
	for k, v := range p.Other {
		if a.sum.Other == nil {
			a.sum.Other = make(map[string]float64)
		}
		a.sum.Other[k] += v
	}
}

func (a *Accumulator) Total() Panel {
	return a.sum
}

// OtherKeys returns unknown names in sorted order.
func (p Panel) OtherKeys() []string {
	keys := make([]string, 0, len(p.Other))
	for k := range p.Other {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
