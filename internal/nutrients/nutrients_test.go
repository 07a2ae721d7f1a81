package nutrients

import (
	"reflect"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		in   string
		want Nutrient
		ok   bool
	}{
		{"vitamin_c", VitaminC, true},
		{"Vitamin C", VitaminC, true},
		{"omega-3", Omega3, true},
		{" Sodium ", Sodium, true},
		{"ashwagandha", 0, false},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Lookup(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFromMapToMapIsTotal(t *testing.T) {
	in := map[string]float64{
		"vitamin_c":   500,
		"vitamin_d":   25,
		"ashwagandha": 300,
	}
	p := FromMap(in)
	if v, ok := p.Get(VitaminC); !ok || v != 500 {
		t.Fatalf("expected vitamin C 500, got %v (%v)", v, ok)
	}
	if p.Other["ashwagandha"] != 300 {
		t.Fatalf("expected unknown nutrient preserved, got %v", p.Other)
	}
	if out := p.ToMap(); !reflect.DeepEqual(out, in) {
		t.Fatalf("expected %v, got %v", in, out)
	}
}

func TestAccumulatorOnlyDefinedNutrients(t *testing.T) {
	var a Accumulator
	var p1, p2 Panel
	p1.Set(Fiber, 4)
	p2.Set(Fiber, 2)
	p2.Set(Sodium, 300)
	a.Add(p1)
	a.Add(p2)
	a.Add(Panel{})

	total := a.Total()
	if v, _ := total.Get(Fiber); v != 6 {
		t.Errorf("expected fiber 6, got %v", v)
	}
	if v, _ := total.Get(Sodium); v != 300 {
		t.Errorf("expected sodium 300, got %v", v)
	}
	if _, ok := total.Get(Sugar); ok {
		t.Error("sugar should be undefined")
	}
}

func TestScaledAndAmounts(t *testing.T) {
	var p Panel
	p.Set(Iron, 2)
	p.Set(Calcium, 100)
	s := p.Scaled(1.5)

	amounts := s.Amounts()
	if len(amounts) != 2 || amounts[0].Nutrient != Calcium || amounts[1].Nutrient != Iron {
		t.Fatalf("unexpected order %+v", amounts)
	}
	if amounts[0].Value != 150 || amounts[0].Unit() != "mg" {
		t.Errorf("unexpected calcium %+v", amounts[0])
	}
}
