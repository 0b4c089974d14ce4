package composer

import (
	"errors"
	"testing"
)

func TestResolveAttributePriceLastSelectionWins(t *testing.T) {
	selections := []AttributeSelection{
		{Name: "B", Price: money(90000)},
		{Name: "A", Price: money(70000)},
	}
	assertMoney(t, "resolved", ResolveAttributePrice(money(50000), selections), 70000)
	assertMoney(t, "empty", ResolveAttributePrice(money(50000), nil), 50000)
}

func TestAttributePickerToggleOnOff(t *testing.T) {
	picker := NewAttributePicker(sampleProduct(), nil)

	selected, err := picker.Toggle("A")
	if err != nil || !selected {
		t.Fatalf("toggle on failed: selected=%v err=%v", selected, err)
	}
	assertMoney(t, "after A", picker.EffectivePrice(), 70000)

	selected, err = picker.Toggle("A")
	if err != nil || selected {
		t.Fatalf("toggle off failed: selected=%v err=%v", selected, err)
	}
	assertMoney(t, "after removing A", picker.EffectivePrice(), 50000)
	if len(picker.Selections()) != 0 {
		t.Fatalf("expected empty selections, got %+v", picker.Selections())
	}
}

func TestAttributePickerUnknownOption(t *testing.T) {
	picker := NewAttributePicker(sampleProduct(), nil)
	if _, err := picker.Toggle("Z"); !errors.Is(err, ErrAttributeNotFound) {
		t.Fatalf("expected ErrAttributeNotFound, got %v", err)
	}
	assertMoney(t, "unchanged", picker.EffectivePrice(), 50000)
}

func TestAttributePickerRemovingEarlierKeepsLatest(t *testing.T) {
	picker := NewAttributePicker(sampleProduct(), nil)
	_, _ = picker.Toggle("A")
	_, _ = picker.Toggle("B")
	_, _ = picker.Toggle("A")
	assertMoney(t, "B remains", picker.EffectivePrice(), 90000)
	if got := picker.Selections(); len(got) != 1 || got[0].Name != "B" {
		t.Fatalf("unexpected selections: %+v", got)
	}
}

func TestCatalogItemValidate(t *testing.T) {
	if err := sampleProduct().Validate(); err != nil {
		t.Fatalf("valid product rejected: %v", err)
	}
	cases := map[string]CatalogItem{
		"missing id":       {Name: "x", BasePrice: money(1)},
		"missing name":     {ID: "x", BasePrice: money(1)},
		"negative price":   {ID: "x", Name: "x", BasePrice: money(-1)},
		"blank option":     {ID: "x", Name: "x", AttributeOptions: []AttributeOption{{Name: " "}}},
		"duplicate option": {ID: "x", Name: "x", AttributeOptions: []AttributeOption{{Name: "A"}, {Name: "A"}}},
	}
	for name, item := range cases {
		if err := item.Validate(); !errors.Is(err, ErrInvalidCatalogItem) {
			t.Fatalf("%s: expected ErrInvalidCatalogItem, got %v", name, err)
		}
	}
}
