package grid

import (
	"errors"
	"testing"
)

func testDefinition(id string) Definition {
	return Definition{
		ID:       id,
		Label:    id,
		Source:   Source{Table: id, KeyColumn: "id"},
		Columns:  []DataColumn{{Attribute: "name"}},
		Checkbox: DefaultCheckboxColumn(),
	}
}

func TestRegistry(t *testing.T) {
	Clear()
	defer Clear()

	Register(testDefinition("b"))
	Register(testDefinition("a"))

	if Count() != 2 {
		t.Fatalf("Count() = %d, want 2", Count())
	}

	all := All()
	if all[0].ID != "a" || all[1].ID != "b" {
		t.Errorf("All() order = %s, %s; want a, b", all[0].ID, all[1].ID)
	}

	def, ok := Get("a")
	if !ok || def.ContainerID() != "a-grid" {
		t.Errorf("Get(a) = (%q, %v)", def.ContainerID(), ok)
	}

	if _, err := Lookup("missing"); !errors.Is(err, ErrGridNotFound) {
		t.Errorf("Lookup(missing) error = %v, want ErrGridNotFound", err)
	}
}

func TestRegister_PanicsOnDuplicate(t *testing.T) {
	Clear()
	defer Clear()

	Register(testDefinition("dup"))
	defer func() {
		if recover() == nil {
			t.Error("Register() did not panic on duplicate")
		}
	}()
	Register(testDefinition("dup"))
}

func TestAdd_RejectsInvalidColumn(t *testing.T) {
	Clear()
	defer Clear()

	def := testDefinition("bad")
	def.Checkbox.RowSelectedClass = "not a class"

	err := Add(def)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "rowSelectedClass" {
		t.Errorf("Add() error = %v, want rowSelectedClass ConfigurationError", err)
	}
	if Count() != 0 {
		t.Error("invalid definition was registered")
	}
}

func TestNewCheckboxColumn(t *testing.T) {
	col, err := NewCheckboxColumn(DefaultCheckboxColumn())
	if err != nil || col == nil {
		t.Fatalf("NewCheckboxColumn(defaults) = (%v, %v)", col, err)
	}

	bad := DefaultCheckboxColumn()
	bad.PageSummary = ComputedSummary()
	bad.PageSummaryFunc = "median"
	bad.VAlign = "center"
	_, err = NewCheckboxColumn(bad)
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("NewCheckboxColumn(bad) error = %v, want ErrConfiguration", err)
	}
}
