package capability

import (
	"encoding/json"
	"strings"
	"testing"
)

func flightDescriptor() Descriptor {
	return Descriptor{
		Name:        "search_flights",
		Description: "Search for flights to a destination",
		Parameters: ObjectSchema(map[string]any{
			"destination": map[string]any{"type": "string"},
			"max_price":   map[string]any{"type": "number"},
		}, "destination"),
	}
}

func TestValidateArgsAcceptsValidPayload(t *testing.T) {
	d := flightDescriptor()
	if err := d.ValidateArgs(json.RawMessage(`{"destination":"Madrid","max_price":900}`)); err != nil {
		t.Fatalf("valid args rejected: %v", err)
	}
}

func TestValidateArgsRejectsMissingRequired(t *testing.T) {
	d := flightDescriptor()
	err := d.ValidateArgs(json.RawMessage(`{"max_price":900}`))
	if err == nil {
		t.Fatalf("missing destination should fail validation")
	}
	if !strings.Contains(err.Error(), "search_flights") {
		t.Fatalf("error should name the capability: %v", err)
	}
}

func TestValidateArgsRejectsWrongType(t *testing.T) {
	d := flightDescriptor()
	if err := d.ValidateArgs(json.RawMessage(`{"destination":"Madrid","max_price":"cheap"}`)); err == nil {
		t.Fatalf("string max_price should fail validation")
	}
}

func TestValidateArgsEmptyPayload(t *testing.T) {
	d := Descriptor{Name: "noop", Parameters: ObjectSchema(map[string]any{})}
	if err := d.ValidateArgs(nil); err != nil {
		t.Fatalf("empty payload against empty schema: %v", err)
	}
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog(flightDescriptor(), flightDescriptor())
	if err == nil {
		t.Fatalf("duplicate names should be rejected")
	}
}

func TestCatalogPreservesOrder(t *testing.T) {
	a := Descriptor{Name: "a"}
	b := Descriptor{Name: "b"}
	c := Descriptor{Name: "c"}
	cat, err := NewCatalog(b, a, c)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	names := cat.Names()
	if len(names) != 3 || names[0] != "b" || names[1] != "a" || names[2] != "c" {
		t.Fatalf("order not preserved: %v", names)
	}
	if _, ok := cat.Get("a"); !ok {
		t.Fatalf("lookup by name failed")
	}
}
