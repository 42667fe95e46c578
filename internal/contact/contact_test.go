package contact

import (
	"testing"
	"time"
)

// ============================================================================
// Validation Tests
// ============================================================================

func TestValidate_RequiredFields(t *testing.T) {
	c := &Contact{}
	errs := c.Validate()

	if len(errs) != 2 {
		t.Fatalf("expected 2 validation errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Field != FieldNom {
		t.Errorf("expected first error on %q, got %q", FieldNom, errs[0].Field)
	}
	if errs[1].Field != FieldEmail {
		t.Errorf("expected second error on %q, got %q", FieldEmail, errs[1].Field)
	}
}

func TestValidate_WhitespaceOnlyIsEmpty(t *testing.T) {
	c := &Contact{LastName: "   ", Email: "\t"}
	if errs := c.Validate(); len(errs) != 2 {
		t.Fatalf("expected 2 validation errors for whitespace values, got %d", len(errs))
	}
}

func TestValidate_MinimalValid(t *testing.T) {
	c := &Contact{LastName: "Durand", Email: "a@b.fr"}
	if errs := c.Validate(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestValidate_EnumMembership(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Contact)
		wantErr bool
	}{
		{"valid status", func(c *Contact) { c.Status = "Client" }, false},
		{"invalid status", func(c *Contact) { c.Status = "VIP" }, true},
		{"valid source", func(c *Contact) { c.Source = "Salon" }, false},
		{"invalid source", func(c *Contact) { c.Source = "Twitter" }, true},
		{"valid temperature", func(c *Contact) { c.Temperature = "Chaud" }, false},
		{"invalid temperature", func(c *Contact) { c.Temperature = "Brûlant" }, true},
		{"empty enums pass", func(c *Contact) {}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Contact{LastName: "Durand", Email: "a@b.fr"}
			tt.mutate(c)
			errs := c.Validate()
			if tt.wantErr && len(errs) == 0 {
				t.Error("expected a validation error, got none")
			}
			if !tt.wantErr && len(errs) != 0 {
				t.Errorf("expected no validation errors, got %v", errs)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	c := &Contact{}
	c.ApplyDefaults()

	if c.Status != DefaultStatus {
		t.Errorf("Status = %q, want %q", c.Status, DefaultStatus)
	}
	if c.Source != DefaultSource {
		t.Errorf("Source = %q, want %q", c.Source, DefaultSource)
	}
	if c.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %q, want %q", c.Temperature, DefaultTemperature)
	}

	// Existing values survive
	c2 := &Contact{Status: "Client", Source: "Salon", Temperature: "Chaud"}
	c2.ApplyDefaults()
	if c2.Status != "Client" || c2.Source != "Salon" || c2.Temperature != "Chaud" {
		t.Errorf("ApplyDefaults overwrote set values: %+v", c2)
	}
}

// ============================================================================
// Field Access Tests
// ============================================================================

func TestGet_UnknownField(t *testing.T) {
	c := &Contact{}
	if _, ok := c.Get("custom_1736000000000"); ok {
		t.Error("Get should report false for fields not backed by the record")
	}
}

func TestSet_StringFields(t *testing.T) {
	c := &Contact{}
	if err := c.Set(FieldSociete, "Acme"); err != nil {
		t.Fatalf("Set(societe) error = %v", err)
	}
	if c.Company != "Acme" {
		t.Errorf("Company = %q, want %q", c.Company, "Acme")
	}
}

func TestSet_NumberCoercion(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{"42.5", 42.5},
		{"1000", 1000},
		{"abc", 0},
		{"", 0},
		{3.14, 3.14},
		{7, 7},
		{nil, 0},
	}

	for _, tt := range tests {
		c := &Contact{}
		if err := c.Set(FieldValeurEstimee, tt.in); err != nil {
			t.Fatalf("Set(valeur_estimee, %v) error = %v", tt.in, err)
		}
		if c.EstimatedValue != tt.want {
			t.Errorf("Set(valeur_estimee, %v) = %v, want %v", tt.in, c.EstimatedValue, tt.want)
		}
	}
}

func TestSet_DateCoercion(t *testing.T) {
	c := &Contact{}

	if err := c.Set(FieldDateCloture, "2026-03-15"); err != nil {
		t.Fatalf("Set(date_cloture) error = %v", err)
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !c.CloseDate.Equal(want) {
		t.Errorf("CloseDate = %v, want %v", c.CloseDate, want)
	}

	// Empty string clears the date
	if err := c.Set(FieldDateCloture, ""); err != nil {
		t.Fatalf("Set(date_cloture, \"\") error = %v", err)
	}
	if !c.CloseDate.IsZero() {
		t.Errorf("CloseDate = %v, want zero", c.CloseDate)
	}

	// Malformed dates are rejected
	if err := c.Set(FieldDateCloture, "15/03/2026"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestSet_UnknownField(t *testing.T) {
	c := &Contact{}
	if err := c.Set("nonexistent", "x"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestGetSet_RoundTrip(t *testing.T) {
	c := &Contact{}
	for _, field := range []string{FieldPrenom, FieldNom, FieldEmail, FieldNotes} {
		if err := c.Set(field, "value-"+field); err != nil {
			t.Fatalf("Set(%s) error = %v", field, err)
		}
		v, ok := c.Get(field)
		if !ok {
			t.Fatalf("Get(%s) reported missing", field)
		}
		if v != "value-"+field {
			t.Errorf("Get(%s) = %v, want %q", field, v, "value-"+field)
		}
	}
}
