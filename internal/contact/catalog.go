package contact

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldType tags how a field's value is rendered and edited.
type FieldType string

const (
	TypeText   FieldType = "text"
	TypeNumber FieldType = "number"
	TypeDate   FieldType = "date"
	TypeSelect FieldType = "select"
	TypeEmail  FieldType = "email"
)

// FieldDef describes one displayable facet of a contact: its canonical
// id, display label, value type and default grid geometry.
type FieldDef struct {
	ID      string    `yaml:"id"`
	Label   string    `yaml:"label"`
	Type    FieldType `yaml:"type"`
	Width   int       `yaml:"width"`
	Visible bool      `yaml:"visible"`
}

//go:embed fields.yaml
var fieldsYAML []byte

var catalog []FieldDef

func init() {
	var seed struct {
		Fields []FieldDef `yaml:"fields"`
	}
	if err := yaml.Unmarshal(fieldsYAML, &seed); err != nil {
		panic(fmt.Sprintf("contact: invalid fields.yaml: %v", err))
	}
	if len(seed.Fields) == 0 {
		panic("contact: fields.yaml defines no fields")
	}
	catalog = seed.Fields
}

// Catalog returns the built-in field definitions in default display
// order. The caller receives a copy and may mutate it freely.
func Catalog() []FieldDef {
	out := make([]FieldDef, len(catalog))
	copy(out, catalog)
	return out
}

// FieldByID looks up a built-in field definition.
func FieldByID(id string) (FieldDef, bool) {
	for _, f := range catalog {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDef{}, false
}

// ImportFields lists the mapping targets offered during import, in the
// order they are presented.
var ImportFields = []string{
	FieldPrenom, FieldNom, FieldSociete, FieldEmail, FieldTelephone,
	FieldAdresse, FieldSiteWeb, FieldLinkedIn, FieldStatut, FieldSource,
	FieldTemperature,
}

// ExportFields is the fixed canonical column order for exports. It is
// deliberately independent of the user's grid column configuration so
// that exported files have a stable shape.
var ExportFields = []string{
	FieldPrenom, FieldNom, FieldSociete, FieldEmail, FieldTelephone,
	FieldAdresse, FieldSiteWeb, FieldLinkedIn, FieldSource, FieldStatut,
	FieldTemperature,
}

// EnumValues returns the allowed values for a select-typed field, or
// nil when the field is free-form.
func EnumValues(field string) []string {
	switch field {
	case FieldStatut:
		return Statuses
	case FieldSource:
		return Sources
	case FieldTemperature:
		return Temperatures
	default:
		return nil
	}
}
