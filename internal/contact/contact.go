// Package contact defines the CRM contact record, its field catalog and
// the enumerated classification values shared by the grid, the
// import/export pipeline and the store. It has no UI or database
// dependencies.
package contact

import (
	"fmt"
	"strings"
	"time"
)

// Canonical field identifiers. These are the wire names used for JSON,
// database columns, import mapping targets and export headers.
const (
	FieldPrenom          = "prenom"
	FieldNom             = "nom"
	FieldSociete         = "societe"
	FieldEmail           = "email"
	FieldTelephone       = "telephone"
	FieldFonction        = "fonction"
	FieldAdresse         = "adresse"
	FieldSiteWeb         = "site_web"
	FieldLinkedIn        = "linkedin"
	FieldStatut          = "statut"
	FieldSource          = "source"
	FieldTemperature     = "temperature"
	FieldValeurEstimee   = "valeur_estimee"
	FieldProbabilite     = "probabilite"
	FieldDateCloture     = "date_cloture"
	FieldDerniereInterac = "derniere_interaction"
	FieldNotes           = "notes"
)

// Pipeline status values, in funnel order.
var Statuses = []string{
	"Prospect", "Contacté", "Qualifié", "Proposition", "Négociation", "Client", "Perdu",
}

// Acquisition channel values.
var Sources = []string{
	"Site web", "Référence", "LinkedIn", "Salon", "Publicité", "Autre",
}

// Priority tiers.
var Temperatures = []string{"Chaud", "Tiède", "Froid"}

// Defaults applied when a field is left unspecified.
const (
	DefaultStatus      = "Prospect"
	DefaultSource      = "Autre"
	DefaultTemperature = "Tiède"
)

// Contact is a CRM contact/lead record. The zero value of every
// optional field means "unspecified"; zero time values mean no date.
type Contact struct {
	ID     string `json:"id"`
	OrgID  string `json:"org_id"`
	UserID string `json:"user_id"`

	FirstName string `json:"prenom"`
	LastName  string `json:"nom"`
	Company   string `json:"societe"`
	Role      string `json:"fonction"`

	Email    string `json:"email"`
	Phone    string `json:"telephone"`
	Website  string `json:"site_web"`
	LinkedIn string `json:"linkedin"`

	Status      string `json:"statut"`
	Source      string `json:"source"`
	Temperature string `json:"temperature"`

	EstimatedValue float64   `json:"valeur_estimee"`
	Probability    float64   `json:"probabilite"`
	CloseDate      time.Time `json:"date_cloture"`

	Address string   `json:"adresse"`
	Notes   string   `json:"notes"`
	Tags    []string `json:"tags"`

	LastInteraction time.Time `json:"derniere_interaction"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ValidationError reports a single invalid or missing field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the minimum requirements for creating a contact:
// last name and email must be present. Classification values, when
// set, must belong to their enumerations.
func (c *Contact) Validate() []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(c.LastName) == "" {
		errs = append(errs, ValidationError{FieldNom, "le nom est requis"})
	}
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, ValidationError{FieldEmail, "l'email est requis"})
	}
	if c.Status != "" && !contains(Statuses, c.Status) {
		errs = append(errs, ValidationError{FieldStatut, "statut inconnu: " + c.Status})
	}
	if c.Source != "" && !contains(Sources, c.Source) {
		errs = append(errs, ValidationError{FieldSource, "source inconnue: " + c.Source})
	}
	if c.Temperature != "" && !contains(Temperatures, c.Temperature) {
		errs = append(errs, ValidationError{FieldTemperature, "température inconnue: " + c.Temperature})
	}
	return errs
}

// ApplyDefaults fills unset classification fields with their defaults.
func (c *Contact) ApplyDefaults() {
	if c.Status == "" {
		c.Status = DefaultStatus
	}
	if c.Source == "" {
		c.Source = DefaultSource
	}
	if c.Temperature == "" {
		c.Temperature = DefaultTemperature
	}
}

// Get returns the value of a field by its canonical id. The second
// return is false for unknown field ids (custom grid columns are not
// backed by the record).
func (c *Contact) Get(field string) (any, bool) {
	switch field {
	case FieldPrenom:
		return c.FirstName, true
	case FieldNom:
		return c.LastName, true
	case FieldSociete:
		return c.Company, true
	case FieldEmail:
		return c.Email, true
	case FieldTelephone:
		return c.Phone, true
	case FieldFonction:
		return c.Role, true
	case FieldAdresse:
		return c.Address, true
	case FieldSiteWeb:
		return c.Website, true
	case FieldLinkedIn:
		return c.LinkedIn, true
	case FieldStatut:
		return c.Status, true
	case FieldSource:
		return c.Source, true
	case FieldTemperature:
		return c.Temperature, true
	case FieldValeurEstimee:
		return c.EstimatedValue, true
	case FieldProbabilite:
		return c.Probability, true
	case FieldDateCloture:
		return c.CloseDate, true
	case FieldDerniereInterac:
		return c.LastInteraction, true
	case FieldNotes:
		return c.Notes, true
	default:
		return nil, false
	}
}

// Set assigns a field by its canonical id, coercing string input to
// the field's native type. Numeric fields parse with ParseNumber
// (invalid input becomes 0), date fields accept time.Time or a
// YYYY-MM-DD string.
func (c *Contact) Set(field string, value any) error {
	switch field {
	case FieldPrenom:
		c.FirstName = asString(value)
	case FieldNom:
		c.LastName = asString(value)
	case FieldSociete:
		c.Company = asString(value)
	case FieldEmail:
		c.Email = asString(value)
	case FieldTelephone:
		c.Phone = asString(value)
	case FieldFonction:
		c.Role = asString(value)
	case FieldAdresse:
		c.Address = asString(value)
	case FieldSiteWeb:
		c.Website = asString(value)
	case FieldLinkedIn:
		c.LinkedIn = asString(value)
	case FieldStatut:
		c.Status = asString(value)
	case FieldSource:
		c.Source = asString(value)
	case FieldTemperature:
		c.Temperature = asString(value)
	case FieldValeurEstimee:
		c.EstimatedValue = asNumber(value)
	case FieldProbabilite:
		c.Probability = asNumber(value)
	case FieldDateCloture:
		t, err := asDate(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		c.CloseDate = t
	case FieldDerniereInterac:
		t, err := asDate(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		c.LastInteraction = t
	case FieldNotes:
		c.Notes = asString(value)
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func asNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		return ParseNumber(x)
	default:
		return 0
	}
}

func asDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return time.Time{}, nil
		}
		t, err := time.Parse("2006-01-02", x)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q", x)
		}
		return t, nil
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("invalid date value %v", v)
	}
}
