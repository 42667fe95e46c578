package impex

import (
	"strings"

	"crmgrid/internal/contact"
)

// Common header spellings seen in files from other CRMs, keyed by
// normalized form. Extends plain id/label matching.
var headerSynonyms = map[string]string{
	"first_name": contact.FieldPrenom,
	"firstname":  contact.FieldPrenom,
	"prénom":     contact.FieldPrenom,
	"last_name":  contact.FieldNom,
	"lastname":   contact.FieldNom,
	"name":       contact.FieldNom,
	"company":    contact.FieldSociete,
	"société":    contact.FieldSociete,
	"entreprise": contact.FieldSociete,
	"mail":       contact.FieldEmail,
	"e_mail":     contact.FieldEmail,
	"courriel":   contact.FieldEmail,
	"phone":      contact.FieldTelephone,
	"tel":        contact.FieldTelephone,
	"téléphone":  contact.FieldTelephone,
	"mobile":     contact.FieldTelephone,
	"website":    contact.FieldSiteWeb,
	"site":       contact.FieldSiteWeb,
	"url":        contact.FieldSiteWeb,
	"address":    contact.FieldAdresse,
	"status":     contact.FieldStatut,
	"statut":     contact.FieldStatut,
	"origine":    contact.FieldSource,
}

// SuggestMapping proposes an initial mapping from the discovered
// source headers: exact field-id matches first, then known synonyms.
// The first matching header wins for each target field; the user can
// still rebind or clear every entry.
func SuggestMapping(headers []string) Mapping {
	m := make(Mapping)
	for _, h := range headers {
		norm := normalizeHeader(h)

		target := ""
		if isImportField(norm) {
			target = norm
		} else if syn, ok := headerSynonyms[norm]; ok {
			target = syn
		}
		if target == "" {
			continue
		}
		if _, taken := m[target]; taken {
			continue
		}
		m[target] = h
	}
	return m
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}
