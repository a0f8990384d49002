// Package ingest loads lead spreadsheets (CSV or XLSX) into canonical
// records and writes enriched record sets back out.
package ingest

import (
	"strings"

	"github.com/sells-group/enrich-cli/internal/model"
)

// headerAliases maps normalized spreadsheet column names onto canonical
// field keys. Columns with no alias land in the record's Extra map under
// their normalized name.
var headerAliases = map[string]string{
	"company":           model.FieldCompanyName,
	"company name":      model.FieldCompanyName,
	"organization":      model.FieldCompanyName,
	"organization name": model.FieldCompanyName,
	"account name":      model.FieldCompanyName,

	"website":         model.FieldCompanyWebsite,
	"company website": model.FieldCompanyWebsite,
	"url":             model.FieldCompanyWebsite,
	"web site":        model.FieldCompanyWebsite,
	"domain":          model.FieldCompanyWebsite,

	"industry": model.FieldIndustry,
	"vertical": model.FieldIndustry,
	"sector":   model.FieldIndustry,

	"company size":   model.FieldCompanySize,
	"size":           model.FieldCompanySize,
	"employees":      model.FieldCompanySize,
	"employee count": model.FieldCompanySize,
	"headcount":      model.FieldCompanySize,

	"description":         model.FieldCompanyDescription,
	"company description": model.FieldCompanyDescription,
	"about":               model.FieldCompanyDescription,

	"location":         model.FieldCompanyLocation,
	"company location": model.FieldCompanyLocation,
	"city":             model.FieldCompanyLocation,
	"hq":               model.FieldCompanyLocation,
	"headquarters":     model.FieldCompanyLocation,

	"founded":      model.FieldFoundedYear,
	"founded year": model.FieldFoundedYear,
	"year founded": model.FieldFoundedYear,

	"funding":       model.FieldCompanyFunding,
	"total funding": model.FieldCompanyFunding,

	"linkedin":     model.FieldCompanyLinkedIn,
	"linkedin url": model.FieldCompanyLinkedIn,
	"twitter":      model.FieldCompanyTwitter,
	"twitter url":  model.FieldCompanyTwitter,

	"phone":         model.FieldCompanyPhone,
	"phone number":  model.FieldCompanyPhone,
	"company phone": model.FieldCompanyPhone,

	"tech stack":   model.FieldTechStack,
	"technologies": model.FieldTechStack,

	"first name": model.FieldFirstName,
	"firstname":  model.FieldFirstName,
	"last name":  model.FieldLastName,
	"lastname":   model.FieldLastName,
	"email":      model.FieldEmail,
	"e-mail":     model.FieldEmail,

	"title":     model.FieldJobTitle,
	"job title": model.FieldJobTitle,
	"role":      model.FieldJobTitle,

	"address":        model.FieldAddress,
	"street address": model.FieldAddress,
}

// normalizeHeader lowercases a column name and squeezes separators so
// "Company_Name", "company-name", and " Company  Name " all match.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer("_", " ", "-", " ").Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

// CanonicalKey resolves a spreadsheet column name to a canonical field
// key. Already-canonical names (company_name etc.) resolve to themselves.
func CanonicalKey(header string) string {
	norm := normalizeHeader(header)
	if key, ok := headerAliases[norm]; ok {
		return key
	}
	underscored := strings.ReplaceAll(norm, " ", "_")
	for _, key := range model.StringFieldKeys {
		if underscored == key {
			return key
		}
	}
	return underscored
}
