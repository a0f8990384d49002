package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordGetSet(t *testing.T) {
	rec := &Record{}

	rec.Set(FieldCompanyName, "Acme")
	rec.Set(FieldIndustry, "Manufacturing")
	rec.Set("custom_score", "42")

	assert.Equal(t, "Acme", rec.CompanyName)
	assert.Equal(t, "Acme", rec.Get(FieldCompanyName))
	assert.Equal(t, "Manufacturing", rec.Get(FieldIndustry))
	assert.Equal(t, "42", rec.Get("custom_score"), "unknown keys land in Extra")
	assert.Equal(t, "42", rec.Extra["custom_score"])
}

func TestRecordIsEmpty(t *testing.T) {
	rec := &Record{CompanyName: "  ", Industry: "Manufacturing"}

	assert.True(t, rec.IsEmpty(FieldCompanyName), "whitespace counts as empty")
	assert.False(t, rec.IsEmpty(FieldIndustry))
	assert.True(t, rec.IsEmpty(FieldEmail))
}

func TestRecordEligible(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"name only", Record{CompanyName: "Acme"}, true},
		{"website only", Record{CompanyWebsite: "acme.com"}, true},
		{"both", Record{CompanyName: "Acme", CompanyWebsite: "acme.com"}, true},
		{"neither", Record{Email: "a@b.com"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Eligible())
		})
	}
}

func TestRecordMissingFields(t *testing.T) {
	rec := &Record{CompanyName: "Acme", Industry: "Manufacturing"}
	keys := []string{FieldCompanyName, FieldCompanyWebsite, FieldIndustry, FieldCompanySize}

	assert.True(t, rec.MissingAny(keys))
	assert.Equal(t, []string{FieldCompanyWebsite, FieldCompanySize}, rec.MissingFields(keys))

	rec.CompanyWebsite = "acme.com"
	rec.CompanySize = "250"
	assert.False(t, rec.MissingAny(keys))
	assert.Nil(t, rec.MissingFields(keys))
}

func TestAppendSource(t *testing.T) {
	rec := &Record{}

	rec.AppendSource("Apollo")
	assert.Equal(t, "Apollo", rec.EnrichmentSource)

	rec.AppendSource("Crunchbase")
	assert.Equal(t, "Apollo, Crunchbase", rec.EnrichmentSource)

	rec.AppendSource("Apollo")
	assert.Equal(t, "Apollo, Crunchbase", rec.EnrichmentSource, "attribution never repeats")

	rec.AppendSource("")
	assert.Equal(t, "Apollo, Crunchbase", rec.EnrichmentSource)
}
