// Package model defines the lead record and enrichment status types shared
// across the pipeline.
package model

import "strings"

// Status represents the enrichment state of a single record.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusSuccess   Status = "Success"
	StatusPartial   Status = "Partial"
	StatusFailed    Status = "Failed"
	StatusCancelled Status = "Cancelled"
	StatusSkipped   Status = "Skipped"
)

// Canonical field keys. The ingest layer maps arbitrary spreadsheet column
// names onto these before the pipeline ever sees a record.
const (
	FieldCompanyName        = "company_name"
	FieldCompanyWebsite     = "company_website"
	FieldIndustry           = "industry"
	FieldCompanySize        = "company_size"
	FieldCompanyDescription = "company_description"
	FieldCompanyLocation    = "company_location"
	FieldFoundedYear        = "founded_year"
	FieldCompanyFunding     = "company_funding"
	FieldCompanyLinkedIn    = "company_linkedin"
	FieldCompanyTwitter     = "company_twitter"
	FieldCompanyPhone       = "company_phone"
	FieldTechStack          = "tech_stack"
	FieldFirstName          = "first_name"
	FieldLastName           = "last_name"
	FieldEmail              = "email"
	FieldJobTitle           = "job_title"
	FieldAddress            = "address"
)

// StringFieldKeys lists every canonical string field in a stable order,
// used by the ingest and export layers when round-tripping files.
var StringFieldKeys = []string{
	FieldCompanyName,
	FieldCompanyWebsite,
	FieldIndustry,
	FieldCompanySize,
	FieldCompanyDescription,
	FieldCompanyLocation,
	FieldFoundedYear,
	FieldCompanyFunding,
	FieldCompanyLinkedIn,
	FieldCompanyTwitter,
	FieldCompanyPhone,
	FieldTechStack,
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldJobTitle,
	FieldAddress,
}

// Contact is a tech-leadership sub-record attached to a company.
type Contact struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// JobListing is a technical job posting sub-record attached to a company.
type JobListing struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	PostedDate  string `json:"posted_date,omitempty"`
}

// Record is one company/lead row plus the enrichment metadata the pipeline
// maintains. Source-specific fields with no canonical slot land in Extra.
type Record struct {
	CompanyName        string `json:"company_name"`
	CompanyWebsite     string `json:"company_website"`
	Industry           string `json:"industry,omitempty"`
	CompanySize        string `json:"company_size,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
	CompanyLocation    string `json:"company_location,omitempty"`
	FoundedYear        string `json:"founded_year,omitempty"`
	CompanyFunding     string `json:"company_funding,omitempty"`
	CompanyLinkedIn    string `json:"company_linkedin,omitempty"`
	CompanyTwitter     string `json:"company_twitter,omitempty"`
	CompanyPhone       string `json:"company_phone,omitempty"`
	TechStack          string `json:"tech_stack,omitempty"`

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	JobTitle  string `json:"job_title,omitempty"`
	Address   string `json:"address,omitempty"`

	TechLeadership  []Contact    `json:"tech_leadership,omitempty"`
	TechJobListings []JobListing `json:"tech_job_listings,omitempty"`

	// Departmental headcounts use pointers so "zero engineers" survives the
	// merge policy's presence check.
	EngineeringHeadcount *int `json:"engineering_headcount,omitempty"`
	ITHeadcount          *int `json:"it_headcount,omitempty"`

	Extra map[string]string `json:"extra,omitempty"`

	Selected bool `json:"selected,omitempty"`

	// Enrichment metadata, owned exclusively by the pipeline.
	EnrichmentStatus Status `json:"enrichment_status"`
	EnrichmentSource string `json:"enrichment_source,omitempty"`
	EnrichmentNotes  string `json:"enrichment_notes,omitempty"`
}

// fieldSlot returns a pointer to the canonical string field for key, or nil
// if the key has no typed slot.
func (r *Record) fieldSlot(key string) *string {
	switch key {
	case FieldCompanyName:
		return &r.CompanyName
	case FieldCompanyWebsite:
		return &r.CompanyWebsite
	case FieldIndustry:
		return &r.Industry
	case FieldCompanySize:
		return &r.CompanySize
	case FieldCompanyDescription:
		return &r.CompanyDescription
	case FieldCompanyLocation:
		return &r.CompanyLocation
	case FieldFoundedYear:
		return &r.FoundedYear
	case FieldCompanyFunding:
		return &r.CompanyFunding
	case FieldCompanyLinkedIn:
		return &r.CompanyLinkedIn
	case FieldCompanyTwitter:
		return &r.CompanyTwitter
	case FieldCompanyPhone:
		return &r.CompanyPhone
	case FieldTechStack:
		return &r.TechStack
	case FieldFirstName:
		return &r.FirstName
	case FieldLastName:
		return &r.LastName
	case FieldEmail:
		return &r.Email
	case FieldJobTitle:
		return &r.JobTitle
	case FieldAddress:
		return &r.Address
	}
	return nil
}

// Get returns the value of a canonical string field, falling back to Extra.
func (r *Record) Get(key string) string {
	if slot := r.fieldSlot(key); slot != nil {
		return *slot
	}
	return r.Extra[key]
}

// Set stores value under key, using the typed slot when one exists and the
// Extra side-map otherwise.
func (r *Record) Set(key, value string) {
	if slot := r.fieldSlot(key); slot != nil {
		*slot = value
		return
	}
	if r.Extra == nil {
		r.Extra = make(map[string]string)
	}
	r.Extra[key] = value
}

// IsEmpty reports whether the record has no value for key.
func (r *Record) IsEmpty(key string) bool {
	return strings.TrimSpace(r.Get(key)) == ""
}

// Eligible reports whether the record can be submitted to a source: at
// least one of company name or website must be non-empty.
func (r *Record) Eligible() bool {
	return !r.IsEmpty(FieldCompanyName) || !r.IsEmpty(FieldCompanyWebsite)
}

// MissingAny reports whether any of the given field keys is still empty.
func (r *Record) MissingAny(keys []string) bool {
	for _, k := range keys {
		if r.IsEmpty(k) {
			return true
		}
	}
	return false
}

// MissingFields returns the subset of keys the record has no value for.
func (r *Record) MissingFields(keys []string) []string {
	var missing []string
	for _, k := range keys {
		if r.IsEmpty(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// AppendSource records that a source contributed data. Attribution only
// grows; a source already listed is not repeated.
func (r *Record) AppendSource(name string) {
	if name == "" {
		return
	}
	for _, existing := range strings.Split(r.EnrichmentSource, ", ") {
		if existing == name {
			return
		}
	}
	if r.EnrichmentSource == "" {
		r.EnrichmentSource = name
		return
	}
	r.EnrichmentSource += ", " + name
}
