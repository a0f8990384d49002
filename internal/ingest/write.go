package ingest

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/enrich-cli/internal/model"
)

// enrichmentColumns are appended after the canonical fields on output.
var enrichmentColumns = []string{
	"engineering_headcount",
	"it_headcount",
	"tech_leadership",
	"tech_job_listings",
	"selected",
	"enrichment_status",
	"enrichment_source",
	"enrichment_notes",
}

// WriteFile writes enriched records to a CSV file at path.
func WriteFile(path string, records []*model.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "ingest: create %s", path)
	}
	defer f.Close()
	return WriteCSV(f, records)
}

// WriteCSV writes records as CSV: the canonical string fields in stable
// order, any extra columns seen on input, then the enrichment metadata.
// Sub-record lists are JSON-encoded into their cell.
func WriteCSV(w io.Writer, records []*model.Record) error {
	extras := extraKeys(records)

	header := append([]string{}, model.StringFieldKeys...)
	header = append(header, extras...)
	header = append(header, enrichmentColumns...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "ingest: write header")
	}

	for _, rec := range records {
		row := make([]string, 0, len(header))
		for _, key := range model.StringFieldKeys {
			row = append(row, rec.Get(key))
		}
		for _, key := range extras {
			row = append(row, rec.Extra[key])
		}
		row = append(row,
			intCell(rec.EngineeringHeadcount),
			intCell(rec.ITHeadcount),
			jsonCell(rec.TechLeadership),
			jsonCell(rec.TechJobListings),
			strconv.FormatBool(rec.Selected),
			string(rec.EnrichmentStatus),
			rec.EnrichmentSource,
			rec.EnrichmentNotes,
		)
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "ingest: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "ingest: flush")
}

func extraKeys(records []*model.Record) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for key := range rec.Extra {
			seen[key] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func intCell(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func jsonCell(v any) string {
	switch t := v.(type) {
	case []model.Contact:
		if len(t) == 0 {
			return ""
		}
	case []model.JobListing:
		if len(t) == 0 {
			return ""
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
