package ingest

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
)

// LoadFile reads a lead spreadsheet into canonical records, dispatching
// on the file extension. Supported: .csv, .xlsx.
func LoadFile(path string) ([]*model.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open %s", path)
		}
		defer f.Close()
		return LoadCSV(f)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
}

// LoadCSV reads CSV rows into records. The first row is the header; its
// columns are mapped onto canonical field keys.
func LoadCSV(r io.Reader) ([]*model.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("ingest: empty file")
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read header")
	}
	keys := mapHeader(header)

	var records []*model.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read row")
		}
		records = append(records, rowToRecord(keys, row))
	}
	return records, nil
}

// LoadXLSX reads the first sheet of an XLSX workbook into records.
func LoadXLSX(path string) ([]*model.Record, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: workbook has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("ingest: empty file")
	}

	keys := mapHeader(rowToStrings(sheet.Rows[0]))

	var records []*model.Record
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		if blankRow(cells) {
			continue
		}
		records = append(records, rowToRecord(keys, cells))
	}
	return records, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func mapHeader(header []string) []string {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = CanonicalKey(h)
	}
	zap.L().Debug("ingest: mapped header", zap.Strings("keys", keys))
	return keys
}

func rowToRecord(keys, row []string) *model.Record {
	rec := &model.Record{EnrichmentStatus: model.StatusPending}
	for i, value := range row {
		if i >= len(keys) {
			break
		}
		value = strings.TrimSpace(value)
		if value == "" || keys[i] == "" {
			continue
		}
		if setMetadata(rec, keys[i], value) {
			continue
		}
		rec.Set(keys[i], value)
	}
	return rec
}

// setMetadata restores pipeline-owned columns when re-loading a
// previously enriched file, so statuses and attribution round-trip.
func setMetadata(rec *model.Record, key, value string) bool {
	switch key {
	case "enrichment_status":
		rec.EnrichmentStatus = model.Status(value)
	case "enrichment_source":
		rec.EnrichmentSource = value
	case "enrichment_notes":
		rec.EnrichmentNotes = value
	case "selected":
		rec.Selected = strings.EqualFold(value, "true")
	case "engineering_headcount":
		if n, err := strconv.Atoi(value); err == nil {
			rec.EngineeringHeadcount = &n
		}
	case "it_headcount":
		if n, err := strconv.Atoi(value); err == nil {
			rec.ITHeadcount = &n
		}
	case "tech_leadership":
		_ = json.Unmarshal([]byte(value), &rec.TechLeadership)
	case "tech_job_listings":
		_ = json.Unmarshal([]byte(value), &rec.TechJobListings)
	default:
		return false
	}
	return true
}
