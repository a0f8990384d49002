package source

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/aibatch"
)

// AIName is the attribution label for the batch AI source.
const AIName = "AI Enrichment"

// aiRequiredFields are the outputs the batch AI source is judged on.
var aiRequiredFields = []string{
	model.FieldCompanyName,
	model.FieldCompanyWebsite,
	model.FieldIndustry,
	model.FieldCompanySize,
}

// AIBatch is the batch-mode enrichment source. Unlike the per-record
// sources it consumes the whole remaining record set at once, partitions
// it into capped batches, and emits one outcome per record.
type AIBatch struct {
	client    aibatch.Client
	batchSize int
}

// NewAIBatch creates the batch AI source. batchSize caps how many records
// travel in one API call.
func NewAIBatch(client aibatch.Client, batchSize int) *AIBatch {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &AIBatch{client: client, batchSize: batchSize}
}

// Name returns the attribution label.
func (s *AIBatch) Name() string { return AIName }

// EnrichAll processes records in sequential batches and returns outcomes
// index-aligned with the input. A failed API call fails every record in
// that batch; later batches still run. onBatch, if non-nil, is invoked
// after each batch with the number of records completed so far; returning
// true stops before the next batch, leaving later outcomes zero-valued.
func (s *AIBatch) EnrichAll(ctx context.Context, records []*model.Record, onBatch func(done, total int) bool) []Outcome {
	outcomes := make([]Outcome, len(records))

	for start := 0; start < len(records); start += s.batchSize {
		end := min(start+s.batchSize, len(records))

		inputs := make([]aibatch.RecordInput, 0, end-start)
		for i := start; i < end; i++ {
			rec := records[i]
			inputs = append(inputs, aibatch.RecordInput{
				ID:             strconv.Itoa(i),
				CompanyName:    rec.Get(model.FieldCompanyName),
				CompanyWebsite: rec.Get(model.FieldCompanyWebsite),
				Industry:       rec.Get(model.FieldIndustry),
				CompanySize:    rec.Get(model.FieldCompanySize),
				Description:    rec.Get(model.FieldCompanyDescription),
				FoundedYear:    rec.Get(model.FieldFoundedYear),
				Headquarters:   rec.Get(model.FieldCompanyLocation),
			})
		}

		outputs, err := s.client.EnrichBatch(ctx, inputs)
		if err != nil {
			zap.L().Warn("aibatch: batch failed",
				zap.Int("start", start),
				zap.Int("size", end-start),
				zap.Error(err),
			)
			for i := start; i < end; i++ {
				outcomes[i] = Failed(AIName, err.Error())
			}
		} else {
			byID := make(map[string]aibatch.RecordOutput, len(outputs))
			for _, out := range outputs {
				byID[out.ID] = out
			}
			for i := start; i < end; i++ {
				out, ok := byID[strconv.Itoa(i)]
				if !ok {
					outcomes[i] = Failed(AIName, "record missing from AI response")
					continue
				}
				outcomes[i] = s.outcomeFor(out)
			}
		}

		if onBatch != nil && onBatch(end, len(records)) {
			break
		}
	}

	return outcomes
}

// outcomeFor classifies one AI completion: Success when every required
// field came back, Partial when at least the company name or website did,
// Failed otherwise.
func (s *AIBatch) outcomeFor(out aibatch.RecordOutput) Outcome {
	fields := map[string]string{
		model.FieldCompanyName:        out.CompanyName,
		model.FieldCompanyWebsite:     out.CompanyWebsite,
		model.FieldIndustry:           out.Industry,
		model.FieldCompanySize:        out.CompanySize,
		model.FieldCompanyDescription: out.Description,
		model.FieldFoundedYear:        out.FoundedYear,
		model.FieldCompanyLocation:    out.Headquarters,
	}

	var missing []string
	for _, key := range aiRequiredFields {
		if strings.TrimSpace(fields[key]) == "" {
			missing = append(missing, key)
		}
	}

	switch {
	case len(missing) == 0:
		return Outcome{
			Status:     OutcomeSuccess,
			SourceName: AIName,
			Fields:     fields,
			Reason:     "All required fields successfully enriched",
		}
	case fields[model.FieldCompanyName] != "" || fields[model.FieldCompanyWebsite] != "":
		return Outcome{
			Status:     OutcomePartial,
			SourceName: AIName,
			Fields:     fields,
			Reason:     "Partially enriched; missing: " + strings.Join(missing, ", "),
		}
	default:
		return Failed(AIName, "AI could not determine company identity")
	}
}
