package enrich

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/source"
)

// Rules configures the enrichment cascade: which sources run, in what
// order, which fields count as required, and how large AI batches get.
type Rules struct {
	Sources        []string `yaml:"sources"`
	RequiredFields []string `yaml:"required_fields"`
	AIBatchSize    int      `yaml:"ai_batch_size"`
}

// DefaultRules returns the built-in cascade: contact database first, then
// the company database, then the website scraper as a last resort.
func DefaultRules() Rules {
	return Rules{
		Sources: []string{
			source.ApolloName,
			source.CrunchbaseName,
			source.ScraperName,
		},
		RequiredFields: []string{
			model.FieldCompanyName,
			model.FieldCompanyWebsite,
			model.FieldIndustry,
			model.FieldCompanySize,
		},
		AIBatchSize: 25,
	}
}

// LoadRules reads cascade rules from a YAML file. Omitted sections fall
// back to the defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, eris.Wrapf(err, "enrich: read rules %s", path)
	}

	// The YAML has a top-level "enrichment" key
	var wrapper struct {
		Enrichment Rules `yaml:"enrichment"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Rules{}, eris.Wrap(err, "enrich: parse rules")
	}

	rules := wrapper.Enrichment
	defaults := DefaultRules()
	if len(rules.Sources) == 0 {
		rules.Sources = defaults.Sources
	}
	if len(rules.RequiredFields) == 0 {
		rules.RequiredFields = defaults.RequiredFields
	}
	if rules.AIBatchSize <= 0 {
		rules.AIBatchSize = defaults.AIBatchSize
	}
	return rules, nil
}
