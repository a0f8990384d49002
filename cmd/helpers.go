package main

import (
	"context"
	"os"
	"time"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/enrich"
	"github.com/sells-group/enrich-cli/internal/source"
	"github.com/sells-group/enrich-cli/internal/store"
	"github.com/sells-group/enrich-cli/pkg/apollo"
	"github.com/sells-group/enrich-cli/pkg/crunchbase"
	sfpkg "github.com/sells-group/enrich-cli/pkg/salesforce"
	"github.com/sells-group/enrich-cli/pkg/webscrape"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.Path
		if dsn == "" {
			dsn = "enrich.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadRules returns the cascade rules, from file when configured.
func loadRules() (enrich.Rules, error) {
	if cfg.Enrich.RulesPath == "" {
		return enrich.DefaultRules(), nil
	}
	return enrich.LoadRules(cfg.Enrich.RulesPath)
}

// newScrapeClient builds the shared website scraper client.
func newScrapeClient() webscrape.Client {
	return webscrape.NewClient(
		webscrape.WithRateLimit(cfg.Scrape.RequestsPerMinute),
		webscrape.WithTimeout(time.Duration(cfg.Scrape.TimeoutSecs)*time.Second),
	)
}

// initSources registers every source that has credentials configured. A
// source without credentials simply never enters the registry, so it
// drops out of the priority chain instead of failing records.
func initSources() *source.Registry {
	reg := source.NewRegistry()

	if cfg.Apollo.Key != "" {
		client := apollo.NewClient(cfg.Apollo.Key,
			apollo.WithBaseURL(cfg.Apollo.BaseURL),
			apollo.WithRateLimit(cfg.Apollo.RequestsPerMinute),
		)
		reg.Register(source.NewApollo(client))
	} else {
		zap.L().Info("apollo key not configured, source disabled")
	}

	if cfg.Crunchbase.Key != "" {
		client := crunchbase.NewClient(cfg.Crunchbase.Key,
			crunchbase.WithBaseURL(cfg.Crunchbase.BaseURL),
			crunchbase.WithRateLimit(cfg.Crunchbase.RequestsPerMinute),
		)
		reg.Register(source.NewCrunchbase(client))
	} else {
		zap.L().Info("crunchbase key not configured, source disabled")
	}

	reg.Register(source.NewScraper(newScrapeClient()))

	return reg
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (ENRICH_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf), nil
}
