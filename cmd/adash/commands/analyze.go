package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"adash/internal/analytics"
	"adash/internal/dataset"
	"adash/internal/forecast"
	"adash/internal/segment"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	mappingPath string
	outPath     string
	clusters    int
	seed        int64
	horizon     int
	topN        int
)

// DashboardPayload is the read-only presentation boundary: everything a
// dashboard needs for one session, in a single document.
type DashboardPayload struct {
	SessionID   string                      `json:"session_id"`
	Cleaning    dataset.CleanReport         `json:"cleaning"`
	KPIs        *analytics.KPISnapshot      `json:"kpis,omitempty"`
	Daily       []analytics.DailySales      `json:"daily"`
	Hourly      []analytics.HourlyDemand    `json:"hourly"`
	TopProducts []analytics.ProductVolume   `json:"top_products"`
	Categories  []analytics.CategoryRevenue `json:"categories"`
	Customers   []segment.ClusteredCustomer `json:"customers"`
	Clusters    []segment.ClusterProfile    `json:"clusters"`
	PaymentMix  []analytics.MixShare        `json:"payment_mix"`
	SaleTypeMix []analytics.MixShare        `json:"sale_type_mix"`
	Forecast    ForecastSection             `json:"forecast"`
}

// ForecastSection carries either the forecast series or the reason it is
// unavailable. A missing model degrades this section only; the rest of the
// payload stays usable.
type ForecastSection struct {
	Available bool                     `json:"available"`
	Notice    string                   `json:"notice,omitempty"`
	Points    []forecast.ForecastPoint `json:"points,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <upload.csv|upload.xlsx>",
	Short: "Run the full analytics pipeline on an uploaded transaction log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		// Environment-configured defaults apply unless the flag was set.
		if !cmd.Flags().Changed("clusters") {
			clusters = cfg.ClusterCount
		}
		if !cmd.Flags().Changed("seed") {
			seed = cfg.ClusterSeed
		}
		if !cmd.Flags().Changed("horizon") {
			horizon = cfg.ForecastHorizon
		}
		if !cmd.Flags().Changed("top") {
			topN = cfg.TopProducts
		}

		payload, err := runPipeline(args[0])
		if err != nil {
			return err
		}
		return writePayload(payload)
	},
}

func runPipeline(uploadPath string) (*DashboardPayload, error) {
	// 1. Load the raw upload.
	raw, err := dataset.ReadFile(uploadPath)
	if err != nil {
		return nil, err
	}
	log.Info().Int("rows", len(raw.Rows)).Strs("columns", raw.Columns).Msg("Upload loaded")

	// 2. Reconcile column names onto the canonical schema.
	mapping, err := loadMapping()
	if err != nil {
		return nil, err
	}
	reconciled, err := dataset.Reconcile(raw, mapping)
	if err != nil {
		var schemaErr *dataset.SchemaError
		if errors.As(err, &schemaErr) {
			// Recoverable: tell the user what to map and against what.
			log.Error().
				Strs("missing", schemaErr.Missing).
				Strs("uploaded_columns", raw.Columns).
				Msg("Upload does not match the canonical schema; supply --mapping with the missing columns")
		}
		return nil, err
	}

	// 3. Clean.
	records, report, err := dataset.Clean(reconciled)
	if err != nil {
		return nil, err
	}

	// 4. Aggregate.
	session := analytics.NewSession(records)
	payload := &DashboardPayload{
		SessionID:   session.ID(),
		Cleaning:    report,
		Daily:       session.Daily(),
		Hourly:      session.Hourly(),
		TopProducts: session.TopProducts(topN),
		Categories:  session.Categories(),
		PaymentMix:  session.PaymentMix(),
		SaleTypeMix: session.SaleTypeMix(),
	}
	if kpis, ok := session.KPIs(); ok {
		payload.KPIs = &kpis
	}

	// 5. Segment customers.
	segCfg := segment.DefaultConfig()
	segCfg.Clusters = clusters
	segCfg.Seed = seed
	engine, err := segment.NewEngine(segCfg)
	if err != nil {
		return nil, err
	}
	payload.Customers, err = engine.Assign(session.Customers())
	if err != nil {
		return nil, err
	}
	payload.Clusters = engine.Profile(payload.Customers)

	// 6. Forecast. Failure here degrades the forecast section only.
	payload.Forecast = buildForecast(session.Daily())

	return payload, nil
}

func buildForecast(daily []analytics.DailySales) ForecastSection {
	adapter, err := forecast.LoadAdapter(cfg.ModelPath, cfg.ScalerPath)
	if err != nil {
		if errors.Is(err, forecast.ErrArtifactUnavailable) {
			log.Warn().Err(err).Msg("Forecast unavailable, continuing without it")
		} else {
			log.Error().Err(err).Msg("Forecast adapter failed to load")
		}
		return ForecastSection{Notice: err.Error()}
	}

	points, err := adapter.Forecast(daily, horizon)
	if err != nil {
		log.Warn().Err(err).Msg("Forecast skipped")
		return ForecastSection{Notice: err.Error()}
	}
	return ForecastSection{Available: true, Points: points}
}

func loadMapping() (dataset.ColumnMapping, error) {
	if mappingPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(mappingPath)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	var mapping dataset.ColumnMapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("parse mapping file %q: %w", mappingPath, err)
	}
	return mapping, nil
}

func writePayload(payload *DashboardPayload) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if outPath == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	log.Info().Str("path", outPath).Msg("Dashboard payload written")
	return nil
}

func init() {
	analyzeCmd.Flags().StringVar(&mappingPath, "mapping", "", "JSON file mapping canonical column names to uploaded column names")
	analyzeCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the dashboard payload to a file instead of stdout")
	analyzeCmd.Flags().IntVar(&clusters, "clusters", 4, "number of customer segments")
	analyzeCmd.Flags().Int64Var(&seed, "seed", 42, "segmentation RNG seed")
	analyzeCmd.Flags().IntVar(&horizon, "horizon", forecast.DefaultHorizon, "forecast horizon in days")
	analyzeCmd.Flags().IntVar(&topN, "top", 8, "product ranking size before the Other roll-up")
}
