package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/spf13/cobra"

	"aquaview/internal/bootstrap"
	distdto "aquaview/internal/modules/distribution/dto"
	qualitydto "aquaview/internal/modules/quality/dto"
	"aquaview/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var stateDir string

	root := &cobra.Command{
		Use:           "aquaview",
		Short:         "Municipal water management console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&stateDir, "state-dir", "", "state directory (default ~/.aquaview)")

	root.AddCommand(newTUICmd(&stateDir))
	root.AddCommand(newLoginCmd(&stateDir))
	root.AddCommand(newLogoutCmd(&stateDir))
	root.AddCommand(newWhoamiCmd(&stateDir))
	root.AddCommand(newMunicipalsCmd(&stateDir))
	root.AddCommand(newQualityCmd(&stateDir))
	root.AddCommand(newDistCmd(&stateDir))
	root.AddCommand(newStatsCmd(&stateDir))
	root.AddCommand(newWatchCmd(&stateDir))
	return root
}

func loadApp(stateDir string) (*bootstrap.App, error) {
	cfg, err := config.Load(stateDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// withApp wires an app for the duration of one command run.
func withApp(stateDir *string, run func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		app, err := loadApp(*stateDir)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()
		return run(context.Background(), app, cmd)
	}
}

// requireMC resolves the session's municipal scope; data commands refuse
// to run without one.
func requireMC(ctx context.Context, app *bootstrap.App) (string, error) {
	session, err := app.AuthCLI.Current(ctx)
	if err != nil {
		return "", err
	}
	return session.MCCode, nil
}

func printStale(cmd *cobra.Command, stale bool, fetchedAt time.Time) {
	if stale {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "! showing cached data from %s (backend unreachable)\n", fetchedAt.Format(time.RFC3339))
	}
}

func newTUICmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the aquaview terminal UI",
		RunE: withApp(stateDir, func(_ context.Context, app *bootstrap.App, _ *cobra.Command) error {
			return bootstrap.RunTUI(app)
		}),
	}
}

func newLoginCmd(stateDir *string) *cobra.Command {
	var username, password, mcCode string
	login := &cobra.Command{
		Use:   "login --mc <code> --username <name> --password <secret>",
		Short: "Authenticate and store the session",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			if strings.TrimSpace(username) == "" || password == "" || strings.TrimSpace(mcCode) == "" {
				return fmt.Errorf("--mc, --username, and --password are required")
			}
			out, err := app.AuthCLI.Login(ctx, username, password, mcCode)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in: %s (%s)\n", out.MCName, out.MCCode)
			return nil
		}),
	}
	login.Flags().StringVar(&username, "username", "", "account username")
	login.Flags().StringVar(&password, "password", "", "account password")
	login.Flags().StringVar(&mcCode, "mc", "", "municipal corporation code")
	return login
}

func newLogoutCmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			if err := app.AuthCLI.Logout(ctx); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		}),
	}
}

func newWhoamiCmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			session, err := app.AuthCLI.Current(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", session.MCName, session.MCCode)
			return nil
		}),
	}
}

func newMunicipalsCmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "municipals",
		Short: "List registered municipal corporations",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			municipals, err := app.AuthCLI.Municipals(ctx)
			if err != nil {
				return err
			}
			for _, mc := range municipals {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", mc.Code, mc.Name)
			}
			return nil
		}),
	}
}

// ─── water quality ───────────────────────────────────────────────────────────

func newQualityCmd(stateDir *string) *cobra.Command {
	quality := &cobra.Command{Use: "quality", Short: "Water quality analytics"}

	quality.AddCommand(&cobra.Command{
		Use:   "hubs",
		Short: "List monitoring hubs for the session's corporation",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			hubs, err := app.QualityCLI.Hubs(ctx, mcCode)
			if err != nil {
				return err
			}
			for _, hub := range hubs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", hub.ID, hub.Name)
			}
			return nil
		}),
	})

	var trendHub string
	trend := &cobra.Command{
		Use:   "trend [--hub <id>]",
		Short: "Per-hub WQI aggregates over recent records",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.QualityCLI.Trend(ctx, mcCode, trendHub)
			if err != nil {
				return err
			}
			printStale(cmd, out.Stale, out.FetchedAt)
			for _, hubID := range sortedKeys(out.Hubs) {
				h := out.Hubs[hubID]
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\trecords=%d\tavg_wqi=%.1f\tanomalies=%d\n", hubID, h.TotalRecords, h.AverageWQI, h.AnomalyCount)
			}
			return nil
		}),
	}
	trend.Flags().StringVar(&trendHub, "hub", "", "restrict to one hub")
	quality.AddCommand(trend)

	var yearlyHub string
	yearly := &cobra.Command{
		Use:   "yearly [--hub <id>]",
		Short: "Year-over-year WQI statistics per hub",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.QualityCLI.YearlyTrend(ctx, mcCode, yearlyHub)
			if err != nil {
				return err
			}
			printStale(cmd, out.Stale, out.FetchedAt)
			for _, hubID := range sortedKeys(out.Hubs) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), hubID)
				years := out.Hubs[hubID]
				for _, year := range sortedKeys(years) {
					stat := years[year]
					delta := "-"
					if stat.YearlyDelta != nil {
						delta = fmt.Sprintf("%+.1f", *stat.YearlyDelta)
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\tavg=%.1f\tmin=%.1f\tmax=%.1f\ttrend=%s\tdelta=%s\n", year, stat.AverageWQI, stat.MinWQI, stat.MaxWQI, stat.Trend, delta)
				}
			}
			return nil
		}),
	}
	yearly.Flags().StringVar(&yearlyHub, "hub", "", "restrict to one hub")
	quality.AddCommand(yearly)

	var anomaliesHub string
	anomalies := &cobra.Command{
		Use:   "anomalies [--hub <id>]",
		Short: "List records flagged anomalous",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.QualityCLI.Anomalies(ctx, mcCode, anomaliesHub)
			if err != nil {
				return err
			}
			printStale(cmd, out.Stale, out.FetchedAt)
			if out.Total == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no anomalies")
				return nil
			}
			for _, r := range out.Records {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\twqi=%.1f\t%s\t%s\n", r.HubID, r.WQI, r.AnomalyStatus, r.CreatedAt)
			}
			return nil
		}),
	}
	anomalies.Flags().StringVar(&anomaliesHub, "hub", "", "restrict to one hub")
	quality.AddCommand(anomalies)

	var recordsHub string
	records := &cobra.Command{
		Use:   "records [--hub <id>]",
		Short: "Dump raw sensor records",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.QualityCLI.Records(ctx, mcCode, recordsHub)
			if err != nil {
				return err
			}
			printStale(cmd, out.Stale, out.FetchedAt)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total=%d\n", out.Total)
			for _, record := range out.Records {
				var parts []string
				for _, key := range sortedKeys(record) {
					parts = append(parts, fmt.Sprintf("%s=%v", key, record[key]))
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, "\t"))
			}
			return nil
		}),
	}
	records.Flags().StringVar(&recordsHub, "hub", "", "restrict to one hub")
	quality.AddCommand(records)

	quality.AddCommand(newPredictCmd(stateDir))

	var imageHub, imageOut string
	image := &cobra.Command{
		Use:   "hub-image --hub <id> --out <file>",
		Short: "Download a hub's image (placeholder when none is stored)",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			if strings.TrimSpace(imageHub) == "" || strings.TrimSpace(imageOut) == "" {
				return fmt.Errorf("--hub and --out are required")
			}
			blob, err := app.QualityCLI.HubImage(ctx, imageHub)
			if err != nil {
				return err
			}
			if err := os.WriteFile(imageOut, blob, 0o644); err != nil {
				return fmt.Errorf("write image: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(blob), imageOut)
			return nil
		}),
	}
	image.Flags().StringVar(&imageHub, "hub", "", "hub id")
	image.Flags().StringVar(&imageOut, "out", "", "output file")
	quality.AddCommand(image)

	return quality
}

func newPredictCmd(stateDir *string) *cobra.Command {
	input := qualitydto.PredictionInput{}
	predict := &cobra.Command{
		Use:   "predict --hub <id>",
		Short: "Predict WQI from parameter ranges",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.QualityCLI.Predict(ctx, mcCode, input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hub=%s wqi=%.1f category=%s status=%s\n", out.HubID, out.FinalWQI, out.Category, out.AnomalyStatus)
			if out.Interpretation != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Interpretation)
			}
			if out.RecommendedAction != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "action: "+out.RecommendedAction)
			}
			return nil
		}),
	}
	predict.Flags().StringVar(&input.HubID, "hub", "", "hub id")
	predict.Flags().Float64Var(&input.TemperatureMin, "temp-min", 0, "temperature min (°C)")
	predict.Flags().Float64Var(&input.TemperatureMax, "temp-max", 0, "temperature max (°C)")
	predict.Flags().Float64Var(&input.PHMin, "ph-min", 0, "pH min")
	predict.Flags().Float64Var(&input.PHMax, "ph-max", 0, "pH max")
	predict.Flags().Float64Var(&input.ConductivityMin, "cond-min", 0, "conductivity min (µmhos/cm)")
	predict.Flags().Float64Var(&input.ConductivityMax, "cond-max", 0, "conductivity max (µmhos/cm)")
	predict.Flags().Float64Var(&input.BODMin, "bod-min", 0, "BOD min (mg/l)")
	predict.Flags().Float64Var(&input.BODMax, "bod-max", 0, "BOD max (mg/l)")
	predict.Flags().Float64Var(&input.FaecalColiformMin, "fcoliform-min", 0, "faecal coliform min (MPN/100ml)")
	predict.Flags().Float64Var(&input.FaecalColiformMax, "fcoliform-max", 0, "faecal coliform max (MPN/100ml)")
	predict.Flags().Float64Var(&input.TotalColiformMin, "tcoliform-min", 0, "total coliform min (MPN/100ml)")
	predict.Flags().Float64Var(&input.TotalColiformMax, "tcoliform-max", 0, "total coliform max (MPN/100ml)")
	predict.Flags().Float64Var(&input.NitrateNMin, "nitrate-min", 0, "nitrate-N min (mg/l)")
	predict.Flags().Float64Var(&input.NitrateNMax, "nitrate-max", 0, "nitrate-N max (mg/l)")
	return predict
}

// ─── water distribution ──────────────────────────────────────────────────────

func newDistCmd(stateDir *string) *cobra.Command {
	dist := &cobra.Command{Use: "dist", Short: "Water distribution analytics"}

	var trendHub string
	trend := &cobra.Command{
		Use:   "trend [--hub <id>]",
		Short: "Per-hub supply efficiency aggregates",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.DistCLI.Trend(ctx, mcCode, trendHub)
			if err != nil {
				return err
			}
			printStale(cmd, out.Stale, out.FetchedAt)
			for _, hubID := range sortedKeys(out.Hubs) {
				h := out.Hubs[hubID]
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\trecords=%d\tavg_eff=%.1f%%\tcritical=%d\n", hubID, h.TotalRecords, h.AverageEfficiency, h.CriticalCount)
			}
			return nil
		}),
	}
	trend.Flags().StringVar(&trendHub, "hub", "", "restrict to one hub")
	dist.AddCommand(trend)

	var yearlyHub string
	yearly := &cobra.Command{
		Use:   "yearly [--hub <id>]",
		Short: "Year-over-year distribution statistics per hub",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.DistCLI.YearlyTrend(ctx, mcCode, yearlyHub)
			if err != nil {
				return err
			}
			printStale(cmd, out.Stale, out.FetchedAt)
			for _, hubID := range sortedKeys(out.Hubs) {
				hub := out.Hubs[hubID]
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\ttrend=%s\n", hubID, hub.LongTermTrend)
				for _, year := range sortedKeys(hub.Years) {
					stat := hub.Years[year]
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\tavg=%s\tdelta=%s\tgrade=%s\tcritical=%d\n",
						year, fmtPtr(stat.AverageEfficiency), fmtPtr(stat.YearlyDelta), stat.PerformanceGrade, stat.CriticalCount)
				}
				if hub.Commentary != "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  "+hub.Commentary)
				}
			}
			return nil
		}),
	}
	yearly.Flags().StringVar(&yearlyHub, "hub", "", "restrict to one hub")
	dist.AddCommand(yearly)

	dist.AddCommand(&cobra.Command{
		Use:   "critical",
		Short: "Hubs currently at critical supply risk",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.DistCLI.CriticalSummary(ctx, mcCode)
			if err != nil {
				return err
			}
			printStale(cmd, out.Stale, out.FetchedAt)
			if out.Total == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no critical hubs")
				return nil
			}
			for _, r := range out.Records {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\teff=%.1f%%\t%s\n", r.HubID, r.Efficiency, r.RecommendedAction)
			}
			return nil
		}),
	})

	dist.AddCommand(&cobra.Command{
		Use:   "latest",
		Short: "Latest distribution record per hub",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.DistCLI.Latest(ctx, mcCode)
			if err != nil {
				return err
			}
			printStale(cmd, out.Stale, out.FetchedAt)
			for _, r := range out.Records {
				marker := " "
				if r.CriticalRisk {
					marker = "!"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\teff=%.1f%%\t%s\n", marker, r.HubID, r.Efficiency, r.CreatedAt)
			}
			return nil
		}),
	})

	dist.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Corporation-wide distribution summary",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.DistCLI.Summary(ctx, mcCode)
			if err != nil {
				return err
			}
			printStale(cmd, out.Stale, out.FetchedAt)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "avg_efficiency=%.1f%% critical_hubs=%d records=%d deficit=%.1f MLD\n",
				out.AverageEfficiency, out.TotalCriticalHubs, out.TotalRecords, out.TotalDeficitMLD)
			return nil
		}),
	})

	forecastInput := distdto.ForecastInput{}
	forecast := &cobra.Command{
		Use:   "forecast --hub <id> --demand <mld> --supply <mld> --population <n>",
		Short: "Forecast supply efficiency for a hub",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.DistCLI.Forecast(ctx, mcCode, forecastInput)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hub=%s efficiency=%.1f%% grade=%s status=%s\n", out.HubID, out.FinalEfficiency, out.PerformanceGrade, out.Status)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deficit=%.1f MLD per_capita=%.1f LPCD critical=%t\n", out.DeficitMLD, out.PerCapitaLPCD, out.CriticalRisk)
			if out.RecommendedAction != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "action: "+out.RecommendedAction)
			}
			return nil
		}),
	}
	forecast.Flags().StringVar(&forecastInput.HubID, "hub", "", "hub id")
	forecast.Flags().Float64Var(&forecastInput.TotalDemandMLD, "demand", 0, "total demand (MLD)")
	forecast.Flags().Float64Var(&forecastInput.CurrentSupplyMLD, "supply", 0, "current supply (MLD)")
	forecast.Flags().IntVar(&forecastInput.Population, "population", 0, "served population")
	dist.AddCommand(forecast)

	return dist
}

// ─── state statistics ────────────────────────────────────────────────────────

func newStatsCmd(stateDir *string) *cobra.Command {
	stats := &cobra.Command{Use: "stats", Short: "State-level statistics"}

	stats.AddCommand(&cobra.Command{
		Use:   "public",
		Short: "Public overview (no session required)",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			out, err := app.StatsCLI.PublicOverview(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "municipals=%d population=%d avg_wqi=%.1f avg_efficiency=%.1f%%\n",
				out.TotalMunicipals, out.TotalPopulation, out.AverageWQI, out.AverageEfficiency)
			return nil
		}),
	})

	stats.AddCommand(&cobra.Command{
		Use:   "overview",
		Short: "Authenticated state overview",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			out, err := app.StatsCLI.Overview(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "municipals=%d population=%d avg_wqi=%.1f avg_efficiency=%.1f%%\n",
				out.TotalMunicipals, out.TotalPopulation, out.AverageWQI, out.AverageEfficiency)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "anomalies=%d critical_hubs=%d\n", out.TotalAnomalies, out.TotalCriticalHubs)
			if out.LastUpdated != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "last_updated=%s\n", out.LastUpdated)
			}
			return nil
		}),
	})

	stats.AddCommand(&cobra.Command{
		Use:   "state-trends",
		Short: "State-wide yearly WQI and efficiency trends",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			out, err := app.StatsCLI.StateTrends(ctx)
			if err != nil {
				return err
			}
			for _, year := range out.Years {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\twqi=%.1f\tefficiency=%.1f%%\n", year.Year, year.AvgWQI, year.AvgEfficiency)
			}
			return nil
		}),
	})

	stats.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard snapshot for the session's corporation",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}
			out, err := app.StatsCLI.Dashboard(ctx, mcCode)
			if err != nil {
				return err
			}
			for _, key := range sortedKeys(out.MunicipalInfo) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s=%v\n", key, out.MunicipalInfo[key])
			}
			for _, hub := range out.ConnectedHubs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hub\t%s\t%s\n", hub.ID, hub.Name)
			}
			return nil
		}),
	})

	return stats
}

// ─── watch ───────────────────────────────────────────────────────────────────

func newWatchCmd(stateDir *string) *cobra.Command {
	var intervalSec int
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Poll critical-supply and state stats until interrupted",
		RunE: withApp(stateDir, func(ctx context.Context, app *bootstrap.App, cmd *cobra.Command) error {
			mcCode, err := requireMC(ctx, app)
			if err != nil {
				return err
			}

			scheduler := gocron.NewScheduler(time.UTC)
			_, err = scheduler.Every(intervalSec).Seconds().Do(func() {
				pollOnce(ctx, app, cmd, mcCode)
			})
			if err != nil {
				return fmt.Errorf("schedule watch job: %w", err)
			}
			scheduler.StartAsync()
			defer scheduler.Stop()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "watch stopped")
			return nil
		}),
	}
	watch.Flags().IntVar(&intervalSec, "interval", 60, "poll interval in seconds")
	return watch
}

func pollOnce(ctx context.Context, app *bootstrap.App, cmd *cobra.Command, mcCode string) {
	now := time.Now().UTC().Format(time.RFC3339)

	critical, err := app.DistCLI.CriticalSummary(ctx, mcCode)
	if err != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s critical-summary error: %v\n", now, err)
	} else {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s critical_hubs=%d stale=%t\n", now, critical.Total, critical.Stale)
	}

	overview, err := app.StatsCLI.PublicOverview(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s public-overview error: %v\n", now, err)
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s state avg_wqi=%.1f avg_efficiency=%.1f%%\n", now, overview.AverageWQI, overview.AverageEfficiency)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
