package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	authinadapter "aquaview/internal/modules/auth/adapter/in"
	authoutadapter "aquaview/internal/modules/auth/adapter/out"
	authservice "aquaview/internal/modules/auth/service"
	authusecase "aquaview/internal/modules/auth/usecase"
	distinadapter "aquaview/internal/modules/distribution/adapter/in"
	distoutadapter "aquaview/internal/modules/distribution/adapter/out"
	distservice "aquaview/internal/modules/distribution/service"
	distusecase "aquaview/internal/modules/distribution/usecase"
	qualityinadapter "aquaview/internal/modules/quality/adapter/in"
	qualityoutadapter "aquaview/internal/modules/quality/adapter/out"
	qualityservice "aquaview/internal/modules/quality/service"
	qualityusecase "aquaview/internal/modules/quality/usecase"
	statsinadapter "aquaview/internal/modules/stats/adapter/in"
	statsoutadapter "aquaview/internal/modules/stats/adapter/out"
	statsservice "aquaview/internal/modules/stats/service"
	statsusecase "aquaview/internal/modules/stats/usecase"
	"aquaview/internal/platform/cache"
	"aquaview/internal/platform/clock"
	"aquaview/internal/platform/config"
	"aquaview/internal/platform/gateway"
	"aquaview/internal/platform/id"
	uiapp "aquaview/internal/ui/app"
)

// App holds the wired inbound handlers. One gateway client serves every
// module; the session store doubles as its token source so each request
// reads the current token and a cleared session stops authenticating
// immediately.
type App struct {
	AuthCLI    authinadapter.CLIHandler
	QualityCLI qualityinadapter.CLIHandler
	DistCLI    distinadapter.CLIHandler
	StatsCLI   statsinadapter.CLIHandler
	snapshots  *cache.SQLiteSnapshotStore
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}

	sessionStore := authoutadapter.NewFileSessionStore(cfg.SessionPath)
	client := gateway.New(cfg, sessionStore, ids)

	snapshots, err := cache.NewSQLiteSnapshotStore(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	authUC := authusecase.NewInteractor(authservice.NewAuthService(
		clk,
		sessionStore,
		authoutadapter.NewHTTPLoginGateway(client),
	))

	qualityUC := qualityusecase.NewInteractor(qualityservice.NewQualityService(
		clk,
		qualityoutadapter.NewHTTPAnalyticsGateway(client),
		snapshots,
	))

	distUC := distusecase.NewInteractor(distservice.NewDistributionService(
		clk,
		distoutadapter.NewHTTPSupplyGateway(client),
		snapshots,
	))

	statsUC := statsusecase.NewInteractor(statsservice.NewStatsService(
		statsoutadapter.NewHTTPStatsGateway(client),
	))

	return &App{
		AuthCLI:    authinadapter.NewCLIHandler(authUC),
		QualityCLI: qualityinadapter.NewCLIHandler(qualityUC),
		DistCLI:    distinadapter.NewCLIHandler(distUC),
		StatsCLI:   statsinadapter.NewCLIHandler(statsUC),
		snapshots:  snapshots,
	}, nil
}

// Close releases the snapshot store; call it once the process is done
// issuing requests.
func (a *App) Close() error {
	return a.snapshots.Close()
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.AuthCLI, app.QualityCLI, app.DistCLI, app.StatsCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
