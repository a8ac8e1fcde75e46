package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/cli/model"
	"github.com/bnema/tooldeck/internal/infrastructure/config"
	"github.com/bnema/tooldeck/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/tooldeck/internal/logging"
)

var (
	historyJSON  bool
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse remembered document views",
	Long: `List the documents whose last page and zoom are remembered, newest first.
Views are only recorded while history.enabled is true.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum entries (0 uses history.recent_limit)")
}

// rememberedViewJSON is the --json shape of one entry.
type rememberedViewJSON struct {
	Fingerprint string    `json:"fingerprint"`
	Name        string    `json:"name"`
	Page        int       `json:"page"`
	Scale       float64   `json:"scale"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func runHistory(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	path := app.Config.History.DatabasePath
	if path == "" {
		var err error
		if path, err = config.GetDatabaseFile(); err != nil {
			return err
		}
	}
	db := sqlite.NewLazyDB(path)
	defer func() {
		if err := db.Close(); err != nil {
			logging.FromContext(app.Ctx()).Warn().Err(err).Msg("close database")
		}
	}()
	remember := usecase.NewRememberViewUseCase(sqlite.NewLazyViewStateRepository(db))

	limit := historyLimit
	if limit <= 0 {
		limit = app.Config.History.RecentLimit
	}

	if !historyJSON {
		m := model.NewHistoryModel(app.Ctx(), app.Theme, remember, limit)
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}

	views, err := remember.Recent(app.Ctx(), limit)
	if err != nil {
		return err
	}
	out := make([]rememberedViewJSON, 0, len(views))
	for _, v := range views {
		out = append(out, rememberedViewJSON{
			Fingerprint: string(v.Fingerprint),
			Name:        v.Name,
			Page:        v.Page,
			Scale:       v.Scale,
			UpdatedAt:   v.UpdatedAt,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
