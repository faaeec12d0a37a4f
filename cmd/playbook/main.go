package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"playbook/internal/app"
	"playbook/internal/config"
	"playbook/internal/core"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Export", "BackupRun").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "playbook",
	Short: "Football play diagram manager",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:  %s\n", cfg.LogDir)
		fmt.Printf("Database: %s\n", cfg.Database.Type)
		for _, d := range cfg.Offsite {
			fmt.Printf("Offsite:  %s (%s)\n", d.Name, d.Type)
		}
		return nil
	},
}

// play command

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Manage plays",
}

var playListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all plays",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("PlayList")
		if err != nil {
			return err
		}
		defer a.Close()

		plays, err := a.Service().ListPlays()
		if err != nil {
			return err
		}
		for _, p := range plays {
			fmt.Printf("%s  %-30s  %-8s  updated %s\n",
				p.ID, p.Metadata.Title, p.Metadata.Type,
				p.Metadata.UpdatedAt.Format("2006-01-02 15:04"))
		}
		if len(plays) == 0 {
			fmt.Println("No plays.")
		}
		return nil
	},
}

var playShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a play",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("PlayShow")
		if err != nil {
			return err
		}
		defer a.Close()

		play, err := a.Service().GetPlay(args[0])
		if err != nil {
			return err
		}
		if play == nil {
			return fmt.Errorf("play not found: %s", args[0])
		}
		fmt.Printf("Title:       %s\n", play.Metadata.Title)
		fmt.Printf("Type:        %s\n", play.Metadata.Type)
		fmt.Printf("Description: %s\n", play.Metadata.Description)
		fmt.Printf("Players:     %d\n", len(play.Players))
		fmt.Printf("Arrows:      %d\n", len(play.Arrows))
		fmt.Printf("Texts:       %d\n", len(play.Texts))
		return nil
	},
}

var playDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a play",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("PlayDelete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeletePlay(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted play %s\n", args[0])
		return nil
	},
}

// playlist command

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Manage playlists",
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all playlists",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("PlaylistList")
		if err != nil {
			return err
		}
		defer a.Close()

		playlists, err := a.Service().ListPlaylists()
		if err != nil {
			return err
		}
		for _, p := range playlists {
			fmt.Printf("%s  %-30s  %d plays\n", p.ID, p.Title, len(p.PlayIDs))
		}
		if len(playlists) == 0 {
			fmt.Println("No playlists.")
		}
		return nil
	},
}

var playlistShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a playlist with its plays in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("PlaylistShow")
		if err != nil {
			return err
		}
		defer a.Close()

		playlist, entries, err := a.Service().ResolvePlaylist(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\n%s\n\n", playlist.Title, playlist.Description)
		for i, e := range entries {
			if e.Missing {
				fmt.Printf("%3d. (missing play %s)\n", i+1, e.PlayID)
				continue
			}
			fmt.Printf("%3d. %s\n", i+1, e.Play.Metadata.Title)
		}
		return nil
	},
}

// formation command

var formationCmd = &cobra.Command{
	Use:   "formation",
	Short: "Manage formation templates",
}

var formationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all formation templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("FormationList")
		if err != nil {
			return err
		}
		defer a.Close()

		formations, err := a.Service().ListFormations()
		if err != nil {
			return err
		}
		for _, f := range formations {
			fmt.Printf("%s  %-30s  %-8s  %d players\n", f.ID, f.Name, f.Team, len(f.Placements))
		}
		if len(formations) == 0 {
			fmt.Println("No formations.")
		}
		return nil
	},
}

var formationApplyCmd = &cobra.Command{
	Use:   "apply <formation-id> <play-id>",
	Short: "Apply a formation template to a play",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("FormationApply")
		if err != nil {
			return err
		}
		defer a.Close()

		formation, err := a.Service().GetFormation(args[0])
		if err != nil {
			return err
		}
		if formation == nil {
			return fmt.Errorf("formation not found: %s", args[0])
		}

		play, err := a.Service().GetPlay(args[1])
		if err != nil {
			return err
		}
		if play == nil {
			return fmt.Errorf("play not found: %s", args[1])
		}

		a.Service().ApplyFormation(play, formation)
		if err := a.Service().SavePlay(play); err != nil {
			return err
		}
		fmt.Printf("Applied %s to %s (%d players placed)\n",
			formation.Name, play.Metadata.Title, len(formation.Placements))
		return nil
	},
}

// export / import commands

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all data to a backup file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Export")
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.Export(exportOutput)
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

var (
	importOverwrite      bool
	importKeepDuplicates bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Import")
		if err != nil {
			return err
		}
		defer a.Close()

		opts := core.DefaultImportOptions()
		opts.Overwrite = importOverwrite
		if importKeepDuplicates {
			opts.SkipDuplicates = false
		}

		result, err := a.Import(args[0], opts)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
		if !result.Success {
			return fmt.Errorf("import was not successful")
		}
		return nil
	},
}

// backup command

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage auto-backups",
}

var backupRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backup due-check now",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("BackupRun")
		if err != nil {
			return err
		}
		defer a.Close()

		result := a.Scheduler().RunManualCheck()
		fmt.Println(result.Message)
		if !result.Success && !result.Busy {
			return fmt.Errorf("backup check failed")
		}
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List retained backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("BackupList")
		if err != nil {
			return err
		}
		defer a.Close()

		backups, err := a.ListBackups()
		if err != nil {
			return err
		}
		for _, b := range backups {
			fmt.Printf("%s  %s  %d bytes  %s\n",
				b.ID, b.Filename, b.Size, b.CreatedAt.Format("2006-01-02 15:04"))
		}
		if len(backups) == 0 {
			fmt.Println("No backups.")
		}
		return nil
	},
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove backups beyond the retention limit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("BackupPrune")
		if err != nil {
			return err
		}
		defer a.Close()

		deleted, err := a.Scheduler().CleanupOldBackups()
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d backup(s)\n", deleted)
		return nil
	},
}

var backupWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the auto-backup scheduler until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("BackupWatch")
		if err != nil {
			return err
		}
		defer a.Close()

		a.Scheduler().Start()
		fmt.Println("Auto-backup scheduler running. Press Ctrl-C to stop.")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		a.Scheduler().Stop()
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path")
	importCmd.Flags().BoolVar(&importOverwrite, "overwrite", false, "replace same-id entities in place")
	importCmd.Flags().BoolVar(&importKeepDuplicates, "keep-duplicates", false, "report name collisions as errors instead of skipping them silently")

	configCmd.AddCommand(configInitCmd, configListCmd)
	playCmd.AddCommand(playListCmd, playShowCmd, playDeleteCmd)
	playlistCmd.AddCommand(playlistListCmd, playlistShowCmd)
	formationCmd.AddCommand(formationListCmd, formationApplyCmd)
	backupCmd.AddCommand(backupRunCmd, backupListCmd, backupPruneCmd, backupWatchCmd)

	rootCmd.AddCommand(configCmd, playCmd, playlistCmd, formationCmd, exportCmd, importCmd, backupCmd)
}
