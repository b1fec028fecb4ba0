package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tvfinder/tvfinder/internal/controller"
	"github.com/tvfinder/tvfinder/internal/logger"
	"github.com/tvfinder/tvfinder/internal/tvmaze"
	"github.com/tvfinder/tvfinder/internal/view"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search shows by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := strings.Join(args, " ")
		ctrl, shows, _ := newTextController()
		if err := ctrl.Search(cmd.Context(), term); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), shows.Content())
		return nil
	},
}

var episodesCmd = &cobra.Command{
	Use:   "episodes <show-id>",
	Short: "List a show's episodes grouped by season",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid show id %q", args[0])
		}
		ctrl, _, episodes := newTextController()
		if err := ctrl.ShowEpisodes(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), episodes.Content())
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if file := loader.ConfigFile(); file != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", file)
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

// newTextController wires a controller to in-memory regions rendered as
// terminal text. Logs go to stderr so they never mix with results.
func newTextController() (*controller.Controller, *view.MemoryRegion, *view.MemoryRegion) {
	logCfg := logger.FromConfig(cfg.Logging)
	logCfg.Path = ""
	logCfg.Out = os.Stderr
	log := logger.New(logCfg)
	if logLevel == "" {
		_ = log.SetLevel("warn")
	}

	ui, shows, episodes := view.NewMemoryUIContext()
	catalog := tvmaze.NewClient(cfg.Catalog, log.WithComponent("tvmaze").Logger)
	ctrl := controller.New(catalog, view.NewRenderer(ui, view.Text()), log.WithComponent("controller").Logger)
	return ctrl, shows, episodes
}

