package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shimteo/shimteo/internal/db"
	"github.com/shimteo/shimteo/internal/i18n"
	"github.com/shimteo/shimteo/internal/prefs"
	"github.com/shimteo/shimteo/internal/season"
)

func prefsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or reset stored preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored preferences, recent searches and storage keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(*flags)
			if err != nil {
				return err
			}
			defer e.close()
			printPrefs(cmd.OutOrStdout(), e.prefs.Snapshot())
			return printStorage(cmd.OutOrStdout(), e.db)
		},
	})

	var yes bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore default preferences, clear recent searches and forget the stored blob",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			e, err := bootstrap(*flags)
			if err != nil {
				return err
			}
			defer e.close()
			e.prefs.Reset()
			// Without a stored blob the next launch negotiates the language again.
			if err := e.db.Delete(prefs.StorageKey); err != nil {
				return fmt.Errorf("delete stored preferences: %w", err)
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Preferences reset.")
			return nil
		},
	}
	reset.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	cmd.AddCommand(reset)

	return cmd
}

func printPrefs(w io.Writer, p prefs.Preferences) {
	heading := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgYellow)
	dim := color.New(color.Faint)

	heading.Fprintln(w, "Settings")
	row := func(name string, value any) {
		label.Fprintf(w, "  %-24s", name)
		fmt.Fprintf(w, "%v\n", value)
	}
	row("text size", p.TextSize)
	row("typography mode", p.TypographyMode)
	row("senior facilities", p.ShowSeniorFacilities)
	row("cold shelters", p.ShowColdShelters)
	row("season", p.Season())
	row("language", fmt.Sprintf("%s (%s)", p.Language, i18n.Name(p.Language)))
	row("auto-locate on launch", p.AutoLocateOnLaunch)

	for _, sn := range season.All() {
		fmt.Fprintln(w)
		heading.Fprintf(w, "Recent searches (%s)\n", sn)
		items := p.RecentSearches[sn]
		if len(items) == 0 {
			dim.Fprintln(w, "  none")
			continue
		}
		for _, item := range items {
			label.Fprintf(w, "  %-8s", item.Kind)
			fmt.Fprint(w, item.Label)
			if item.Address != "" {
				dim.Fprintf(w, "  %s", item.Address)
			}
			dim.Fprintf(w, "  %s\n", item.Created().Format("2006-01-02 15:04"))
		}
	}
}

func printStorage(w io.Writer, store *db.Store) error {
	keys, err := store.Keys()
	if err != nil {
		return fmt.Errorf("list storage keys: %w", err)
	}
	heading := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	fmt.Fprintln(w)
	heading.Fprintln(w, "Storage")
	if len(keys) == 0 {
		dim.Fprintln(w, "  nothing stored yet")
		return nil
	}
	for _, key := range keys {
		entry, err := store.Get(key)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if entry == nil {
			continue
		}
		fmt.Fprintf(w, "  %-24s", key)
		dim.Fprintf(w, "%d bytes, updated %s\n", len(entry.Value), entry.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
