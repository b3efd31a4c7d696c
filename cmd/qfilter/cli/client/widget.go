package client

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mwantia/qfilter/cmd/qfilter/cli"
	"github.com/mwantia/qfilter/internal/agent"
	"github.com/mwantia/qfilter/internal/editor"
	"github.com/mwantia/qfilter/internal/validation"
	"github.com/mwantia/qfilter/pkg/query"
	"github.com/mwantia/qfilter/pkg/widget"
)

// widgetInput is what `widget save` reads: the editor form as a user
// would have filled it in.
type widgetInput struct {
	Settings     widget.Settings    `json:"settings"`
	DataSourceID string             `json:"dataSourceId"`
	Columns      widget.Selection   `json:"columns"`
	ApplyFilters bool               `json:"applyFilters"`
	HideFilters  bool               `json:"hideFilters"`
	Filters      []query.FilterRule `json:"filters"`
}

func NewWidgetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widget",
		Short: "Manage filter editor widgets",
		Long:  "Save, inspect and reload the filter editor widgets kept in the metadata store.",
	}

	cmd.AddCommand(NewWidgetSaveCommand())
	cmd.AddCommand(NewWidgetShowCommand())
	cmd.AddCommand(NewWidgetLoadCommand())
	cmd.AddCommand(NewWidgetListCommand())
	cmd.AddCommand(NewWidgetRemoveCommand())

	return cmd
}

func NewWidgetSaveCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "save <id> [file]",
		Short: "Save a widget",
		Long: `Computes the result of an editor form and saves it under the widget id.

The form is read from the file, or stdin when no file is given. A result that
cannot be computed is saved as a diagnostic message and does not fail the save.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := cli.ReadInput(cmd.InOrStdin(), args[1:])
			if err != nil {
				return err
			}

			var input widgetInput
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("failed to parse widget form: %w", err)
			}
			if err := validation.Validate(input.Settings); err != nil {
				return fmt.Errorf("invalid widget settings: %w", err)
			}

			return runAgent(cmd.Context(), func(ctx context.Context, s *agent.Services) error {
				state, err := s.Editor.Load(ctx, args[0])
				if err != nil {
					return err
				}
				if err := applyInput(state, input); err != nil {
					return err
				}

				payload, err := s.Editor.Save(ctx, args[0], state)
				if err != nil {
					return err
				}

				return cli.WriteJSON(cmd.OutOrStdout(), payload, compact)
			})
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "write the output on a single line")

	return cmd
}

// applyInput replaces the form state with input, binding the data source
// it names from the catalog.
func applyInput(state *editor.State, input widgetInput) error {
	if state.LoadingError != "" {
		return fmt.Errorf("failed to load data sources: %s", state.LoadingError)
	}

	state.Settings = input.Settings
	state.DataSource = nil

	if input.DataSourceID != "" {
		found := false
		for i := range state.DataSources {
			if state.DataSources[i].ID == input.DataSourceID {
				state.SelectDataSource(&state.DataSources[i])
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown data source '%s'", input.DataSourceID)
		}
	}

	for _, entry := range input.Columns {
		if err := state.UpdateSelectedColumns(entry.Key, entry.Values); err != nil {
			return err
		}
	}
	state.Filters = input.Filters
	state.HideFilters = input.HideFilters
	state.SetApplyFilters(input.ApplyFilters)

	return nil
}

func NewWidgetShowCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the saved widget",
		Long:  "Writes the settings and the saved result, or diagnostic, of a widget.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd.Context(), func(ctx context.Context, s *agent.Services) error {
				instance, err := s.Editor.Instance(ctx, args[0])
				if err != nil {
					return err
				}
				return cli.WriteJSON(cmd.OutOrStdout(), instance, compact)
			})
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "write the output on a single line")

	return cmd
}

func NewWidgetLoadCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "load <id>",
		Short: "Load the editor form of a widget",
		Long:  "Rebuilds the editor form, including its filter rules, from what was last saved for the widget.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd.Context(), func(ctx context.Context, s *agent.Services) error {
				state, err := s.Editor.Load(ctx, args[0])
				if err != nil {
					return err
				}
				return cli.WriteJSON(cmd.OutOrStdout(), state, compact)
			})
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "write the output on a single line")

	return cmd
}

func NewWidgetListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List saved widgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd.Context(), func(ctx context.Context, s *agent.Services) error {
				widgets, err := s.Store.ListWidgets(ctx)
				if err != nil {
					return fmt.Errorf("failed to list widgets: %w", err)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tDATA SOURCE\tSTATUS\tUPDATED")
				for _, row := range widgets {
					status := "ok"
					if row.Failed {
						status = "failed"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.ID, row.DataSourceID, status, row.UpdatedAt.Format("2006-01-02 15:04:05"))
				}
				return w.Flush()
			})
		},
	}

	return cmd
}

func NewWidgetRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a saved widget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd.Context(), func(ctx context.Context, s *agent.Services) error {
				if err := s.Store.DeleteWidget(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to remove widget '%s': %w", args[0], err)
				}
				return nil
			})
		},
	}

	return cmd
}
