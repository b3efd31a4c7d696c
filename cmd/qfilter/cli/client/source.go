package client

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mwantia/qfilter/cmd/qfilter/cli"
	"github.com/mwantia/qfilter/internal/agent"
	"github.com/mwantia/qfilter/internal/validation"
	"github.com/mwantia/qfilter/pkg/db/models"
	"github.com/mwantia/qfilter/pkg/db/store"
)

type sourceInput struct {
	ID      string   `json:"id"      validate:"required"`
	Name    string   `json:"name"    validate:"required"`
	Columns []string `json:"columns" validate:"required,min=1,unique,dive,required"`
}

func NewSourceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Manage data sources",
		Long:  "Manage the data source catalog widgets are bound to and list, add or remove entries.",
	}

	cmd.AddCommand(NewSourceAddCommand())
	cmd.AddCommand(NewSourceListCommand())
	cmd.AddCommand(NewSourceRemoveCommand())

	return cmd
}

func NewSourceAddCommand() *cobra.Command {
	var name string
	var columns []string
	var update bool

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a data source",
		Long:  "Adds a data source with its ordered list of columns to the catalog.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := sourceInput{
				ID:      args[0],
				Name:    name,
				Columns: columns,
			}
			if input.Name == "" {
				input.Name = input.ID
			}
			if err := validation.Validate(input); err != nil {
				return fmt.Errorf("invalid data source: %w", err)
			}

			return runAgent(cmd.Context(), func(ctx context.Context, s *agent.Services) error {
				row := &models.DataSource{
					ID:      input.ID,
					Name:    input.Name,
					Columns: input.Columns,
				}

				if update {
					existing, err := s.Store.GetDataSource(ctx, row.ID)
					if err != nil {
						return err
					}
					row.CreatedAt = existing.CreatedAt
					if err := s.Store.UpdateDataSource(ctx, row); err != nil {
						return fmt.Errorf("failed to update data source '%s': %w", row.ID, err)
					}
				} else if err := s.Store.CreateDataSource(ctx, row); err != nil {
					return fmt.Errorf("failed to add data source '%s': %w", row.ID, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", row.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name of the data source (defaults to the id)")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Comma separated list of columns")
	cmd.Flags().BoolVar(&update, "update", false, "Replace an existing data source")

	return cmd
}

func NewSourceListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List data sources",
		Long:  "Lists every data source of the catalog together with its columns.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd.Context(), func(ctx context.Context, s *agent.Services) error {
				sources, err := store.NewStoreCatalog(s.Store).List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list data sources: %w", err)
				}

				if asJSON {
					return cli.WriteJSON(cmd.OutOrStdout(), sources, false)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCOLUMNS")
				for _, source := range sources {
					fmt.Fprintf(w, "%s\t%s\t%s\n", source.ID, source.Name, strings.Join(source.Columns, ","))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the catalog as JSON")

	return cmd
}

func NewSourceRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a data source",
		Long:  "Removes the data source from the catalog. Widgets bound to it keep their saved result.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd.Context(), func(ctx context.Context, s *agent.Services) error {
				if err := s.Store.DeleteDataSource(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to remove data source '%s': %w", args[0], err)
				}
				return nil
			})
		},
	}

	return cmd
}
