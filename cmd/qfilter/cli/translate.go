package cli

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mwantia/qfilter/pkg/query"
)

func NewEncodeCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode filter rules into a query filter",
		Long: fmt.Sprintf(`Encode a JSON list of filter rules into the persisted query filter.

Each rule has the form {"column": "Name", "operator": "contains", "value": "Jo", "ignoreCase": true}.
Supported operators: %s.
Reads from stdin when no file is given.`, operatorList()),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ReadInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			var rules []query.FilterRule
			if err := json.Unmarshal(data, &rules); err != nil {
				return fmt.Errorf("failed to parse filter rules: %w", err)
			}

			filter, err := query.EncodeFilters(rules, query.Options{})
			if err != nil {
				return err
			}

			return WriteJSON(cmd.OutOrStdout(), filter, compact)
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "write the output on a single line")

	return cmd
}

func NewDecodeCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a query filter into filter rules",
		Long: `Decode a persisted query filter of the form {"$and": [{"Name": {"$iLike": "%Jo%"}}]}
into the list of filter rules an editor works with.

Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ReadInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			rules, err := query.DecodeJSON(data, query.Options{})
			if err != nil {
				return err
			}

			return WriteJSON(cmd.OutOrStdout(), rules, compact)
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "write the output on a single line")

	return cmd
}

func operatorList() string {
	names := make([]string, 0, len(query.Operators))
	for _, op := range query.Operators {
		names = append(names, op.String())
	}
	return strings.Join(names, ", ")
}
