package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// ReadInput reads the file named by the first argument, or stdin when there
// is none or it is "-".
func ReadInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}

// WriteJSON writes v indented, or on one line when compact is set.
func WriteJSON(w io.Writer, v any, compact bool) error {
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
