package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/asaidimu/crudsql/internal/config"
	"github.com/asaidimu/crudsql/internal/logger"
	"github.com/asaidimu/crudsql/pkg/core"
)

func newCompileCmd(a *app) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "compile [file|-]",
		Short: "Compile one request envelope",
		Long: `The compile command reads a JSON request envelope from a file, or from stdin when
the argument is "-" or omitted, and prints {"query": ..., "params": [...]}.

On failure it prints {"kind": ..., "message": ...} and exits non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readRequest(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			stmt, err := a.generator.Compile(raw)
			if err != nil {
				var ce *core.Error
				if !errors.As(err, &ce) {
					return err
				}
				logger.Error("compile failed", "kind", ce.Kind, "message", ce.Message)
				if werr := writeJSON(cmd.OutOrStdout(), ce, pretty); werr != nil {
					return werr
				}
				return errReported
			}

			logger.Info("compiled statement", "params", len(stmt.Params))
			logger.Debug("statement text", "query", stmt.Query)
			return writeJSON(cmd.OutOrStdout(), stmt, pretty)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func readRequest(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := afero.ReadFile(config.AppFs, args[0])
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return raw, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
