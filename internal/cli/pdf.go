package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jobb/internal/pdftext"
)

func newPDFCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pdf <file>",
		Short: "Print the text literals of a PDF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return userError(fmt.Errorf("file not found: %s", path))
			}
			text, err := pdftext.ReadFile(path)
			if err != nil {
				return sysError(err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{"text": text})
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
