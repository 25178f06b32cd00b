package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

func newFittingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fitting",
		Short: "Read and write the fittings registry",
	}
	cmd.AddCommand(newFittingGetCmd(a), newFittingAddCmd(a), newFittingListCmd(a))
	return cmd
}

func newFittingGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show a fitting by code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			return a.withRegistry(func(reg types.FittingRegistry) error {
				f, err := reg.GetFitting(cmd.Context(), code)
				if errors.Is(err, types.ErrNotFound) {
					return userError(fmt.Errorf("fitting %q not found", code))
				}
				if err != nil {
					return sysError(fmt.Errorf("get fitting: %w", err))
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), f)
				}
				printFitting(cmd.OutOrStdout(), f)
				return nil
			})
		},
	}
}

func newFittingAddCmd(a *app) *cobra.Command {
	var (
		f                          types.Fitting
		crackingPressure, material string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert or update a fitting",
		Long: `Add stores a fitting, replacing any fitting with the same code.

Example:
  jobb fitting add --code 2B-XYZ-10-CS --description "Sample valve" \
    --series 2B --configuration XYZ --cracking-pressure "10 psi" --material "carbon steel"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("cracking-pressure") {
				f.CrackingPressure = types.StringPtr(crackingPressure)
			}
			if cmd.Flags().Changed("material") {
				f.Material = types.StringPtr(material)
			}
			if err := f.Validate(); err != nil {
				return userError(err)
			}
			return a.withRegistry(func(reg types.FittingRegistry) error {
				if err := reg.SetFitting(cmd.Context(), &f); err != nil {
					return sysError(fmt.Errorf("set fitting: %w", err))
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), &f)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Fitting %s saved\n", f.Code)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Code, "code", "", "fitting code (required)")
	cmd.Flags().StringVar(&f.Description, "description", "", "description (required)")
	cmd.Flags().StringVar(&f.Series, "series", "", "series (required)")
	cmd.Flags().StringVar(&f.Configuration, "configuration", "", "configuration (required)")
	cmd.Flags().StringVar(&crackingPressure, "cracking-pressure", "", "cracking pressure, e.g. \"25 psi\"")
	cmd.Flags().StringVar(&material, "material", "", "material, e.g. \"stainless steel\"")
	return cmd
}

func newFittingListCmd(a *app) *cobra.Command {
	var (
		series, material string
		limit, offset    int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fittings ordered by code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := types.Filter{}
			if series != "" {
				filter[types.FilterSeries] = series
			}
			if material != "" {
				filter[types.FilterMaterial] = material
			}
			if limit != 0 {
				filter[types.FilterLimit] = limit
			}
			if offset != 0 {
				filter[types.FilterOffset] = offset
			}
			return a.withRegistry(func(reg types.FittingRegistry) error {
				fittings, err := reg.FetchFittings(cmd.Context(), filter)
				if errors.Is(err, types.ErrInvalidFilter) {
					return userError(err)
				}
				if err != nil {
					return sysError(fmt.Errorf("fetch fittings: %w", err))
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), fittings)
				}
				printFittingTable(cmd.OutOrStdout(), fittings)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&series, "series", "", "only fittings in this series")
	cmd.Flags().StringVar(&material, "material", "", "only fittings of this material")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of fittings (0 for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of fittings to skip")
	return cmd
}

func printFitting(w io.Writer, f *types.Fitting) {
	st := newStyles(w)
	rows := [][2]string{
		{"Code", f.Code},
		{"Description", f.Description},
		{"Series", f.Series},
		{"Configuration", f.Configuration},
		{"Cracking pressure", types.Deref(f.CrackingPressure)},
		{"Material", types.Deref(f.Material)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s %s\n", st.key.Render(fmt.Sprintf("%-18s", r[0]+":")), r[1])
	}
}

func printFittingTable(w io.Writer, fittings []*types.Fitting) {
	st := newStyles(w)
	if len(fittings) == 0 {
		fmt.Fprintln(w, "No fittings found")
		return
	}

	rows := make([][]string, len(fittings))
	for i, f := range fittings {
		rows[i] = []string{
			f.Code,
			f.Description,
			f.Series,
			f.Configuration,
			types.Deref(f.CrackingPressure),
			types.Deref(f.Material),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.muted).
		Headers("CODE", "DESCRIPTION", "SERIES", "CONFIGURATION", "CRACKING PRESSURE", "MATERIAL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.header
			}
			return st.item.Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())
}
