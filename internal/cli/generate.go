package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/jobb/internal/handleliste"
	"github.com/mesh-intelligence/jobb/pkg/types"
)

// Input formats accepted by generate.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

var (
	errUnknownFormat     = errors.New("unknown input format")
	errMissingComponents = errors.New("components is required")
)

// systemFile is the on-disk form of a piping system. Brand is optional.
type systemFile struct {
	Components []types.Component `json:"components" yaml:"components" toml:"components"`
	Lines      []types.Line      `json:"lines" yaml:"lines" toml:"lines"`
	Brand      string            `json:"brand" yaml:"brand" toml:"brand"`
}

type generateOptions struct {
	brand  string
	strict bool
	format string
}

func newGenerateCmd(a *app) *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Generate the handleliste for a piping system file",
		Long: `Generate reads a piping system from a JSON, YAML or TOML file and prints
its handleliste. The format follows the file extension unless --format is
given. Use "-" to read JSON from standard input.

Example:
  jobb generate system.yaml
  jobb generate --brand swagelok --strict system.toml
  jobb generate --json system.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strict") {
				opts.strict = a.settings.StrictTransitions
			}
			return a.runGenerate(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.brand, "brand", "", "fitting brand: parker, swagelok or hylok (default from file or config)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject component pairs outside the transition whitelist")
	cmd.Flags().StringVar(&opts.format, "format", "", "input format: json, yaml or toml")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, path string, opts generateOptions) error {
	data, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return userError(err)
	}

	format := opts.format
	if format == "" {
		format = formatForPath(path)
	}
	sys, err := decodeSystem(data, format)
	if err != nil {
		return userError(fmt.Errorf("parse %s: %w", path, err))
	}

	brandName := opts.brand
	if brandName == "" {
		brandName = sys.Brand
	}
	if brandName == "" {
		brandName = a.settings.Brand
	}
	brand, err := types.ParseBrand(brandName)
	if err != nil {
		return userError(err)
	}

	gen := handleliste.New(handleliste.WithStrictTransitions(opts.strict))
	resp, err := gen.Generate(types.PipingSystem{Components: sys.Components, Lines: sys.Lines}, brand)
	if err != nil {
		return userError(err)
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, resp)
	}
	printHandleliste(out, brand, resp.Items)
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".toml":
		return formatTOML
	default:
		return formatJSON
	}
}

func decodeSystem(data []byte, format string) (*systemFile, error) {
	var sys systemFile
	switch strings.ToLower(format) {
	case formatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sys); err != nil {
			return nil, err
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &sys); err != nil {
			return nil, err
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &sys); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w %q (want json, yaml or toml)", errUnknownFormat, format)
	}
	// An empty list is a valid system; only an absent key is rejected.
	if sys.Components == nil {
		return nil, errMissingComponents
	}
	return &sys, nil
}

// printHandleliste writes a numbered list. Fitting items are highlighted so
// they stand out from component labels.
func printHandleliste(w io.Writer, brand types.Brand, items []string) {
	st := newStyles(w)
	fmt.Fprintln(w, st.title.Render(fmt.Sprintf("Handleliste (%s)", brand.DisplayName())))
	width := len(fmt.Sprint(len(items)))
	for i, item := range items {
		style := st.fitting
		if strings.HasSuffix(item, " Item") {
			style = st.item
		}
		fmt.Fprintf(w, "%s %s\n", st.index.Render(fmt.Sprintf("%*d.", width, i+1)), style.Render(item))
	}
}
