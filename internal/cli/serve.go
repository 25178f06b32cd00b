package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jobb/internal/api"
	"github.com/mesh-intelligence/jobb/internal/logging"
	"github.com/mesh-intelligence/jobb/internal/metrics"
	"github.com/mesh-intelligence/jobb/pkg/types"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				a.settings.Listen = listen
			}
			return a.runServe(cmd)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default from config, :8000)")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command) error {
	brand, err := types.ParseBrand(a.settings.Brand)
	if err != nil {
		return userError(fmt.Errorf("config brand: %w", err))
	}

	logger, err := logging.New(a.settings.Debug)
	if err != nil {
		return sysError(err)
	}
	defer func() { _ = logger.Sync() }()

	return a.withRegistry(func(reg types.FittingRegistry) error {
		srv := api.NewServer(api.Config{
			Listen:            a.settings.Listen,
			Brand:             brand,
			StrictTransitions: a.settings.StrictTransitions,
			PDFRoot:           a.settings.PDFRoot,
			MaxUploadBytes:    a.settings.MaxUploadBytes,
		}, reg, api.WithLogger(logger), api.WithMetrics(metrics.DefaultRegistry()))

		logger.Info("jobb server configured",
			zap.String("listen", a.settings.Listen),
			zap.String("backend", a.settings.Backend),
			zap.String("brand", string(brand)),
			zap.Bool("strict_transitions", a.settings.StrictTransitions))

		if err := srv.Run(cmd.Context()); err != nil {
			return sysError(err)
		}
		return nil
	})
}
