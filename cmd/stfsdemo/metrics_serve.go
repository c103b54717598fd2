package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"stfs/internal/config"
	"stfs/internal/logging"
)

// newServeMetricsCmd serves the internal/metrics gauges/counters over
// plain net/http on a single /metrics handler.
func newServeMetricsCmd(loadCfg func() (config.Config, error)) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve Prometheus metrics for an STFS mount",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.MetricsListen
			}
			if listen == "" {
				listen = "127.0.0.1:9464"
			}

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())

			logging.Infof("serving metrics on %s", listen)
			return http.ListenAndServe(listen, mux)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", fmt.Sprintf("listen address (default %s)", "127.0.0.1:9464"))
	return cmd
}
