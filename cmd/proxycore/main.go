/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Command proxycore runs the intercepting HTTP proxy as a standalone
// process: parse flags/config, bind the listener, serve until interrupted.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sabouaram/proxycore/httpproxy"
	liblog "github.com/sabouaram/proxycore/logger"
	loglvl "github.com/sabouaram/proxycore/logger/level"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "proxycore",
		Short: "An intercepting HTTP/1.x proxy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	flags := cmd.Flags()
	flags.String("listen-addr", "", "address to bind the proxy listener, e.g. :9999")
	flags.Int("workers", 0, "max concurrent transactions (0 = runtime.NumCPU()-1, min 4)")
	flags.Duration("dial-timeout", 0, "timeout for DNS resolution + dialing upstream")
	flags.Duration("idle-timeout", 0, "idle timeout for client and upstream connections")
	flags.String("proxy-agent", "", "value advertised in synthetic Proxy-Agent headers")
	flags.String("log-level", "info", "lowest severity to log (debug, info, warn, error)")
	flags.String("metrics-addr", ":9998", "address to serve /metrics on, empty to disable")
	flags.String("config", "", "path to a proxycore config file (json/yaml/toml)")

	_ = v.BindPFlag("listen_addr", flags.Lookup("listen-addr"))
	_ = v.BindPFlag("worker_threads", flags.Lookup("workers"))
	_ = v.BindPFlag("dial_timeout", flags.Lookup("dial-timeout"))
	_ = v.BindPFlag("idle_timeout", flags.Lookup("idle-timeout"))
	_ = v.BindPFlag("proxy_agent", flags.Lookup("proxy-agent"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("metrics_addr", flags.Lookup("metrics-addr"))

	v.SetEnvPrefix("proxycore")
	v.AutomaticEnv()

	cobra.OnInitialize(func() {
		if p, _ := flags.GetString("config"); p != "" {
			v.SetConfigFile(p)
			_ = v.ReadInConfig()
		}
	})

	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	log := liblog.New(context.Background)
	log.SetLevel(loglvl.Parse(v.GetString("log_level")))
	log.SetSPF13Level(loglvl.WarnLevel)

	cfg := httpproxy.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding configuration: %w", err)
	}
	cfg = cfg.ApplyDefaults()

	if verr := cfg.Validate(); verr != nil {
		return fmt.Errorf("invalid configuration: %w", verr)
	}

	srv := httpproxy.NewServer(cfg, func() liblog.Logger { return log })
	srv.SetMetrics(httpproxy.NewMetrics(prometheus.DefaultRegisterer))

	if addr := v.GetString("metrics_addr"); addr != "" {
		go serveMetrics(log, addr)
	}

	log.Entry(loglvl.InfoLevel, "starting proxycore").
		FieldAdd("listen_addr", cfg.ListenAddr).
		FieldAdd("workers", cfg.Workers()).
		Log()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func serveMetrics(log liblog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Entry(loglvl.InfoLevel, "serving metrics").FieldAdd("addr", addr).Log()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Entry(loglvl.ErrorLevel, "metrics server failed").ErrorAdd(true, err).Log()
	}
}
