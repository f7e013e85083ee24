// Package main provides the classindex CLI: scan a directory of .class
// files or a jar, build an annotation index, and either dump it to stdout
// or serve scan metrics for a long-running --watch session.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edward-ap/classindex/classindex"
	"github.com/edward-ap/classindex/internal/jarwalk"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CLASSINDEX")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "classindex <path>",
		Short: "Build an annotation index over a jar or directory of .class files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, v, args[0])
		},
	}

	flags := root.Flags()
	flags.Bool("strict", true, "fail the scan on the first duplicate class name")
	flags.Bool("watch", false, "re-scan on filesystem changes (directory targets only)")
	flags.Bool("dump-annotations", false, "print the annotation index to stdout after scanning")
	flags.Bool("dump-subclasses", false, "print the subclass index to stdout after scanning")
	flags.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090) and block")
	for _, name := range []string{"strict", "watch", "dump-annotations", "dump-subclasses", "metrics-addr"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	return root
}

func runScan(cmd *cobra.Command, v *viper.Viper, target string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var reg *prometheus.Registry
	var serveErr chan error
	if addr := v.GetString("metrics-addr"); addr != "" {
		reg = prometheus.NewRegistry()
		serveErr = make(chan error, 1)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			logger.Info("serving metrics", slog.String("addr", addr))
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server stopped", slog.String("error", err.Error()))
				serveErr <- err
			}
		}()
	}

	mode := classindex.ModeLenient
	if v.GetBool("strict") {
		mode = classindex.ModeStrict
	}

	scan := func() (*classindex.Index, error) {
		opts := []classindex.Option{classindex.WithMode(mode), classindex.WithLogger(logger)}
		if reg != nil {
			opts = append(opts, classindex.WithMetricsRegisterer(reg))
		}
		builder := classindex.NewBuilder(opts...)
		if err := scanInto(builder, target); err != nil {
			return nil, err
		}
		idx := builder.Build()
		stats := builder.Stats()
		logger.Info("index built",
			slog.String("scan_id", stats.ScanID),
			slog.Int("scanned", stats.ScannedClasses),
			slog.Int("skipped", stats.SkippedClasses),
			slog.Int("malformed", stats.MalformedFiles),
		)
		return idx, nil
	}

	idx, err := scan()
	if err != nil {
		return err
	}
	if err := dump(cmd, v, idx); err != nil {
		return err
	}

	if !v.GetBool("watch") {
		if serveErr != nil {
			return <-serveErr
		}
		return nil
	}
	return watch(target, logger, func() {
		idx, err := scan()
		if err != nil {
			logger.Error("rescan failed", slog.String("error", err.Error()))
			return
		}
		if err := dump(cmd, v, idx); err != nil {
			logger.Error("dump failed", slog.String("error", err.Error()))
		}
	})
}

func scanInto(builder *classindex.Builder, target string) error {
	var entries []jarwalk.Entry
	var err error
	if strings.HasSuffix(strings.ToLower(target), ".jar") {
		entries, err = jarwalk.Jar(target)
	} else {
		entries, err = jarwalk.Dir(target)
	}
	if err != nil {
		return err
	}

	for _, e := range entries {
		if err := readOne(builder, e); err != nil {
			return fmt.Errorf("%s: %w", e.Path, err)
		}
	}
	return nil
}

func readOne(builder *classindex.Builder, e jarwalk.Entry) error {
	r, err := e.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	return builder.ReadClass(r)
}

func dump(cmd *cobra.Command, v *viper.Viper, idx *classindex.Index) error {
	out := cmd.OutOrStdout()
	if v.GetBool("dump-annotations") {
		if err := idx.PrintAnnotations(out); err != nil {
			return err
		}
	}
	if v.GetBool("dump-subclasses") {
		if err := idx.PrintSubclasses(out); err != nil {
			return err
		}
	}
	return nil
}

func watch(target string, logger *slog.Logger, onChange func()) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("--watch requires a directory target, got %s", target)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	err = filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("watching for changes", slog.String("root", target))
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if strings.HasSuffix(event.Name, ".class") {
				logger.Info("change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", slog.String("error", err.Error()))
		}
	}
}
