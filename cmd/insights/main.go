package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	insights "github.com/Fahada-Code/Predictive-Business-Insights-Platform"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/client"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/forecast"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/internal/config"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/internal/server"
	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/timedataset"
	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
)

const usage = `usage: insights [-cpuprofile dir] <command> [flags]

commands:
  sample   write a synthetic ds,y dataset
  serve    start the dashboard server
  plot     render a stored forecast response as an html chart
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("insights", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	cpuProfile := fs.String("cpuprofile", "", "write a cpu profile to this directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	if *cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuProfile), profile.Quiet).Stop()
	}

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "sample":
		return runSample(cmdArgs, stdout, stderr)
	case "serve":
		return runServe(cmdArgs, stderr)
	case "plot":
		return runPlot(cmdArgs, stdout, stderr)
	}
	fmt.Fprintf(stderr, "unknown command %q\n", cmd)
	fs.Usage()
	return errUsage
}

func runSample(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	fs.SetOutput(stderr)
	points := fs.Int("points", timedataset.DefaultSyntheticPoints, "number of daily rows")
	start := fs.Float64("start", timedataset.DefaultSyntheticStart, "value of the first row")
	seed := fs.Uint64("seed", 0, "seed for reproducible output, 0 draws a random series")
	out := fs.String("o", "", "output file, stdout when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var rnd timedataset.Float64Source
	if *seed != 0 {
		rnd = rand.New(rand.NewPCG(*seed, *seed))
	}
	rows, err := timedataset.GenerateSynthetic(*points, *start, rnd, nil)
	if err != nil {
		return fmt.Errorf("unable to generate sample, %w", err)
	}
	return writeOutput(*out, stdout, []byte(timedataset.SyntheticCSV(rows)))
}

func runServe(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "yaml config file")
	envFile := fs.String("env", ".env", "dotenv file loaded before the environment is read")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		return err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("unable to load config, %w", err)
	}

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}

	fc := client.New(cfg.Upstream.URL, &http.Client{Timeout: cfg.Upstream.Timeout})
	srv := server.New(cfg, logger, fc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Error("server stopped")
		return err
	}
	logger.Info("server stopped")
	return nil
}

func runPlot(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "forecast response json")
	historyPath := fs.String("history", "", "csv dataset the forecast was requested for")
	out := fs.String("o", "", "output html file, stdout when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return errUsage
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("unable to read forecast response, %w", err)
	}
	var res forecast.Results
	if err := json.Unmarshal(raw, &res); err != nil {
		return fmt.Errorf("unable to decode forecast response, %w", err)
	}

	var history *timedataset.TimeDataset
	if *historyPath != "" {
		f, err := os.Open(*historyPath)
		if err != nil {
			return fmt.Errorf("unable to open history, %w", err)
		}
		defer f.Close()
		history, err = timedataset.ReadCSV(f)
		if err != nil {
			return fmt.Errorf("unable to read history, %w", err)
		}
	}

	d, err := insights.Build(&res, history, nil)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := insights.PlotDashboard(&buf, d); err != nil {
		return err
	}
	return writeOutput(*out, stdout, buf.Bytes())
}

func newLogger(cfg config.LogConfig, w io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("unable to parse log level, %w", err)
	}
	logger.SetLevel(level)
	if strings.EqualFold(cfg.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write %s, %w", path, err)
	}
	return nil
}
