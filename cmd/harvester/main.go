package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/wwntg/news-harvester/internal/api"
	"github.com/wwntg/news-harvester/internal/app"
	"github.com/wwntg/news-harvester/internal/config"
	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/logger"
	"github.com/wwntg/news-harvester/internal/storage"
	"gopkg.in/yaml.v3"
)

// runtime is shared by every command: config and logger are loaded once
// before the command executes.
type runtime struct {
	ctx context.Context
	cfg *config.Config
	log logger.Logger
}

var rt runtime

type IngestCommand struct {
	Interval time.Duration `long:"interval" description:"Keep ingesting at this interval (e.g. 15m); overrides INGEST_INTERVAL"`
}

func (c *IngestCommand) Execute([]string) error {
	cfg := *rt.cfg
	if c.Interval > 0 {
		cfg.Interval = c.Interval
	}

	harvester, err := app.NewHarvester(rt.ctx, &cfg, rt.log)
	if err != nil {
		return fmt.Errorf("init harvester: %w", err)
	}
	defer func() {
		if err := harvester.Close(); err != nil {
			rt.log.ErrorObj("harvester close failed", "error", err.Error())
		}
	}()

	return harvester.Run(rt.ctx)
}

type ShowCommand struct {
	Args struct {
		Source string `positional-arg-name:"source" description:"Source name (UA, WORLD) or label" required:"true"`
	} `positional-args:"yes"`
	Summary int `long:"summary" default:"0" description:"Trim article bodies to this many characters"`
}

func (c *ShowCommand) Execute([]string) error {
	id, err := domain.Resolve(c.Args.Source)
	if err != nil {
		return err
	}

	store, err := app.OpenStore(rt.ctx, rt.cfg, rt.log)
	if err != nil {
		return err
	}
	defer store.Close()

	data, err := app.NewNewsReader(store).GetNewsData(rt.ctx, id)
	if err != nil {
		return err
	}
	if !data.Found {
		fmt.Fprintf(os.Stdout, "%s: no news stored yet\n", data.Label)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%s (%s)\n\n", data.Label, data.Batch.Time().UTC().Format(time.RFC3339))
	for _, a := range data.Batch.Articles {
		body := a.Body
		if c.Summary > 0 {
			body = a.Summary(c.Summary)
		}
		fmt.Fprintf(os.Stdout, "%s\n%s\n%s\n\n", a.Title, a.URL, body)
	}
	return nil
}

type ExportCommand struct {
	Format string `long:"format" choice:"json" choice:"yaml" default:"json" description:"Output format"`
	Output string `long:"output" short:"o" description:"Write to file instead of stdout"`
}

func (c *ExportCommand) Execute([]string) error {
	store, err := app.OpenStore(rt.ctx, rt.cfg, rt.log)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := app.NewNewsReader(store).All(rt.ctx)
	if err != nil {
		return err
	}

	if c.Output == "" {
		return encodeSnapshots(os.Stdout, c.Format, snaps)
	}
	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	return writeExport(f, c.Format, snaps)
}

// writeExport encodes snaps into w and closes it. The close error is returned
// when encoding succeeded.
func writeExport(w io.WriteCloser, format string, snaps []storage.Snapshot) error {
	if err := encodeSnapshots(w, format, snaps); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}

func encodeSnapshots(w io.Writer, format string, snaps []storage.Snapshot) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(snaps); err != nil {
			_ = enc.Close()
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snaps); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

type ServeCommand struct {
	Addr string `long:"addr" description:"Listen address; overrides API_ADDR"`
}

func (c *ServeCommand) Execute([]string) error {
	addr := rt.cfg.APIAddr
	if c.Addr != "" {
		addr = c.Addr
	}

	store, err := app.OpenStore(rt.ctx, rt.cfg, rt.log)
	if err != nil {
		return err
	}
	defer store.Close()

	router := api.NewServer(api.NewHandler(app.NewNewsReader(store), rt.log), rt.log)
	return api.Serve(rt.ctx, addr, router, rt.log)
}

func main() {
	if err := run(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "harvester: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	parser := flags.NewNamedParser("harvester", flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err := logger.Init(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Close()

		logger.InfoObj("harvester starting", "config", cfg.Redacted())
		rt = runtime{ctx: ctx, cfg: cfg, log: log}

		if err := cmd.Execute(args); err != nil {
			logger.ErrorObj("command failed", "error", err.Error())
			return err
		}
		return nil
	}

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"ingest", "Fetch every source and replace its snapshot", "Runs one ingest pass; with --interval keeps running until interrupted.", &IngestCommand{}},
		{"show", "Print the stored news for one source", "Prints the latest snapshot of a source.", &ShowCommand{}},
		{"export", "Dump every stored snapshot", "Writes all stored snapshots as JSON or YAML.", &ExportCommand{}},
		{"serve", "Serve stored snapshots over HTTP", "Starts the read API.", &ServeCommand{}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return fmt.Errorf("register %s command: %w", c.name, err)
		}
	}

	_, err := parser.Parse()
	return err
}
