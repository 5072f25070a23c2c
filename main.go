package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"langromanizer/analyze"
	"langromanizer/config"
	"langromanizer/display"
	"langromanizer/ingest"
	"langromanizer/logger"
	"langromanizer/lyrics"
	"langromanizer/romanize"
	"langromanizer/session"
	"langromanizer/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	file := flag.String("file", "", "lyrics file to romanize (.json, .lrc or .txt)")
	watchDir := flag.String("watch", "", "directory to watch for lyrics files")
	htmlPath := flag.String("html", "", "lyrics presentation (HTML) to apply the result to")
	toggle := flag.Bool("toggle", false, "press the romanize button once after processing")
	lookup := flag.String("lookup", "", "print the stored result of a track and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Format: cfg.Log.Format, Level: cfg.LogLevel()})

	st, err := openStore(cfg, log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	var opts []lyrics.Option
	if cfg.Settings.ShowDebugLog {
		dumper, err := logger.NewDumper(cfg.Log.DumpDir)
		if err != nil {
			log.Warn("debug dumps disabled", "dir", cfg.Log.DumpDir, "error", err)
		} else {
			opts = append(opts, lyrics.WithDumper(dumper))
		}
	}

	settings := cfg.Model()
	loader := analyze.NewLoader(analyze.KagomeFactory(cfg.Analyzer.Dictionary, log), log)
	router := romanize.New(loader, settings, log)
	processor := lyrics.NewProcessor(router, settings, log, opts...)
	page := &display.Page{}
	sess := session.New(session.Config{
		Loader:       loader,
		Processor:    processor,
		Display:      display.NewController(processor, log),
		Store:        st,
		Presentation: page,
		Settings:     settings,
		InitTimeout:  cfg.Analyzer.InitTimeout,
		Logger:       log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *htmlPath != "" {
		f, err := os.Open(*htmlPath)
		if err != nil {
			log.Error("failed to open presentation", "error", err)
			os.Exit(1)
		}
		root, err := display.Parse(f)
		f.Close()
		if err != nil {
			log.Error("failed to parse presentation", "error", err)
			os.Exit(1)
		}
		page.Mount(root)
	}

	switch {
	case *lookup != "":
		rec, err := sess.Lookup(ctx, *lookup)
		if err != nil {
			log.Error("lookup failed", "track", *lookup, "error", err)
			os.Exit(1)
		}
		printJSON(rec)
	case *file != "":
		if err := romanizeFile(ctx, sess, page, *file, *toggle); err != nil {
			os.Exit(1)
		}
	case *watchDir != "":
		if err := watch(ctx, sess, log, *watchDir); err != nil {
			log.Error("watcher stopped", "error", err)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func openStore(cfg *config.Config, log *slog.Logger) (store.Store, error) {
	if cfg.Store.Driver == "badger" {
		return store.OpenBadger(cfg.Store.Path, log)
	}
	return store.NewMemory(), nil
}

func romanizeFile(ctx context.Context, sess *session.Session, page *display.Page, path string, toggle bool) error {
	doc, err := ingest.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read lyrics:", err)
		return err
	}
	res, err := sess.OnLyrics(ctx, doc)
	if err != nil {
		return err
	}
	if res == nil {
		fmt.Println("no lyrics")
		return nil
	}
	if toggle {
		if _, err := sess.Toggle(ctx); err != nil {
			return err
		}
	}

	if root, ok := page.Container(); ok {
		return display.Render(os.Stdout, root)
	}
	printJSON(map[string]any{
		"trackId":  res.Pass.TrackID,
		"skipped":  res.Skipped,
		"map":      res.Map,
		"document": res.Document,
	})
	return nil
}

func watch(ctx context.Context, sess *session.Session, log *slog.Logger, dir string) error {
	w, err := ingest.NewWatcher(log, 0)
	if err != nil {
		return err
	}
	defer w.Stop()
	if err := w.Watch(dir); err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	log.Info("watching for lyrics", "dir", dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case err := <-w.Errors():
			log.Warn("watch error", "error", err)
		case ev := <-w.Events():
			res, err := sess.OnLyrics(ctx, ev.Document)
			if err != nil || res == nil {
				continue
			}
			for _, l := range res.Lines {
				fmt.Printf("%s\t%s\n", l.Original, l.Romanized)
			}
		}
	}
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
