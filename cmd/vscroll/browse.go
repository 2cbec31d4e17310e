package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xqrs/vscroll"
	"github.com/xqrs/vscroll/internal/logging"
)

// followDebounce batches bursts of writes to a followed file into one append.
const followDebounce = 100 * time.Millisecond

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	var (
		generate int
		pageSize int
		filter   string
		key      string
		follow   bool
		rtl      bool
	)

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse the lines of a file, or generated rows, in a virtual list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			switch {
			case path == "" && generate <= 0:
				return errors.New("browse needs a file or --generate N")
			case path != "" && generate > 0:
				return errors.New("--generate cannot be combined with a file")
			case follow && path == "":
				return errors.New("--follow needs a file")
			}
			if !isTerminal(os.Stdout) {
				return errors.New("browse needs an interactive terminal")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			listCfg := cfg.List
			if cmd.Flags().Changed("key") {
				listCfg.PersistKey = key
			}
			if cmd.Flags().Changed("rtl") {
				listCfg.RTL = rtl
			}
			if follow {
				listCfg.Role = string(vscroll.RoleLog)
				listCfg.FollowTail = true
			}

			logger, err := ctx.newLogger(cfg, true)
			if err != nil {
				return err
			}
			backend, err := ctx.openStore(cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			opts := browserOptions{filter: filter}
			var tail *tailer
			switch {
			case follow:
				tail, err = newTailer(path)
				if err != nil {
					return err
				}
				defer tail.Close()
				if opts.items, err = tail.ReadAppended(); err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				opts.title = " " + filepath.Base(path) + " "
			case path != "":
				if opts.items, err = loadLines(path); err != nil {
					return err
				}
				opts.title = " " + filepath.Base(path) + " "
			default:
				opts.generateTotal = generate
				opts.pageSize = pageSize
				opts.title = fmt.Sprintf(" %d generated rows ", generate)
			}

			app := vscroll.NewApplication()
			b := newBrowser(listCfg, opts, app, backend, logger)
			b.copy = clipboard.WriteAll
			logger.Info("browse started",
				logging.String("source", opts.title),
				logging.Int("items", len(b.items)),
				logging.Bool("follow", follow))
			return runBrowser(cmd.Context(), app, b, tail)
		},
	}

	cmd.Flags().IntVar(&generate, "generate", 0, "Browse N generated rows instead of a file")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Generate rows in pages as the bottom is reached (0 generates all)")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show rows that fuzzy-match the pattern")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Remember the scroll position under this key")
	cmd.Flags().BoolVar(&follow, "follow", false, "Keep appending lines written to the file")
	cmd.Flags().BoolVar(&rtl, "rtl", false, "Lay the list out right to left")
	return cmd
}

// runBrowser runs the application until it stops. When following a file, the
// watcher runs beside it and appended lines are applied on the event loop.
func runBrowser(ctx context.Context, app *vscroll.Application, b *browser, tail *tailer) error {
	app.SetRoot(b)
	if tail == nil {
		return app.Run()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	debouncer := vscroll.NewDebouncer(app, followDebounce)
	defer debouncer.Cancel()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := tail.Watch(groupCtx, func() {
			debouncer.Trigger(func() { b.follow(tail) })
		})
		if err != nil {
			app.Stop()
		}
		return err
	})
	group.Go(func() error {
		defer cancel()
		return app.Run()
	})
	return group.Wait()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
