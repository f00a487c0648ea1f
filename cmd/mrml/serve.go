// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cerrors "cogentcore.org/core/base/errors"
	"cogentcore.org/mrml/module"
	"cogentcore.org/mrml/module/climodule"
	"cogentcore.org/mrml/remote"
	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	var listen, sceneFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the events of a scene to remote viewers",
		Long: "Serve the events of a scene over a websocket at /ws, reloading the\n" +
			"command line modules when their executables change.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = a.cfg.Listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, listen, sceneFile)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "address to listen on (default from the config)")
	cmd.Flags().StringVar(&sceneFile, "scene", "", "scene file to load")
	return cmd
}

// serve runs the scene loop and the remote server until ctx is done.
func (a *app) serve(ctx context.Context, listen, sceneFile string) error {
	f, closeCache := a.factory()
	defer closeCache()
	s, mm := a.newScene()
	if sceneFile != "" {
		fp, err := os.Open(sceneFile)
		if err != nil {
			return err
		}
		err = s.Import(fp)
		fp.Close()
		if err != nil {
			return err
		}
	}
	mods, failed := f.Scan(ctx)
	register(mm, mods, failed)

	hub := remote.NewHub()
	hub.Attach(s)
	go hub.Run(ctx)

	l := newLoop()
	if len(f.SearchPaths) > 0 {
		w, err := climodule.NewWatcher(f.SearchPaths...)
		if err != nil {
			return err
		}
		defer w.Close()
		go w.Run(ctx, func(c climodule.Change) {
			reload(ctx, f, c, l.post, mm)
		})
	}

	srv := &http.Server{Addr: listen, Handler: remote.NewServer(hub)}
	errc := make(chan error, 1)
	go func() {
		slog.Info("serving scene events", "addr", listen, "nodes", s.NumberOfNodes())
		errc <- srv.ListenAndServe()
	}()

	for {
		select {
		case fn := <-l:
			fn()
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			hub.Attach(nil)
			return srv.Shutdown(sctx)
		}
	}
}

// reload loads or unloads the module of a changed executable, applying
// the result to the manager on the scene goroutine.
func reload(ctx context.Context, f *climodule.Factory, c climodule.Change, post func(func()), mm *module.Manager) {
	name := climodule.ModuleName(c.Path)
	if c.Removed {
		post(func() {
			if mm.Unregister(name) {
				slog.Info("unloaded module", "name", name)
			}
		})
		return
	}
	m, le := f.Load(ctx, c.Path)
	post(func() {
		mm.Unregister(name)
		if le != nil {
			mm.SetLoadError(name, cerrors.Log(le))
			return
		}
		if cerrors.Log(mm.Register(m)) == nil {
			slog.Info("loaded module", "name", name, "title", m.Title)
		}
	})
}
