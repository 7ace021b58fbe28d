// Package main provides the server backing the browser-based robot viewer.
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/tek2222/jsrob/viewer"
)

var logger = golog.NewDevelopmentLogger("jsrob_server")

const defaultPort = 8000

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Port      goutils.NetPortFlag `flag:"port,usage=port to listen on"`
	ModelDir  string              `flag:"models,usage=directory containing robot description files"`
	StaticDir string              `flag:"static,usage=directory of static frontend assets"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Port == 0 {
		argsParsed.Port = defaultPort
	}
	if argsParsed.ModelDir == "" {
		argsParsed.ModelDir = "public/models"
	}
	if argsParsed.StaticDir == "" {
		argsParsed.StaticDir = "public"
	}

	models, err := viewer.ListModels(argsParsed.ModelDir)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		logger.Warnw("no robot description files found", "dir", argsParsed.ModelDir)
	}
	for _, model := range models {
		logger.Infow("found model", "id", model.ID, "file", model.URDF)
	}

	server := viewer.NewServer(argsParsed.ModelDir, argsParsed.StaticDir, logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", argsParsed.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownDone <- httpServer.Shutdown(context.Background())
	}()

	logger.Infow("serving", "addr", httpServer.Addr)
	serveErr := httpServer.ListenAndServe()
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	} else if serveErr != nil {
		// the listener failed on its own; shutdown never ran
		return serveErr
	}
	return multierr.Combine(serveErr, <-shutdownDone)
}
