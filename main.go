package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/oaiiae/contactbook/cli/api"
	"github.com/oaiiae/contactbook/cli/contacts"
	"github.com/oaiiae/contactbook/cli/logger"
	"github.com/oaiiae/contactbook/datastores"
)

// Set by the linker at build time.
var (
	version  = "dev"
	revision = "none"
	created  = "unknown"
)

// Options for the CLI. Every flag can be set with a SERVICE_ prefixed env var,
// e.g. `--data-file` with `SERVICE_DATA_FILE`.
type Options struct {
	api.ServerOptions
	api.RouterOptions
	api.StoreOptions
	logger.Options
}

func main() {
	cli, failed := newCLI()
	cli.Run()
	if failed.err != nil {
		os.Exit(1)
	}
}

func newCLI() (humacli.CLI, *failure) {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		log := logger.New(&options.Options)
		metriks := metrics.NewSet()
		store := api.NewStore(&options.StoreOptions, metriks)

		router, err := api.NewRouter(&options.RouterOptions,
			"Contact Book", version, revision, created,
			store, metriks, log,
		)
		if err != nil {
			log.Error("could not build router", "err", err)
			os.Exit(1)
		}
		srv := api.NewServer(&options.ServerOptions, router, log)

		hooks.OnStart(func() {
			log.Info("server listening", "addr", srv.Addr, "data-file", options.DataFile)
			err := srv.ListenAndServe()
			if err != http.ErrServerClosed {
				log.Error("failed to listen and serve", "err", err)
			} else {
				log.Info("server closed")
			}
		})
		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			err := srv.Shutdown(ctx)
			if err != nil {
				log.Warn("could not shutdown the server", "err", err)
			}
		})
	})

	root := cli.Root()
	root.Use = "contactbook"
	root.Version = version
	root.Args = cobra.NoArgs
	root.AddCommand(contacts.Command(func(cmd *cobra.Command) datastores.ContactsStore {
		var store datastores.ContactsStore
		humacli.WithOptions(func(_ *cobra.Command, _ []string, options *Options) {
			store = api.NewStore(&options.StoreOptions, nil)
		})(cmd, nil)
		return store
	}))

	f := new(failure)
	f.watch(root)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return f.record(err) })
	return cli, f
}

// failure keeps the first error returned by a command, since [humacli.CLI.Run]
// drops the one of [cobra.Command.Execute].
type failure struct {
	err error
}

func (f *failure) record(err error) error {
	if err != nil && f.err == nil {
		f.err = err
	}
	return err
}

// watch records the errors of the argument checks and runs of cmd and its sub-commands.
func (f *failure) watch(cmd *cobra.Command) {
	if args := cmd.Args; args != nil {
		cmd.Args = func(cmd *cobra.Command, a []string) error { return f.record(args(cmd, a)) }
	}
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, a []string) error { return f.record(run(cmd, a)) }
	}
	for _, sub := range cmd.Commands() {
		f.watch(sub)
	}
}
