package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/oaiiae/contactbook/datastores"
	"github.com/oaiiae/contactbook/handlers"
	"github.com/oaiiae/contactbook/router"
	"github.com/oaiiae/contactbook/web"
)

type ServerOptions struct {
	Host              string        `short:"H" doc:"host to listen on"                    default:""`
	Port              string        `short:"p" doc:"port to listen on"                    default:"3000"`
	ReadHeaderTimeout time.Duration `          doc:"time allowed to read request headers" default:"15s"`
}

func NewServer(options *ServerOptions, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              options.Host + ":" + options.Port,
		ReadHeaderTimeout: options.ReadHeaderTimeout,
		Handler:           handler,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

// MemoryStore is the data file name selecting an in-memory store.
const MemoryStore = ":memory:"

type StoreOptions struct {
	DataFile string `doc:"JSON document holding the contacts, or :memory:" default:"data/contacts.json"`
}

// NewStore opens the contacts store described by options. Calls are metered in set when not nil.
func NewStore(options *StoreOptions, set *metrics.Set) datastores.ContactsStore {
	var store datastores.ContactsStore
	if options.DataFile == MemoryStore {
		store = datastores.NewContactsInmem()
	} else {
		store = datastores.NewContactsFile(options.DataFile)
	}
	if set != nil {
		store = datastores.NewContactsMetered(store, set)
	}
	return store
}

type RouterOptions struct {
	EndpointsPrefix string `doc:"mount endpoints at a prefix" default:"/api"`
}

func NewRouter(
	options *RouterOptions,
	title string,
	version string,
	revision string,
	created string,
	store datastores.ContactsStore,
	metriks *metrics.Set,
	logger *slog.Logger,
) (http.Handler, error) {
	pages, err := web.New(store, logger)
	if err != nil {
		return nil, err
	}

	buildinfoMetric := joinQuote("build_info{goversion=", runtime.Version(),
		",title=", title,
		",version=", version,
		",revision=", revision,
		",created=", created,
		"} 1\n")
	return router.New(title, version,
		readiness(store),
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, buildinfoMetric)
			metriks.WritePrometheus(w)
			metrics.WriteProcessMetrics(w)
		},
		router.OptUseMiddleware(
			ctxlog{}.loggerMiddleware(logger),
			meterRequests(metriks),
			ctxlog{}.recoverMiddleware(logger),
		),
		router.OptGroup(options.EndpointsPrefix,
			router.OptGroup("/contacts", router.OptAutoRegister(&handlers.Contacts{
				Store:        store,
				ErrorHandler: ctxlog{}.errorHandler(logger),
			})),
		),
		router.OptMux(pages.Register),
	), nil
}

// readiness fails while the store holds a document that cannot be read.
// A missing document is an empty contact book.
func readiness(store datastores.ContactsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := store.LoadAll(r.Context())
		if err != nil && !errors.Is(err, datastores.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		}
	}
}

// joinQuote is [strings.Join] with " as separator.
func joinQuote(elems ...string) string { return strings.Join(elems, `"`) }
