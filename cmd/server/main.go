package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/csg33k/signup-desk/internal/adapters/memory"
	"github.com/csg33k/signup-desk/internal/adapters/pdf"
	"github.com/csg33k/signup-desk/internal/adapters/roster"
	sqliteadapter "github.com/csg33k/signup-desk/internal/adapters/sqlite"
	"github.com/csg33k/signup-desk/internal/config"
	"github.com/csg33k/signup-desk/internal/controller"
	"github.com/csg33k/signup-desk/internal/forms"
	"github.com/csg33k/signup-desk/internal/handlers"
	"github.com/csg33k/signup-desk/internal/ports"
	"github.com/csg33k/signup-desk/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}
	locale := forms.NewLocale(cfg.Locale, loc)

	var repo ports.RecordRepository
	switch cfg.Store {
	case config.StoreSQLite:
		r, err := sqliteadapter.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer r.Close()
		repo = r
	default:
		repo = memory.New()
	}

	registry := forms.MustNewRegistry(
		forms.Registration(cfg.MinAge),
		forms.CourseSchedule(),
	)
	v := validation.New(validation.WithLocation(loc))

	var ctrls []*controller.Controller
	for _, def := range registry.All() {
		c, err := controller.New(def, repo, v,
			controller.WithLogger(logger),
			controller.WithLocale(locale),
		)
		if err != nil {
			log.Fatalf("form %s: %v", def.Slug, err)
		}
		ctrls = append(ctrls, c)
	}

	exporters := []ports.RosterExporter{pdf.New(locale), roster.New(locale)}
	h := handlers.New(ctrls, exporters, logger)

	logger.Info("signup desk running", "url", "http://localhost:"+cfg.Port, "store", cfg.Store, "locale", locale.Tag.String())
	if cfg.Store == config.StoreSQLite {
		logger.Info("database", "dsn", cfg.DBPath)
	}
	if err := http.ListenAndServe(":"+cfg.Port, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
