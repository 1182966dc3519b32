package loader

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// connect opens the single admin connection a Load call reuses for every
// query it issues, then closes it on exit. Adapted from the teacher's
// internal/util/stdpool.OpenMySQLAsTarget: same driver, a single
// ping-then-log shape, generalized from "open one target
// pool" to "open one enumeration connection".
func connect(ctx context.Context, opts Options) (*sql.DB, func(), error) {
	cfg := mysqldriver.NewConfig()
	cfg.User = opts.User
	cfg.Passwd = opts.Pass
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	cfg.Params = map[string]string{"sql_mode": "ansi"}
	if opts.WaitTimeout > 0 {
		cfg.ReadTimeout = time.Duration(opts.WaitTimeout) * time.Second
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening mysql connection")
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "could not ping mysql server")
	}

	log.WithFields(log.Fields{"host": opts.Host, "port": opts.Port}).Info("connected to mysql server for enumeration")

	cleanup := func() {
		if err := db.Close(); err != nil {
			log.WithError(errors.WithStack(err)).Warn("could not close enumeration connection")
		}
	}
	return db, cleanup, nil
}
