// Package bootstrap runs the voicy process lifecycle: typed config with
// defaults and validation, logger initialization, ordered component start,
// startup hooks, a startup summary, and graceful shutdown on SIGINT/SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(db)
//	_ = app.RegisterComponent(poller)
//	return app.Run(ctx)
package bootstrap
