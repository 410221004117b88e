// Package httpserver runs an http.Server bound to a context and exposes
// liveness and readiness handlers.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	err := httpserver.New(cfg.HTTP, router, log).Run(ctx)
package httpserver
