// Package app wires the returns service together and owns its lifecycle.
//
// New builds every component from a loaded configuration: paths, the
// OpenTelemetry providers and instruments, the ingestion pipeline, the
// in-memory run store, the services, and the chi router with its
// middleware chain. Run serves HTTP until the context is cancelled or an
// interrupt arrives, then shuts down gracefully.
//
//	application, err := app.NewApplication(configPath)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
