// Package files locates and reads return report sources on disk.
//
// Discovery lists the supported inputs of a directory (.csv, .xlsx and .zip)
// in name order. Loader turns command line arguments, which may mix files and
// directories, into the named byte sources the ingestion pipeline consumes.
//
//	loader := files.NewLoader(cfg.Ingest.MaxUploadBytes, logger)
//	sources, err := loader.LoadSources(ctx, args)
package files
