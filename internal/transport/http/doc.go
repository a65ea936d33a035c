// Package http implements the HTTP handlers of the returns service.
//
// Handlers stay thin: they bind and validate the request, call a service,
// and render either JSON or an RFC 7807 problem through the shared
// errors.ErrorHandler. Service sentinel errors are translated into API
// errors here so the service layer carries no HTTP knowledge.
//
// Routes mounted under /api:
//
//	POST   /ingest                          multipart upload, field "files"
//	GET    /runs                            run listing, newest first
//	GET    /runs/{runID}                    run detail with source reports
//	DELETE /runs/{runID}
//	GET    /runs/{runID}/records            filtered records
//	GET    /runs/{runID}/groups/{dimension} grouped totals
//	GET    /runs/{runID}/groups/{dimension}/export.csv
//	GET    /runs/{runID}/options/{dimension}
//	GET    /runs/{runID}/crossfilter
//	GET    /runs/{runID}/export.csv         filtered records as CSV
//	GET    /runs/{runID}/export.xlsx        filtered workbook
//	GET    /platforms                       platform registry
//	GET    /health, /health/live, /health/ready, /version
//
// Filtering endpoints accept platform (repeatable or comma separated), sku
// and reason query parameters.
package http
