// Package api serves the jobb HTTP interface: the handleliste generator,
// the fittings registry, the PDF text scraper, health and metrics.
//
// Every error response is a JSON object with a single "detail" field.
package api
