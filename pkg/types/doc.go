// Package types defines the piping system model, the fitting catalog record, the
// FittingRegistry interface, and the standard errors shared by the jobb service,
// its storage backends, and the handleliste generator.
package types
