// Package handleliste turns a piping system into an ordered parts list.
//
// The generator walks the system's lines once, emitting catalog labels for
// components the first time they are referenced, brand-qualified fittings
// between adjacent components, adapters where a component is reused at a
// different line size, and bulkhead and tee annotations. Components that no
// line references are appended last in their input order.
package handleliste
