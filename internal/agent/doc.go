// Package agent provides two idle-timer helpers: a DocumentMonitor that
// fires a callback once a file has stopped changing, and a ChatAgent that
// answers once the user has stopped typing.
package agent
