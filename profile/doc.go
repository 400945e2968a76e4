// Package profile wraps [github.com/pkg/profile] for optional runtime
// profiling of the grantlee command.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o grantlee .
//	grantlee --pprof-mode=cpu render page.html base.html
//	go tool pprof -http=: ~/.cache/grantlee/pprof/cpu.pprof
//
// Without the tag, [Profiler.Start] returns a no-op and [Modes] is empty.
// The tagged build also registers the net/http/pprof handlers.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
