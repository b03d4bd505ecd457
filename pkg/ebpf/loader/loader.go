// Package loader owns the lifecycle of the kernel capture program: loading
// the compiled object, attaching each handler to its hook point, and
// handing out the ring buffer maps the tracers poll.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/link"
	"github.com/cilium/ebpf/rlimit"
	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"

	"github.com/latedeployment/roea-sensor/pkg/ebpf/types"
)

//go:generate sh -c "clang -g -O2 -Wall -target bpf -D__TARGET_ARCH_x86 -c ../bpf/sensor.bpf.c -o ../bpf/sensor.bpf.o"

// DefaultObjectName is the compiled BPF object looked up when the
// configuration does not name one: next to the binary, then the working
// directory.
const DefaultObjectName = "sensor.bpf.o"

// hookPoints maps each BPF program to the tracepoint it attaches to. Each
// handler attaches independently; a detached handler simply stops feeding
// its channel.
var hookPoints = map[string]struct {
	group string
	name  string
}{
	types.ProgHandleExec:    {"sched", "sched_process_exec"},
	types.ProgHandleExit:    {"sched", "sched_process_exit"},
	types.ProgHandleConnect: {"syscalls", "sys_enter_connect"},
	types.ProgHandleOpenat:  {"syscalls", "sys_enter_openat"},
}

type Loader struct {
	collection *ebpf.Collection
	links      map[string]link.Link
}

// New loads the capture program from objPath and attaches all four handlers.
// An empty objPath falls back to DefaultObjectName next to the executable.
func New(objPath string) (*Loader, error) {
	if err := rlimit.RemoveMemlock(); err != nil {
		return nil, fmt.Errorf("removing memlock rlimit: %w", err)
	}

	if objPath == "" {
		objPath = defaultObjectPath()
	}

	spec, err := ebpf.LoadCollectionSpec(objPath)
	if err != nil {
		return nil, fmt.Errorf("loading collection spec from %q: %w", objPath, err)
	}

	coll, err := ebpf.NewCollection(spec)
	if err != nil {
		var ve *ebpf.VerifierError
		if errors.As(err, &ve) {
			logger.L().Error("BPF verifier rejected the capture program", helpers.String("details", ve.Error()))
		}
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	l := &Loader{
		collection: coll,
		links:      make(map[string]link.Link),
	}

	for progName, hook := range hookPoints {
		prog, ok := coll.Programs[progName]
		if !ok {
			l.Close()
			return nil, fmt.Errorf("program %q not found in %q", progName, objPath)
		}
		tp, err := link.Tracepoint(hook.group, hook.name, prog, nil)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("attaching %s to %s/%s: %w", progName, hook.group, hook.name, err)
		}
		l.links[progName] = tp
		logger.L().Debug("attached capture handler",
			helpers.String("program", progName),
			helpers.String("tracepoint", hook.group+"/"+hook.name))
	}

	logger.L().Info("kernel capture program loaded", helpers.String("object", objPath), helpers.Int("handlers", len(l.links)))

	return l, nil
}

// RingMap returns one of the three ring buffer maps by its map name.
func (l *Loader) RingMap(name string) (*ebpf.Map, error) {
	m, ok := l.collection.Maps[name]
	if !ok {
		return nil, fmt.Errorf("ring buffer map %q not found", name)
	}
	return m, nil
}

// Detach detaches a single handler. Safe at any time: in-flight handler
// invocations complete and the channel stops receiving new records.
func (l *Loader) Detach(progName string) error {
	lnk, ok := l.links[progName]
	if !ok {
		return fmt.Errorf("handler %q is not attached", progName)
	}
	delete(l.links, progName)
	return lnk.Close()
}

// Close detaches every handler and releases the collection.
func (l *Loader) Close() {
	for name, lnk := range l.links {
		if err := lnk.Close(); err != nil {
			logger.L().Warning("closing capture link", helpers.String("program", name), helpers.Error(err))
		}
	}
	l.links = map[string]link.Link{}
	if l.collection != nil {
		l.collection.Close()
	}
}

func defaultObjectPath() string {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), DefaultObjectName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return DefaultObjectName
}
