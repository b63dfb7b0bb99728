package host

import (
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
)

// ProtoNamespace loads .proto files with protoparse and registers their
// message types as static-resolvable constructors on a Reflect host, so a
// reduction can build a protobuf message the same way it builds any other
// host object: `new MessageName(...)`, with constructors keyed by the
// namespace passed to RegisterInto and the message's short name, and the
// namespace listed in the reducer's Settings.Namespaces. Grounded on the teacher's
// builtins_grpc.go (protoRegistry + protoparse.Parser), with the dynamic
// message building pulled out from behind the interpreter's builtin-call
// convention into a namespace a reducer can resolve statically.
type ProtoNamespace struct {
	mu    sync.RWMutex
	files map[string]*desc.FileDescriptor
}

func NewProtoNamespace() *ProtoNamespace {
	return &ProtoNamespace{files: make(map[string]*desc.FileDescriptor)}
}

// LoadFile parses protoFile (resolved against importPaths) and registers
// every message type it declares under the given namespace.
func (p *ProtoNamespace) LoadFile(namespace string, importPaths []string, protoFile string) error {
	parser := protoparse.Parser{ImportPaths: importPaths}
	fds, err := parser.ParseFiles(protoFile)
	if err != nil {
		return fmt.Errorf("parsing proto file %q: %w", protoFile, err)
	}
	if len(fds) == 0 {
		return fmt.Errorf("no file descriptors produced for %q", protoFile)
	}
	p.mu.Lock()
	p.files[namespace] = fds[0]
	p.mu.Unlock()
	return nil
}

// FindMessage locates a message descriptor by dotted name within the
// namespace's loaded file (and its dependencies).
func (p *ProtoNamespace) FindMessage(namespace, messageName string) (*desc.MessageDescriptor, error) {
	p.mu.RLock()
	fd, ok := p.files[namespace]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no proto file loaded for namespace %q", namespace)
	}
	md := fd.FindMessage(messageName)
	if md == nil {
		for _, dep := range fd.GetDependencies() {
			if m := dep.FindMessage(messageName); m != nil {
				return m, nil
			}
		}
		return nil, fmt.Errorf("message %q not found in namespace %q", messageName, namespace)
	}
	return md, nil
}

// RegisterInto adds one constructor per message this namespace knows about
// to r, keyed by (namespace, messageName): calling it builds a
// *dynamic.Message and sets each field from args in declaration order — the
// plain-positional convention the rest of the reducer's constructor rule
// (spec.md §4.5's `Unknown(t) Obj/ResolvedTuple` row) already expects.
func (p *ProtoNamespace) RegisterInto(r *Reflect, namespace string) {
	p.mu.RLock()
	fd, ok := p.files[namespace]
	p.mu.RUnlock()
	if !ok {
		return
	}
	for _, md := range fd.GetMessageTypes() {
		md := md
		r.RegisterConstructor(namespace, md.GetName(), func(args []any) (any, error) {
			msg := dynamic.NewMessage(md)
			fields := md.GetFields()
			if len(args) > len(fields) {
				return nil, fmt.Errorf("message %q takes at most %d fields, got %d", md.GetName(), len(fields), len(args))
			}
			for i, a := range args {
				if err := msg.TrySetField(fields[i], a); err != nil {
					return nil, fmt.Errorf("setting field %q: %w", fields[i].GetName(), err)
				}
			}
			return msg, nil
		})
	}
}
