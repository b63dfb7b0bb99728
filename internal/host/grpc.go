package host

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// GrpcMethod is a resolved handle to one remote unary RPC method, installed
// as a host member so the pairwise rule that already knows how to call an
// InvokableExpr (spec.md §4.5) can invoke a network call the same way it
// invokes any other host method. Grounded on the teacher's grpcConnect/
// grpcInvoke builtins (builtins_grpc.go), with the connection-manager
// bookkeeping trimmed to what a single dial+call needs.
type GrpcMethod struct {
	conn   *grpc.ClientConn
	method *desc.MethodDescriptor
}

// DialInsecure opens a plaintext connection to target — the demo-friendly
// counterpart to the teacher's grpcConnect, which also defaults to
// insecure.NewCredentials() unless TLS options are supplied.
func DialInsecure(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dialing %q: %w", target, err)
	}
	return conn, nil
}

// NewGrpcMethod binds a method descriptor (as resolved via ProtoNamespace)
// to an open connection.
func NewGrpcMethod(conn *grpc.ClientConn, method *desc.MethodDescriptor) *GrpcMethod {
	return &GrpcMethod{conn: conn, method: method}
}

// Invoke builds the request message from positional args (mirroring
// ProtoNamespace's constructor convention), issues the unary RPC, and
// returns the decoded response message.
func (g *GrpcMethod) Invoke(ctx context.Context, args []any) (*dynamic.Message, error) {
	req := dynamic.NewMessage(g.method.GetInputType())
	fields := g.method.GetInputType().GetFields()
	if len(args) > len(fields) {
		return nil, fmt.Errorf("method %q takes at most %d fields, got %d", g.method.GetName(), len(fields), len(args))
	}
	for i, a := range args {
		if err := req.TrySetField(fields[i], a); err != nil {
			return nil, fmt.Errorf("setting request field %q: %w", fields[i].GetName(), err)
		}
	}

	resp := dynamic.NewMessage(g.method.GetOutputType())
	fullMethod := fmt.Sprintf("/%s/%s", g.method.GetService().GetFullyQualifiedName(), g.method.GetName())
	if err := g.conn.Invoke(ctx, fullMethod, req, resp); err != nil {
		return nil, fmt.Errorf("invoking %s: %w", fullMethod, err)
	}
	return resp, nil
}

// AsMethodInfo wraps g as the expr.MethodInfo that Reflect's
// ExecuteParameterizedMethod/ExecuteUnitMethod dispatch on to call
// GrpcMethod.Invoke. Neither Reflect's instance-reflection path nor its
// RegisterStatic/RegisterConstructor registries produce one of these: it
// reaches a reduction only inside an expr.InvokableExpr node that the host
// builds itself.
type grpcMethodInfo struct{ method *GrpcMethod }

func AsMethodInfo(g *GrpcMethod) any { return grpcMethodInfo{method: g} }
