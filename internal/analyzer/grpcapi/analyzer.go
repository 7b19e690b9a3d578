// Package grpcapi exposes the analyzer service over gRPC.
//
// Messages are google.protobuf.Struct values carrying the same JSON shapes
// as the REST API, so no generated code is needed:
//
//	request   {"code": "..."}
//	response  {"tokens": [...], "ast": {...}}
//
// Source with diagnostics fails with codes.InvalidArgument. The status
// carries one Struct detail {"diagnostics": [...]}.
package grpcapi

import (
	"context"
	"encoding/json"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	"github.com/msto63/lexzig/foundation/lexzig/diag"
	"github.com/msto63/lexzig/internal/analyzer/service"
	"github.com/msto63/lexzig/internal/analyzer/store"
	coregrpc "github.com/msto63/lexzig/pkg/core/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "lexzig.v1.Analyzer"

const (
	analyzeMethod  = "/" + ServiceName + "/Analyze"
	tokenizeMethod = "/" + ServiceName + "/Tokenize"
)

// AnalyzerServer is the server API for the Analyzer service
type AnalyzerServer interface {
	Analyze(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Tokenize(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Server implements AnalyzerServer on top of the analyzer service
type Server struct {
	svc *service.Service
}

// NewServer creates the gRPC facade for svc
func NewServer(svc *service.Service) *Server {
	return &Server{svc: svc}
}

// Register registers the Analyzer service on srv
func Register(srv *grpc.Server, svc *service.Service) {
	srv.RegisterService(&ServiceDesc, NewServer(svc))
}

// Analyze tokenizes and parses the request code
func (s *Server) Analyze(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	code, err := codeOf(req)
	if err != nil {
		return nil, err
	}

	result, err := s.svc.Analyze(ctx, service.Request{
		Code:      code,
		Origin:    store.OriginGRPC,
		RequestID: coregrpc.GetRequestID(ctx),
	})
	if err != nil {
		return nil, coregrpc.ToStatus(err)
	}
	if !result.OK() {
		return nil, diagnosticsStatus(result.Diagnostics)
	}

	return toStruct(map[string]interface{}{
		"tokens": result.Tokens,
		"ast":    result.Program,
	})
}

// Tokenize returns the tokens of the request code
func (s *Server) Tokenize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	code, err := codeOf(req)
	if err != nil {
		return nil, err
	}

	tokens, diags, err := s.svc.Tokenize(ctx, service.Request{
		Code:      code,
		Origin:    store.OriginGRPC,
		RequestID: coregrpc.GetRequestID(ctx),
	})
	if err != nil {
		return nil, coregrpc.ToStatus(err)
	}
	if len(diags) > 0 {
		return nil, diagnosticsStatus(diags)
	}

	return toStruct(map[string]interface{}{"tokens": tokens})
}

func codeOf(req *structpb.Struct) (string, error) {
	v, ok := req.GetFields()["code"]
	if !ok {
		return "", status.Error(codes.InvalidArgument, "field 'code' is required")
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Error(codes.InvalidArgument, "field 'code' must be a string")
	}
	return s.StringValue, nil
}

// diagnosticsStatus builds an InvalidArgument status carrying the
// diagnostics as a detail
func diagnosticsStatus(diags diag.List) error {
	st := status.New(coregrpc.CodeFor(diags[0].Kind.Code()), diags.Error())

	detail, err := toStruct(map[string]interface{}{"diagnostics": diags})
	if err != nil {
		return st.Err()
	}
	if withDetail, err := st.WithDetails(detail); err == nil {
		st = withDetail
	}
	return st.Err()
}

// toStruct converts v into a Struct through its JSON form
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, coregrpc.ToStatus(mdwerror.Wrap(err, "failed to encode response").
			WithCode(mdwerror.CodeInternal))
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, coregrpc.ToStatus(mdwerror.Wrap(err, "failed to convert response").
			WithCode(mdwerror.CodeInternal))
	}
	return out, nil
}

func _Analyzer_Analyze_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalyzerServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: analyzeMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalyzerServer).Analyze(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Analyzer_Tokenize_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalyzerServer).Tokenize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: tokenizeMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalyzerServer).Tokenize(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the grpc.ServiceDesc for the Analyzer service
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyzerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Analyze", Handler: _Analyzer_Analyze_Handler},
		{MethodName: "Tokenize", Handler: _Analyzer_Tokenize_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lexzig/v1/analyzer.proto",
}
