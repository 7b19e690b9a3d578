package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the Analyzer service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client on an existing connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Analyze sends code and returns {"tokens", "ast"}
func (c *Client) Analyze(ctx context.Context, code string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, analyzeMethod, code, opts...)
}

// Tokenize sends code and returns {"tokens"}
func (c *Client) Tokenize(ctx context.Context, code string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, tokenizeMethod, code, opts...)
}

func (c *Client) call(ctx context.Context, method, code string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"code": code})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Diagnostics extracts the diagnostics detail from an error returned by
// Analyze or Tokenize. It returns nil for other errors.
func Diagnostics(err error) []map[string]interface{} {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}
	for _, d := range st.Details() {
		s, ok := d.(*structpb.Struct)
		if !ok {
			continue
		}
		list := s.GetFields()["diagnostics"].GetListValue()
		out := make([]map[string]interface{}, 0, len(list.GetValues()))
		for _, v := range list.GetValues() {
			out = append(out, v.GetStructValue().AsMap())
		}
		return out
	}
	return nil
}
