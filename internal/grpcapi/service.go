// Package grpcapi exposes the calculator over gRPC as collectsim.v1.Simulator.
//
// Messages are google.protobuf.Struct so the service needs no generated
// code. Request fields:
//
//	weights  string  comma-separated weights, e.g. "5,10,15"
//	targets  string  comma-separated 1-based indices
//	trials   number
//	seed     number or decimal string, optional
//
// Responses carry run_id, average, duration_ms, trials, workers, seed and
// a nested stats struct.
package grpcapi

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/collect-sim/internal/calc"
	"github.com/xtding233/collect-sim/internal/log"
)

const (
	ServiceName = "collectsim.v1.Simulator"

	simulateMethod = "/" + ServiceName + "/Simulate"
	lastMethod     = "/" + ServiceName + "/Last"
)

// SimulatorServer is the server API for the Simulator service.
type SimulatorServer interface {
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Last(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Server implements SimulatorServer on top of a Calculator.
type Server struct {
	calc *calc.Calculator
}

func NewServer(c *calc.Calculator) *Server {
	return &Server{calc: c}
}

// Register attaches the service to s.
func Register(s grpc.ServiceRegistrar, srv SimulatorServer) {
	s.RegisterService(&serviceDesc, srv)
}

func (s *Server) Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := inputFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	out, err := s.calc.Calculate(ctx, in)
	if err != nil {
		if calc.IsInvalidInput(err) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return outcomeToStruct(out)
}

func (s *Server) Last(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, ok := s.calc.Last()
	if !ok {
		return nil, status.Error(codes.NotFound, "no successful run yet")
	}
	return outcomeToStruct(out)
}

func inputFromStruct(req *structpb.Struct) (calc.Input, error) {
	f := req.GetFields()
	in := calc.Input{
		Weights: f["weights"].GetStringValue(),
		Targets: f["targets"].GetStringValue(),
	}

	trials, ok := f["trials"]
	if !ok {
		return calc.Input{}, fmt.Errorf("missing trials")
	}
	n, err := wholeNumber("trials", trials)
	if err != nil {
		return calc.Input{}, err
	}
	in.Trials = int(n)

	if v, ok := f["seed"]; ok {
		var seed uint64
		if sv, isStr := v.GetKind().(*structpb.Value_StringValue); isStr {
			seed, err = strconv.ParseUint(sv.StringValue, 10, 64)
			if err != nil {
				return calc.Input{}, fmt.Errorf("seed: %w", err)
			}
		} else {
			n, err := wholeNumber("seed", v)
			if err != nil {
				return calc.Input{}, err
			}
			seed = uint64(n)
		}
		in.Seed = &seed
	}
	return in, nil
}

func wholeNumber(name string, v *structpb.Value) (float64, error) {
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	n := nv.NumberValue
	if n < 0 || n != math.Trunc(n) || n > 1<<53 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func outcomeToStruct(out calc.Outcome) (*structpb.Struct, error) {
	m := map[string]any{
		"run_id":      out.RunID,
		"average":     out.Average,
		"duration_ms": float64(out.DurationMillis),
		"trials":      float64(out.Trials),
		"workers":     float64(out.Workers),
		"seed":        strconv.FormatUint(out.Seed, 10), // exceeds float64 precision
		"stats": map[string]any{
			"count":  float64(out.Stats.Count),
			"mean":   out.Stats.Mean,
			"stddev": out.Stats.StdDev,
			"min":    float64(out.Stats.Min),
			"max":    float64(out.Stats.Max),
			"p50":    out.Stats.P50,
			"p90":    out.Stats.P90,
			"p99":    out.Stats.P99,
		},
	}
	if out.ExpectedTokens != nil {
		m["expected_tokens"] = float64(*out.ExpectedTokens)
	}
	return structpb.NewStruct(m)
}

// UnaryLogger logs every call with its method and status code.
func UnaryLogger(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx = log.With(log.Into(ctx, "grpc"), zap.String("method", info.FullMethod))
	resp, err := handler(ctx, req)
	log.Debug(ctx, "handled", zap.Stringer("code", status.Code(err)))
	return resp, err
}

func simulateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).Simulate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: simulateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulatorServer).Simulate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func lastHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).Last(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: lastMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulatorServer).Last(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Simulate", Handler: simulateHandler},
		{MethodName: "Last", Handler: lastHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "collectsim/v1/simulator.proto",
}
