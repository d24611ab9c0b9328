package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rail-risk-go/internal/segment"
	"rail-risk-go/internal/service"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server реализует ParameterServiceServer поверх сервисного слоя
type Server struct {
	params   *service.ParameterService
	decision *service.DecisionService
	logger   *logrus.Logger
}

// NewServer создает реализацию gRPC сервиса
func NewServer(params *service.ParameterService, decision *service.DecisionService, logger *logrus.Logger) *Server {
	return &Server{
		params:   params,
		decision: decision,
		logger:   logger,
	}
}

// NewGRPCServer создает grpc.Server с зарегистрированным сервисом и логированием вызовов
func NewGRPCServer(srv ParameterServiceServer, logger *logrus.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.UnaryInterceptor(loggingInterceptor(logger)))
	s := grpc.NewServer(opts...)
	RegisterParameterServiceServer(s, srv)
	return s
}

// Compute выполняет полный расчет показателей
func (s *Server) Compute(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.ComputeRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}

	resp, err := s.params.Compute(service.WithSource(ctx, "grpc"), req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeStruct(resp)
}

// Decide выполняет арбитраж двух поездов
func (s *Server) Decide(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.DecideRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}

	resp, err := s.decision.Decide(service.WithSource(ctx, "grpc"), req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeStruct(resp)
}

// Proximity возвращает предупреждения о сближении в поле alerts
func (s *Server) Proximity(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.ProximityRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}

	alerts := s.decision.Proximity(service.WithSource(ctx, "grpc"), req)
	return encodeStruct(map[string]any{"alerts": alerts})
}

// decodeStruct переносит Struct в тип запроса через JSON
func decodeStruct(in *structpb.Struct, dest any) error {
	data, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

func encodeStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// toStatus переводит ошибку сервиса в gRPC статус. Внутренние ошибки не раскрываются.
func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, segment.ErrUnknownStation),
		errors.Is(err, segment.ErrNoCoordinates):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func loggingInterceptor(logger *logrus.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		resp, err := handler(ctx, req)

		entry := logger.WithFields(logrus.Fields{
			"method":      info.FullMethod,
			"code":        status.Code(err).String(),
			"duration_ms": time.Since(started).Milliseconds(),
		})
		if err != nil {
			entry.Warnf("gRPC вызов завершился ошибкой: %v", err)
			return resp, err
		}
		entry.Info("gRPC вызов выполнен")
		return resp, nil
	}
}
