package signer

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/nkeys/nkeys"
)

// Server exposes one nkeys.KeyPair over the Signer gRPC service.
//
// A public-only key pair serves PublicKey and Verify; Sign answers
// FailedPrecondition.
type Server struct {
	UnimplementedSignerServer
	KeyPair nkeys.KeyPair

	// Logger receives one entry per request. Secret material is never logged.
	Logger *zap.Logger
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Server) PublicKey(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.KeyPair == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing key pair")
	}
	return wrapperspb.String(s.KeyPair.PublicKey()), nil
}

func (s *Server) Sign(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.KeyPair == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing key pair")
	}
	sig, err := s.KeyPair.Sign(in.GetValue())
	if err != nil {
		s.logger().Warn("sign rejected", zap.String("public_key", s.KeyPair.PublicKey()), zap.Error(err))
		return nil, mapErr(err)
	}
	s.logger().Debug("signed",
		zap.Stringer("role", s.KeyPair.Role()),
		zap.String("public_key", s.KeyPair.PublicKey()),
		zap.Int("message_bytes", len(in.GetValue())),
	)
	return wrapperspb.Bytes(sig), nil
}

func (s *Server) Verify(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BoolValue, error) {
	_ = ctx
	if s == nil || s.KeyPair == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing key pair")
	}
	b := in.GetValue()
	if len(b) < nkeys.SignatureSize {
		return nil, status.Errorf(codes.InvalidArgument, "payload must start with a %d-byte signature", nkeys.SignatureSize)
	}
	err := s.KeyPair.Verify(b[nkeys.SignatureSize:], b[:nkeys.SignatureSize])
	switch {
	case err == nil:
		return wrapperspb.Bool(true), nil
	case nkeys.IsKind(err, nkeys.KindVerificationFailed):
		return wrapperspb.Bool(false), nil
	default:
		return nil, mapErr(err)
	}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch nkeys.KindOf(err) {
	case nkeys.KindMissingPrivateKey, nkeys.KindInvalidKeyPair:
		return status.Error(codes.FailedPrecondition, err.Error())
	case nkeys.KindInvalidSignatureSize:
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// LoggingInterceptor logs method, status code and duration of every unary
// call.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Stringer("code", status.Code(err)),
			zap.Duration("took", time.Since(start)),
		}
		if err != nil {
			logger.Warn("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Info("rpc", fields...)
		}
		return resp, err
	}
}
