package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/bondtracker-backend/internal/usecase/widget"
)

// Server implements the WidgetTimelineService gRPC server
type Server struct {
	Provider *widget.TimelineProvider
}

// NewServer creates a new gRPC server instance
func NewServer(provider *widget.TimelineProvider) *Server {
	return &Server{Provider: provider}
}

// Placeholder handles the Placeholder RPC
func (s *Server) Placeholder(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapError(err)
	}

	out, err := EntryToStruct(s.Provider.Placeholder(s.Provider.Now()))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// Snapshot handles the Snapshot RPC
func (s *Server) Snapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapError(err)
	}

	out, err := EntryToStruct(s.Provider.Snapshot(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// Timeline handles the Timeline RPC
func (s *Server) Timeline(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapError(err)
	}

	out, err := TimelineToStruct(s.Provider.Timeline(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// mapError converts errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}

	return status.Errorf(codes.Internal, "%s", err.Error())
}

var _ WidgetTimelineServer = (*Server)(nil)
