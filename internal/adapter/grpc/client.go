package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/bondtracker-backend/internal/usecase/widget"
)

// Client calls a remote WidgetTimelineService
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an existing connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Dial opens a plaintext connection to addr. The caller closes the returned
// connection.
func Dial(addr string, opts ...grpc.DialOption) (*Client, *grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return NewClient(conn), conn, nil
}

// Placeholder fetches the layout placeholder entry
func (c *Client) Placeholder(ctx context.Context) (widget.Entry, error) {
	out, err := c.invoke(ctx, PlaceholderMethod)
	if err != nil {
		return widget.Entry{}, err
	}
	return StructToEntry(out)
}

// Snapshot fetches the current entry
func (c *Client) Snapshot(ctx context.Context) (widget.Entry, error) {
	out, err := c.invoke(ctx, SnapshotMethod)
	if err != nil {
		return widget.Entry{}, err
	}
	return StructToEntry(out)
}

// Timeline fetches the current timeline
func (c *Client) Timeline(ctx context.Context) (widget.Timeline, error) {
	out, err := c.invoke(ctx, TimelineMethod)
	if err != nil {
		return widget.Timeline{}, err
	}
	return StructToTimeline(out)
}

func (c *Client) invoke(ctx context.Context, method string) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, &emptypb.Empty{}, out); err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	return out, nil
}
