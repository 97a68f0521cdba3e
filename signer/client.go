package signer

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/nkeys/nkeys"
)

// Client talks to a remote Signer. Every signature it returns has been
// verified locally against the signer's public key.
type Client struct {
	cc     *grpc.ClientConn
	client SignerClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration

	mu  sync.Mutex
	pub nkeys.KeyPair
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return NewClient(cc), nil
}

// NewClient wraps an existing connection. Close closes cc.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewSignerClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// PublicKey returns the signer's key as a verify-only key pair. The result
// is cached for the life of the client.
func (c *Client) PublicKey(ctx context.Context) (nkeys.KeyPair, error) {
	c.mu.Lock()
	cached := c.pub
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.PublicKey(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapRPC(err)
	}
	kp, err := nkeys.FromPublicKey(reply.GetValue())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.pub = kp
	c.mu.Unlock()
	return kp, nil
}

// Sign asks the remote signer to sign message.
func (c *Client) Sign(ctx context.Context, message []byte) ([]byte, error) {
	pub, err := c.PublicKey(ctx)
	if err != nil {
		return nil, err
	}

	rctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.Sign(rctx, wrapperspb.Bytes(message))
	if err != nil {
		return nil, mapRPC(err)
	}
	sig := reply.GetValue()
	if err := pub.Verify(message, sig); err != nil {
		return nil, err
	}
	return sig, nil
}

// Verify asks the remote signer to check signature over message. A
// signature that does not validate is reported as KindVerificationFailed.
func (c *Client) Verify(ctx context.Context, message, signature []byte) error {
	if len(signature) != nkeys.SignatureSize {
		return &nkeys.Error{Kind: nkeys.KindInvalidSignatureSize, Message: "signature must be 64 bytes"}
	}
	payload := make([]byte, 0, len(signature)+len(message))
	payload = append(payload, signature...)
	payload = append(payload, message...)

	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.Verify(ctx, wrapperspb.Bytes(payload))
	if err != nil {
		return mapRPC(err)
	}
	if !reply.GetValue() {
		return &nkeys.Error{Kind: nkeys.KindVerificationFailed, Message: "remote signer rejected signature"}
	}
	return nil
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
