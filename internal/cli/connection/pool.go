package connection

import (
	"context"
	"errors"
	"time"

	pool "github.com/jolestar/go-commons-pool/v2"

	"github.com/yndnr/meshkv/pkg/resp"
)

// clientFactory creates pooled clients for one server.
type clientFactory struct {
	addr    string
	timeout time.Duration
	opts    []DialOption
}

func (f *clientFactory) MakeObject(ctx context.Context) (*pool.PooledObject, error) {
	c, err := Dial(ctx, f.addr, f.timeout, f.opts...)
	if err != nil {
		return nil, err
	}
	return pool.NewPooledObject(c), nil
}

func (f *clientFactory) DestroyObject(ctx context.Context, object *pool.PooledObject) error {
	c, ok := object.Object.(*Client)
	if !ok {
		return errors.New("type mismatch")
	}
	return c.Close()
}

func (f *clientFactory) ValidateObject(ctx context.Context, object *pool.PooledObject) bool {
	_, ok := object.Object.(*Client)
	return ok
}

func (f *clientFactory) ActivateObject(ctx context.Context, object *pool.PooledObject) error {
	return nil
}

func (f *clientFactory) PassivateObject(ctx context.Context, object *pool.PooledObject) error {
	return nil
}

// Pool shares at most size connections between goroutines.
type Pool struct {
	objects *pool.ObjectPool
}

// NewPool creates a pool for addr. Connections are dialed on demand.
func NewPool(ctx context.Context, addr string, size int, timeout time.Duration, opts ...DialOption) *Pool {
	cfg := pool.NewDefaultPoolConfig()
	cfg.MaxTotal = size
	cfg.MaxIdle = size

	return &Pool{
		objects: pool.NewObjectPool(ctx, &clientFactory{addr: addr, timeout: timeout, opts: opts}, cfg),
	}
}

// Do borrows a client, runs one command and returns the client. A client
// that hit a transport error is discarded.
func (p *Pool) Do(ctx context.Context, args ...string) (resp.Frame, error) {
	obj, err := p.objects.BorrowObject(ctx)
	if err != nil {
		return nil, err
	}
	c := obj.(*Client)

	f, err := c.Do(ctx, args...)
	if err != nil {
		_ = p.objects.InvalidateObject(ctx, obj)
		return nil, err
	}
	if err := p.objects.ReturnObject(ctx, obj); err != nil {
		return nil, err
	}
	return f, nil
}

// Active returns the number of borrowed clients.
func (p *Pool) Active() int {
	return p.objects.GetNumActive()
}

// Close closes every idle client.
func (p *Pool) Close(ctx context.Context) {
	p.objects.Close(ctx)
}
