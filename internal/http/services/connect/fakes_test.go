package connect

import (
	"context"
	"sync"
	"time"

	"github.com/dropDatabas3/autolink/internal/oauth/linkedin"
	"github.com/dropDatabas3/autolink/internal/store"
)

type fakeTokens struct {
	mu          sync.Mutex
	calls       int
	gotRedirect string
	tok         *linkedin.Token
	err         error
	delay       time.Duration
}

func (f *fakeTokens) Exchange(ctx context.Context, code, redirectURI string) (*linkedin.Token, error) {
	f.mu.Lock()
	f.calls++
	f.gotRedirect = redirectURI
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, &linkedin.TokenExchangeError{Err: ctx.Err()}
		}
	}
	return f.tok, f.err
}

type fakeIdentity struct {
	calls int
	sub   string
	err   error
	block bool // espera hasta que ctx termine
}

func (f *fakeIdentity) ResolveIdentity(ctx context.Context, _ string) (string, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return "", &linkedin.ProfileFetchError{Err: ctx.Err()}
	}
	return f.sub, f.err
}

type fakeCredentials struct {
	mu    sync.Mutex
	calls []store.Credential
	err   error
}

func (f *fakeCredentials) UpsertCredential(ctx context.Context, c store.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.err
}

func (f *fakeCredentials) Disconnect(context.Context, string) error { return f.err }

type fakeStarter struct {
	started chan string
	err     error
	ctxErr  chan error
}

func newFakeStarter() *fakeStarter {
	return &fakeStarter{started: make(chan string, 1), ctxErr: make(chan error, 1)}
}

func (f *fakeStarter) Start(ctx context.Context, userID string) error {
	f.ctxErr <- ctx.Err()
	f.started <- userID
	return f.err
}

type fakeNonces struct {
	bound map[string]string
	err   error
}

func (f *fakeNonces) Save(_ context.Context, nonce, userID string, _ time.Duration) error {
	if f.bound == nil {
		f.bound = map[string]string{}
	}
	f.bound[nonce] = userID
	return f.err
}

func (f *fakeNonces) Consume(_ context.Context, nonce string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	uid, ok := f.bound[nonce]
	delete(f.bound, nonce)
	return uid, ok, nil
}
