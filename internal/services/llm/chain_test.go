package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
)

type fakeBackend struct {
	name  string
	resp  *CompletionResponse
	err   error
	block bool
	calls int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Complete(ctx context.Context, _ *CompletionRequest) (*CompletionResponse, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestNewChain_RequiresBackend(t *testing.T) {
	_, err := NewChain(time.Second, nil)
	assert.Error(t, err)
}

func TestChain_FirstBackendWins(t *testing.T) {
	local := &fakeBackend{name: "local", resp: &CompletionResponse{Content: "hi"}}
	cloud := &fakeBackend{name: "cloud", resp: &CompletionResponse{Content: "hello"}}
	chain, err := NewChain(time.Second, nil, local, cloud)
	require.NoError(t, err)

	resp, err := chain.Complete(context.Background(), &CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Content)
	assert.Equal(t, "local", resp.Backend)
	assert.Equal(t, 0, cloud.calls)
	assert.Equal(t, "local,cloud", chain.Name())
}

func TestChain_FallsBackOnError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"upstream unavailable", domainerrors.NewUpstreamUnavailableError("ollama", errors.New("connection refused"))},
		{"tools unsupported", ErrToolsUnsupported},
		{"rate limited", domainerrors.NewUpstreamRateLimitedError("ollama", time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := &fakeBackend{name: "local", err: tt.err}
			cloud := &fakeBackend{name: "cloud", resp: &CompletionResponse{Content: "answer"}}
			chain, err := NewChain(time.Second, nil, local, cloud)
			require.NoError(t, err)

			resp, err := chain.Complete(context.Background(), &CompletionRequest{})
			require.NoError(t, err)
			assert.Equal(t, "answer", resp.Content)
			assert.Equal(t, "cloud", resp.Backend)
		})
	}
}

func TestChain_TimeoutFallsBackWithinTurn(t *testing.T) {
	local := &fakeBackend{name: "local", block: true}
	cloud := &fakeBackend{name: "cloud", resp: &CompletionResponse{Content: "complete answer"}}
	chain, err := NewChain(20*time.Millisecond, nil, local, cloud)
	require.NoError(t, err)

	start := time.Now()
	resp, err := chain.Complete(context.Background(), &CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "complete answer", resp.Content)
	assert.Less(t, time.Since(start), 2*time.Second)

	// The next request starts with the local backend again.
	local.block = false
	local.resp = &CompletionResponse{Content: "local again"}
	resp, err = chain.Complete(context.Background(), &CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "local", resp.Backend)
}

func TestChain_AllBackendsFail(t *testing.T) {
	local := &fakeBackend{name: "local", err: errors.New("boom")}
	cloud := &fakeBackend{name: "cloud", resp: nil}
	chain, err := NewChain(time.Second, nil, local, cloud)
	require.NoError(t, err)

	_, err = chain.Complete(context.Background(), &CompletionRequest{})
	require.Error(t, err)
	assert.True(t, domainerrors.IsModelUnavailable(err))
	assert.Contains(t, err.Error(), "2 backend(s) failed")
}

func TestChain_StopsWhenCallerCancelled(t *testing.T) {
	local := &fakeBackend{name: "local", block: true}
	cloud := &fakeBackend{name: "cloud", resp: &CompletionResponse{Content: "late"}}
	chain, err := NewChain(0, nil, local, cloud)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = chain.Complete(ctx, &CompletionRequest{})
	assert.True(t, domainerrors.IsModelUnavailable(err))
	assert.Equal(t, 0, cloud.calls)
}
