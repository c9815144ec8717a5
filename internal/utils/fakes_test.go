package utils

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/Yoosu-L/llmcompare/internal/api"
	"github.com/Yoosu-L/llmcompare/internal/config"
	"github.com/sashabaranov/go-openai"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func content(text string) openai.ChatCompletionStreamResponse {
	return openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{{Delta: openai.ChatCompletionStreamChoiceDelta{Content: text}}},
	}
}

func reasoning(text string) openai.ChatCompletionStreamResponse {
	return openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{{Delta: openai.ChatCompletionStreamChoiceDelta{ReasoningContent: text}}},
	}
}

// streamScript describes one trial's stream. The first chunk arrives without
// delay; every later chunk advances the clock by gap before it is returned.
type streamScript struct {
	chunks  []openai.ChatCompletionStreamResponse
	gap     time.Duration
	openErr error
	// failAfter > 0 breaks the stream with recvErr once that many chunks were delivered.
	failAfter int
	recvErr   error
}

type scriptedStream struct {
	clock  *fakeClock
	script streamScript
	next   int
	closed bool
}

func (s *scriptedStream) Recv() (openai.ChatCompletionStreamResponse, error) {
	if s.script.failAfter > 0 && s.next == s.script.failAfter {
		return openai.ChatCompletionStreamResponse{}, s.script.recvErr
	}
	if s.next >= len(s.script.chunks) {
		return openai.ChatCompletionStreamResponse{}, io.EOF
	}
	if s.next > 0 {
		s.clock.Advance(s.script.gap)
	}
	chunk := s.script.chunks[s.next]
	s.next++
	return chunk, nil
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

// fakeStreamer hands out one script per OpenStream call, in order.
type fakeStreamer struct {
	clock    *fakeClock
	scripts  []streamScript
	requests []openai.ChatCompletionRequest
	streams  []*scriptedStream
}

func (f *fakeStreamer) OpenStream(_ context.Context, req openai.ChatCompletionRequest) (api.ChunkStream, error) {
	call := len(f.requests)
	f.requests = append(f.requests, req)

	script := f.scripts[len(f.scripts)-1]
	if call < len(f.scripts) {
		script = f.scripts[call]
	}
	if script.openErr != nil {
		return nil, script.openErr
	}
	stream := &scriptedStream{clock: f.clock, script: script}
	f.streams = append(f.streams, stream)
	return stream, nil
}

// blockingStreamer returns streams that only end when the request context does.
type blockingStreamer struct{}

func (blockingStreamer) OpenStream(ctx context.Context, _ openai.ChatCompletionRequest) (api.ChunkStream, error) {
	return &blockingStream{ctx: ctx}, nil
}

type blockingStream struct {
	ctx context.Context
}

func (s *blockingStream) Recv() (openai.ChatCompletionStreamResponse, error) {
	<-s.ctx.Done()
	return openai.ChatCompletionStreamResponse{}, s.ctx.Err()
}

func (s *blockingStream) Close() error { return nil }

func testConfig(models ...string) config.BenchmarkConfig {
	if len(models) == 0 {
		models = []string{"test-model"}
	}
	return config.BenchmarkConfig{
		APIBase:            "http://localhost:4000/v1",
		APIKey:             "sk-test",
		Models:             models,
		TargetPromptTokens: 100,
		TrialsPerModel:     2,
		MaxOutputTokens:    100,
	}
}
