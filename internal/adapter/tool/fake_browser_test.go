package tool

import (
	"context"
	"sync"

	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"
)

type fakeLauncher struct {
	mu       sync.Mutex
	openErr  error
	newPage  func() *fakeSession
	sessions []*fakeSession
}

func (l *fakeLauncher) Open(ctx context.Context) (output.BrowserSession, error) {
	if l.openErr != nil {
		return nil, l.openErr
	}
	s := &fakeSession{}
	if l.newPage != nil {
		s = l.newPage()
	}
	l.mu.Lock()
	l.sessions = append(l.sessions, s)
	l.mu.Unlock()
	return s, nil
}

func (l *fakeLauncher) opened() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

type fakeSession struct {
	navigateErr error
	clickErr    error
	waitErr     error
	panicOn     string
	// blockWait makes WaitFor hang until its context ends.
	blockWait bool

	html       string
	texts      map[string]string
	screenshot []byte

	calls  []string
	closed int
}

func (s *fakeSession) record(call string) {
	s.calls = append(s.calls, call)
	if s.panicOn == call {
		panic("boom in " + call)
	}
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.record("navigate")
	return s.navigateErr
}

func (s *fakeSession) Click(ctx context.Context, selector string) error {
	s.record("click")
	return s.clickErr
}

func (s *fakeSession) Fill(ctx context.Context, selector, text string) error {
	s.record("fill")
	return nil
}

func (s *fakeSession) WaitFor(ctx context.Context, selector string) error {
	s.record("wait")
	if s.blockWait {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.waitErr
}

func (s *fakeSession) TextContent(ctx context.Context, selector string) (string, error) {
	s.record("text")
	return s.texts[selector], nil
}

func (s *fakeSession) FindTextContent(ctx context.Context, selector string) (string, bool, error) {
	s.record("find")
	text, ok := s.texts[selector]
	return text, ok, nil
}

func (s *fakeSession) HTML(ctx context.Context) (string, error) {
	s.record("html")
	return s.html, nil
}

func (s *fakeSession) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	s.record("screenshot")
	return &entity.Screenshot{Data: s.screenshot, Format: "png"}, nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

type fakeCleaner struct{}

func (fakeCleaner) Clean(html string) string {
	return "cleaned:" + html
}
