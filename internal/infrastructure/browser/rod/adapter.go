package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"sync"
	"time"

	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var (
	_ output.BrowserLauncher = (*Launcher)(nil)
	_ output.BrowserSession  = (*Session)(nil)
)

type BrowserConfig struct {
	Headless   bool
	NoSandbox  bool
	Bin        string // empty: let rod find or download Chromium
	SlowMotion time.Duration
	// ScreenshotMaxWidth downsizes wider screenshots; zero keeps the original.
	ScreenshotMaxWidth int
	// ScreenshotQuality switches capture to JPEG at this quality; zero means PNG.
	ScreenshotQuality int
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless: true,
	}
}

// Launcher starts one Chromium process per Open call. Once its base context
// is done it refuses to launch.
type Launcher struct {
	base context.Context
	cfg  BrowserConfig
}

func NewLauncher(ctx context.Context, cfg BrowserConfig) *Launcher {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Launcher{base: ctx, cfg: cfg}
}

// Open launches a browser. The launch is aborted when either ctx or the
// launcher's base context ends.
func (l *Launcher) Open(ctx context.Context) (output.BrowserSession, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := l.base.Err(); err != nil {
		return nil, fmt.Errorf("browser launcher stopped: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(l.base, cancel)
	defer stop()

	ln := launcher.New().
		Context(ctx).
		Headless(l.cfg.Headless).
		NoSandbox(l.cfg.NoSandbox)
	if l.cfg.Bin != "" {
		ln = ln.Bin(l.cfg.Bin)
	}

	controlURL, err := ln.Launch()
	if err != nil {
		ln.Kill()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if l.cfg.SlowMotion > 0 {
		browser = browser.SlowMotion(l.cfg.SlowMotion)
	}
	if err := browser.Connect(); err != nil {
		ln.Kill()
		ln.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	s := &Session{
		browser:  browser,
		launcher: ln,
		cfg:      l.cfg,
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	s.page = page

	return s, nil
}

type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	cfg      BrowserConfig

	closeOnce sync.Once
	closeErr  error
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for load of %s failed: %w", url, err)
	}
	return nil
}

func (s *Session) Click(ctx context.Context, selector string) error {
	el, err := s.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click on %s failed: %w", selector, err)
	}
	return nil
}

// Fill replaces the current value of a field.
func (s *Session) Fill(ctx context.Context, selector, text string) error {
	el, err := s.element(ctx, selector)
	if err != nil {
		return err
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input into %s failed: %w", selector, err)
	}
	return nil
}

func (s *Session) WaitFor(ctx context.Context, selector string) error {
	_, err := s.element(ctx, selector)
	return err
}

func (s *Session) TextContent(ctx context.Context, selector string) (string, error) {
	el, err := s.element(ctx, selector)
	if err != nil {
		return "", err
	}
	return textContent(el)
}

func (s *Session) FindTextContent(ctx context.Context, selector string) (string, bool, error) {
	has, el, err := s.page.Context(ctx).Has(selector)
	if err != nil {
		return "", false, fmt.Errorf("query %s failed: %w", selector, err)
	}
	if !has {
		return "", false, nil
	}
	text, err := textContent(el)
	return text, true, err
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

// Screenshot captures the full scrollable page.
func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	req := &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng}
	format := "png"
	if s.cfg.ScreenshotQuality > 0 {
		req = &proto.PageCaptureScreenshot{
			Format:  proto.PageCaptureScreenshotFormatJpeg,
			Quality: gson.Int(s.cfg.ScreenshotQuality),
		}
		format = "jpeg"
	}

	data, err := s.page.Context(ctx).Screenshot(true, req)
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if s.cfg.ScreenshotMaxWidth > 0 && img.Bounds().Dx() > s.cfg.ScreenshotMaxWidth {
		img = imaging.Resize(img, s.cfg.ScreenshotMaxWidth, 0, imaging.Lanczos)
		if data, err = encode(img, format, s.cfg.ScreenshotQuality); err != nil {
			return nil, err
		}
	}

	return &entity.Screenshot{
		Data:   data,
		Format: format,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

// Close shuts the browser down and kills its process. Safe to call more
// than once; only the first call does work.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close browser: %w", err))
			}
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

func (s *Session) element(ctx context.Context, selector string) (*rod.Element, error) {
	el, err := s.page.Context(ctx).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("element not found: %s: %w", selector, err)
	}
	return el, nil
}

func textContent(el *rod.Element) (string, error) {
	val, err := el.Property("textContent")
	if err != nil {
		return "", fmt.Errorf("failed to read textContent: %w", err)
	}
	if val.Nil() {
		return "", nil
	}
	return val.Str(), nil
}

func encode(img image.Image, format string, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	var err error
	if format == "jpeg" {
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: quality})
	} else {
		err = png.Encode(buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("%s encode failed: %w", format, err)
	}
	return buf.Bytes(), nil
}
