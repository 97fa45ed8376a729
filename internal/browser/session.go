// Package browser owns the one interactive Chrome session the crawl runs in:
// launch, manual login, navigation, checkpoint detection, and PDF capture.
package browser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"jobproof/internal/scraper/linkedin"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	random "github.com/mazen160/go-random"
)

type Options struct {
	// ProfileDir pins the session to one persistent Chrome profile so
	// cookies survive between runs.
	ProfileDir string
	Headless   bool
	// NavTimeout bounds a single navigation, the source is known to get
	// stuck on infinite spinners.
	NavTimeout time.Duration
}

type Session struct {
	opts     Options
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	prompt   *bufio.Reader
}

func Launch(opts Options) (*Session, error) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 45 * time.Second
	}

	l := launcher.New().
		Headless(opts.Headless).
		Leakless(false).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-notifications").
		Set("disable-popup-blocking")
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		return nil, err
	}

	slog.Info("browser initialized", "headless", opts.Headless, "profile", opts.ProfileDir)
	return &Session{
		opts:     opts,
		launcher: l,
		browser:  b,
		page:     page,
		prompt:   bufio.NewReader(os.Stdin),
	}, nil
}

func (s *Session) Close() {
	if err := s.browser.Close(); err != nil {
		slog.Debug("browser close", "err", err)
	}
	s.launcher.Cleanup()
}

// navigate opens a URL, waits for the DOM to settle, and checks for
// checkpoint walls. Returns linkedin.ErrSessionLost when the session has
// been challenged or logged out.
func (s *Session) navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx).Timeout(s.opts.NavTimeout)

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("%w: navigation failed: %v", linkedin.ErrSessionLost, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: page never finished loading: %v", linkedin.ErrSessionLost, err)
	}
	// async content keeps mutating after load, give it a beat
	if err := page.WaitDOMStable(500*time.Millisecond, 0.1); err != nil {
		slog.Debug("dom did not stabilize, continuing anyway", "url", url, "err", err)
	}

	if s.blocked() {
		return fmt.Errorf("%w: checkpoint detected at %s", linkedin.ErrSessionLost, url)
	}
	return nil
}

// strong signals only, scanning whole-page text produces false positives.
var checkpointSelectors = []string{
	"input[name='pin']",
	"input[name='challengeId']",
	"div#captcha-internal",
	"div.recaptcha",
}

func (s *Session) blocked() bool {
	info, err := s.page.Info()
	if err != nil {
		// an unanswerable session is as good as lost
		return true
	}
	url := strings.ToLower(info.URL)
	if strings.Contains(url, "/checkpoint/") || strings.Contains(url, "/challenge/") {
		return true
	}
	title := strings.ToLower(info.Title)
	if strings.Contains(title, "security verification") || strings.Contains(title, "checkpoint") {
		return true
	}
	for _, selector := range checkpointSelectors {
		has, _, err := s.page.Has(selector)
		if err == nil && has {
			return true
		}
	}
	return false
}

// WaitForLogin opens the applied-jobs list (which redirects to the login
// form when needed), then blocks until the user confirms login on the
// terminal. The deliberate pause point, not a polling loop.
func (s *Session) WaitForLogin(ctx context.Context) error {
	if err := s.page.Context(ctx).Timeout(s.opts.NavTimeout).Navigate(linkedin.AppliedListURL); err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "============================================")
	fmt.Fprintln(os.Stderr, " MANUAL LOGIN REQUIRED")
	fmt.Fprintln(os.Stderr, " Log in fully (including OTP) in the browser")
	fmt.Fprintln(os.Stderr, " window, then press ENTER here to continue.")
	fmt.Fprintln(os.Stderr, "============================================")

	confirmed := make(chan error, 1)
	go func() {
		_, err := s.prompt.ReadString('\n')
		confirmed <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-confirmed:
		if err != nil && err != io.EOF {
			return err
		}
	}

	// after ENTER the applied list must actually exist
	_, err := s.page.Context(ctx).Timeout(15 * time.Second).Element(linkedin.ListReadySelector)
	if err != nil {
		if s.blocked() {
			return fmt.Errorf("%w: checkpoint after login", linkedin.ErrSessionLost)
		}
		return fmt.Errorf("applied jobs list not visible after login: %w", err)
	}

	slog.Info("login confirmed, applied jobs list detected")
	return nil
}

// ListCards navigates to a list page, nudges lazy rendering with a few
// scrolls, and parses the visible cards out of the DOM snapshot.
func (s *Session) ListCards(ctx context.Context, pageNum int) ([]linkedin.Card, error) {
	if err := s.navigate(ctx, linkedin.PageURL(pageNum)); err != nil {
		return nil, err
	}

	for i := 0; i < 4; i++ {
		if _, err := s.page.Eval(`() => window.scrollBy(0, 700)`); err != nil {
			break
		}
		microPause()
	}
	if _, err := s.page.Eval(`() => window.scrollTo(0, 0)`); err != nil {
		slog.Debug("scroll reset failed", "err", err)
	}
	microPause()

	html, err := s.page.HTML()
	if err != nil {
		return nil, fmt.Errorf("%w: could not read list page: %v", linkedin.ErrSessionLost, err)
	}
	return linkedin.ParseCards(html)
}

// OpenDetail navigates to the card's job page, expands the description, and
// returns the rendered HTML. The page stays open so a snapshot request can
// capture exactly what was extracted.
func (s *Session) OpenDetail(ctx context.Context, card linkedin.Card) (string, error) {
	if err := s.navigate(ctx, card.URL); err != nil {
		return "", err
	}

	s.expandDescription()

	html, err := s.page.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: could not read detail page: %v", linkedin.ErrSessionLost, err)
	}
	return html, nil
}

func (s *Session) expandDescription() {
	has, el, err := s.page.Has("button.jobs-description__footer-button")
	if err != nil || !has {
		return
	}
	expanded, err := el.Attribute("aria-expanded")
	if err == nil && expanded != nil && *expanded == "true" {
		return
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		slog.Debug("could not expand description", "err", err)
		return
	}
	microPause()
}

// Snapshot prints the currently open page to a PDF file via CDP.
func (s *Session) Snapshot(ctx context.Context, dest string) error {
	stream, err := s.page.Context(ctx).PDF(&proto.PagePrintToPDF{
		Landscape:           false,
		DisplayHeaderFooter: false,
		PrintBackground:     true,
		PreferCSSPageSize:   true,
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, stream); err != nil {
		return err
	}
	slog.Debug("snapshot saved", "path", dest)
	return nil
}

func microPause() {
	ms, err := random.IntRange(150, 450)
	if err != nil {
		ms = 250
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
