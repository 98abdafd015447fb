package eventbrite

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

// render fetches pageURL through a headless browser and returns the final
// DOM. It is only called after static extraction found nothing; when no
// Chrome binary can be located the rendered retry is silently skipped.
func (s *Scraper) render(pageURL string) (string, bool) {
	bin := s.chromeBinary()
	if bin == "" {
		s.logger.Debug("[eventbrite] No Chrome binary found, skipping rendered retry")
		return "", false
	}

	s.logger.Info("[eventbrite] Re-rendering %s with headless browser", pageURL)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
		chromedp.ExecPath(bin),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(4*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		s.logger.Warn("[eventbrite] Rendered fetch failed: %v", err)
		return "", false
	}

	return html, true
}

// chromeBinary locates a Chrome/Chromium binary, preferring the configured
// override.
func (s *Scraper) chromeBinary() string {
	if s.cfg.ChromeBin != "" {
		return s.cfg.ChromeBin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
