package rendering

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeRenderer prints the HTML excerpt to PDF in headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
type ChromeRenderer struct {
	Timeout time.Duration
	logger  *zap.Logger
}

// NewChromeRenderer creates a ChromeRenderer bounded by timeout per document
func NewChromeRenderer(timeout time.Duration, logger *zap.Logger) *ChromeRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeRenderer{Timeout: timeout, logger: logger}
}

// RenderPDF writes a landscape A4 PDF of the table to outPath.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, table *Table, outPath string) error {
	html, err := RenderHTML(table)
	if err != nil {
		return err
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if r.Timeout > 0 {
		browserCtx, cancel = context.WithTimeout(browserCtx, r.Timeout)
		defer cancel()
	}

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("table"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return fmt.Errorf("browser rendering failed: %w", err)
	}

	if err := os.WriteFile(outPath, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	r.logger.Debug("Excerpt PDF rendered", zap.String("path", outPath), zap.Int("bytes", len(pdf)))
	return nil
}
