package printing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper in inches; Chrome's print API works in inches.
const (
	a4WidthIn  = 8.27
	a4HeightIn = 11.69
	marginIn   = 0.4

	renderTimeout = 30 * time.Second
)

// PDFRenderer turns rendered HTML into PDF bytes through headless Chrome.
// One allocator is shared across renders; each render gets its own browser
// context.
type PDFRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewPDFRenderer() *PDFRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &PDFRenderer{allocCtx: allocCtx, allocCancel: allocCancel}
}

func (r *PDFRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}

// Render prints the HTML to an A4 PDF, portrait or landscape.
func (r *PDFRenderer) Render(ctx context.Context, html string, landscape bool) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("empty document")
	}

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthIn).
				WithPaperHeight(a4HeightIn).
				WithMarginTop(marginIn).
				WithMarginRight(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithLandscape(landscape).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("pdf rendering timed out after %v", renderTimeout)
		}
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("generated pdf is empty")
	}
	return pdf, nil
}
