// Package render turns invoice and report documents into PDFs by printing
// an HTML page through headless Chromium.
package render

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"cmcs/internal/models"
	"cmcs/pkg/config"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrTemplate marks a failure to execute a document template. It depends
// only on the document, so repeating the render fails the same way.
var ErrTemplate = errors.New("document template failed")

type PDFRenderer struct {
	cfg       config.RenderConfig
	loc       *time.Location
	templates *template.Template
	logger    *zap.Logger
}

func NewPDFRenderer(cfg config.RenderConfig, logger *zap.Logger) (*PDFRenderer, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Warn("unknown render time zone, using UTC", zap.String("tz", cfg.TimeZone), zap.Error(err))
		loc = time.UTC
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	r := &PDFRenderer{cfg: cfg, loc: loc, logger: logger}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"money": money,
		"num":   func(d decimal.Decimal) string { return d.StringFixed(2) },
		"date":  func(t time.Time) string { return t.In(r.loc).Format("02 Jan 2006") },
		"stamp": func(t time.Time) string { return t.In(r.loc).Format("02 Jan 2006 15:04") },
		"lines": func(s string) []string { return strings.Split(s, "\n") },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.templates = tmpl
	return r, nil
}

func (r *PDFRenderer) RenderInvoice(ctx context.Context, doc *models.InvoiceDocument) ([]byte, error) {
	html, err := r.InvoiceHTML(doc)
	if err != nil {
		return nil, err
	}
	return r.print(ctx, html)
}

func (r *PDFRenderer) RenderReport(ctx context.Context, doc *models.ReportDocument) ([]byte, error) {
	html, err := r.ReportHTML(doc)
	if err != nil {
		return nil, err
	}
	return r.print(ctx, html)
}

// InvoiceHTML renders the page that RenderInvoice prints.
func (r *PDFRenderer) InvoiceHTML(doc *models.InvoiceDocument) (string, error) {
	return r.execute("invoice", doc)
}

// ReportHTML renders the page that RenderReport prints.
func (r *PDFRenderer) ReportHTML(doc *models.ReportDocument) (string, error) {
	return r.execute("report", doc)
}

func (r *PDFRenderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTemplate, name, err)
	}
	return buf.String(), nil
}

// print loads html into a fresh headless Chromium and prints it to PDF.
// The caller's deadline applies in addition to the configured timeout.
func (r *PDFRenderer) print(ctx context.Context, html string) ([]byte, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if r.cfg.ChromiumPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.cfg.ChromiumPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	runCtx, cancelRun := chromedp.NewContext(allocCtx)
	defer cancelRun()
	runCtx, cancelTimeout := context.WithTimeout(runCtx, r.cfg.Timeout)
	defer cancelTimeout()

	started := time.Now()
	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("data:text/html,"+url.PathEscape(html)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err == nil {
				pdf = buf
			}
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp run failed: %w", err)
	}

	r.logger.Debug("pdf rendered", zap.Int("bytes", len(pdf)), zap.Duration("took", time.Since(started)))
	return pdf, nil
}

// money formats an amount in rand with thousands separators, e.g.
// "R 12,500.00".
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return "R " + sign + b.String() + "." + frac
}
