package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/st20/course_exam/models"
)

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; margin: 40px; color: #222; }
  h1 { text-align: center; }
  .score { text-align: center; font-size: 42px; margin: 24px 0; color: #1d4ed8; }
  .question { border: 1px solid #ccc; border-radius: 6px; padding: 12px 16px; margin-bottom: 12px; }
  .correct { border-left: 6px solid #16a34a; }
  .incorrect { border-left: 6px solid #dc2626; }
  .explanation { color: #555; font-style: italic; margin-top: 8px; }
  .meta { text-align: center; color: #777; }
</style>
</head>
<body>
  <h1>Exam Results</h1>
  <div class="score">{{printf "%.1f" .Percentage}}%</div>
  <div class="meta">{{.CorrectCount}} of {{.Total}} correct &middot; {{.Date}}</div>
  {{range $i, $r := .Results}}
  <div class="question {{if $r.IsCorrect}}correct{{else}}incorrect{{end}}">
    <strong>Question {{add $i 1}}</strong> &mdash; {{if $r.IsCorrect}}correct{{else}}incorrect{{end}}<br>
    Correct answer: {{$r.CorrectAnswer}}
    {{if $r.Explanation}}<div class="explanation">{{$r.Explanation}}</div>{{end}}
  </div>
  {{end}}
</body>
</html>`

// RenderResultReport turns graded results into a printable PDF via a
// headless browser.
func RenderResultReport(ctx context.Context, results []models.ExamResult) ([]byte, error) {
	html, err := renderReportHTML(results)
	if err != nil {
		return nil, fmt.Errorf("render report html: %w", err)
	}
	return printToPDF(ctx, html)
}

func renderReportHTML(results []models.ExamResult) (string, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}).Parse(reportTemplate)
	if err != nil {
		return "", err
	}

	correctCount := 0
	for _, r := range results {
		if r.IsCorrect {
			correctCount++
		}
	}
	percentage := 0.0
	if len(results) > 0 {
		percentage = float64(correctCount) / float64(len(results)) * 100
	}

	data := struct {
		Results      []models.ExamResult
		CorrectCount int
		Total        int
		Percentage   float64
		Date         string
	}{
		Results:      results,
		CorrectCount: correctCount,
		Total:        len(results),
		Percentage:   percentage,
		Date:         time.Now().Format("January 2, 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func printToPDF(parent context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print report to pdf: %w", err)
	}
	return pdfBuffer, nil
}
