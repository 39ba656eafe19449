package portal

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	errs "github.com/cv-helper/cv-helper-api/pkg/errors"
	"github.com/cv-helper/cv-helper-api/pkg/metrics"
)

// The converter renders the rate with trailing "faded" digits in a separate
// child node; the expression removes that node and reads the remaining text,
// exactly what a human sees as the headline rate.
const converterResultJS = `(() => {
	const el = document.querySelector('.faded-digits').parentElement;
	el.childNodes[2].remove();
	return el.innerText;
})()`

// ConverterScraper reads a currency rate off the public converter site.
type ConverterScraper struct {
	baseURL string
}

func NewConverterScraper(baseURL string) *ConverterScraper {
	return &ConverterScraper{baseURL: baseURL}
}

// Scrape loads the converter for the exact (from, to, amount) triple and
// returns the displayed rate as a string.
func (s *ConverterScraper) Scrape(ctx context.Context, drv Driver, from, to, amount string) (string, error) {
	startedAt := time.Now()
	defer func() {
		metrics.PortalScrapeDuration.WithLabelValues("converter", "convert").Observe(metrics.MeasureDuration(startedAt))
	}()

	target := fmt.Sprintf("%s?Amount=%s&From=%s&To=%s",
		s.baseURL,
		url.QueryEscape(amount),
		strings.ToUpper(from),
		strings.ToUpper(to),
	)
	if err := drv.Navigate(ctx, target); err != nil {
		return "", errs.PortalError("open converter", err)
	}
	result, err := drv.EvaluateString(ctx, converterResultJS)
	if err != nil {
		return "", errs.PortalError("read conversion result", err)
	}
	return strings.TrimSpace(result), nil
}
