package portal

import "context"

// Driver is the minimal browser surface the portal flows need. It is
// implemented by browser.Session; tests substitute a scripted fake so flows
// can run without Chrome.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, selector string) error
	Click(ctx context.Context, selector string) error
	SendKeys(ctx context.Context, selector, value string) error
	Clear(ctx context.Context, selector string) error
	Text(ctx context.Context, selector string) (string, error)
	Location(ctx context.Context) (string, error)
	OuterHTML(ctx context.Context) (string, error)
	EvaluateString(ctx context.Context, expr string) (string, error)
}
