package portal

import "context"

type keystroke struct {
	selector string
	value    string
}

// fakeDriver is a scriptable in-memory Driver. Errors are keyed by selector or
// call index so tests can fail exactly one step of a flow.
type fakeDriver struct {
	navigations []string
	waits       []string
	clicks      []string
	keys        []keystroke
	clears      []string

	failNavigate map[string]error
	failWait     map[string]error
	failClickAt  map[int]error

	texts       []string
	textErr     error
	location    string
	locationErr error
	html        string
	evalResult  string
	evalErr     error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		failNavigate: map[string]error{},
		failWait:     map[string]error{},
		failClickAt:  map[int]error{},
	}
}

func (d *fakeDriver) Navigate(_ context.Context, urlStr string) error {
	d.navigations = append(d.navigations, urlStr)
	return d.failNavigate[urlStr]
}

func (d *fakeDriver) WaitVisible(_ context.Context, selector string) error {
	d.waits = append(d.waits, selector)
	return d.failWait[selector]
}

func (d *fakeDriver) Click(_ context.Context, selector string) error {
	idx := len(d.clicks)
	d.clicks = append(d.clicks, selector)
	return d.failClickAt[idx]
}

func (d *fakeDriver) SendKeys(_ context.Context, selector, value string) error {
	d.keys = append(d.keys, keystroke{selector: selector, value: value})
	return nil
}

func (d *fakeDriver) Clear(_ context.Context, selector string) error {
	d.clears = append(d.clears, selector)
	return nil
}

// Text pops scripted results one at a time; the last one repeats.
func (d *fakeDriver) Text(_ context.Context, _ string) (string, error) {
	if d.textErr != nil {
		return "", d.textErr
	}
	if len(d.texts) == 0 {
		return "", nil
	}
	out := d.texts[0]
	if len(d.texts) > 1 {
		d.texts = d.texts[1:]
	}
	return out, nil
}

func (d *fakeDriver) Location(_ context.Context) (string, error) {
	return d.location, d.locationErr
}

func (d *fakeDriver) OuterHTML(_ context.Context) (string, error) {
	return d.html, nil
}

func (d *fakeDriver) EvaluateString(_ context.Context, _ string) (string, error) {
	return d.evalResult, d.evalErr
}

func (d *fakeDriver) typedValue(selector string) string {
	for _, k := range d.keys {
		if k.selector == selector {
			return k.value
		}
	}
	return ""
}

func (d *fakeDriver) typedValues(selector string) []string {
	values := []string{}
	for _, k := range d.keys {
		if k.selector == selector {
			values = append(values, k.value)
		}
	}
	return values
}
