package komikcast

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const testAPI = "https://be.komikcast.fit"

// fakeClient serves canned JSON keyed by URL; query strings are ignored
// when no exact match exists.
type fakeClient struct {
	bodies map[string]string
	errs   map[string]error
	calls  []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{bodies: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeClient) GetJSON(_ context.Context, url string, out any) error {
	f.calls = append(f.calls, url)
	key := url
	if _, ok := f.bodies[key]; !ok {
		if _, ok := f.errs[key]; !ok {
			key, _, _ = strings.Cut(url, "?")
		}
	}
	if err, ok := f.errs[key]; ok {
		return err
	}
	body, ok := f.bodies[key]
	if !ok {
		return fmt.Errorf("unexpected url %s", url)
	}
	return json.Unmarshal([]byte(body), out)
}

func newTestParser(client *fakeClient) *Parser {
	return New(client, Config{Domain: DefaultDomain, APIURL: testAPI})
}
