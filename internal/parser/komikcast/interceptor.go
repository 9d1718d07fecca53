package komikcast

import "net/http"

// Intercept dresses API calls up as same-site XHRs from the reader and
// gives every other request a site Referer unless it already has one.
func (p *Parser) Intercept(req *http.Request) *http.Request {
	if req.URL != nil && p.apiHost != "" && req.URL.Hostname() == p.apiHost {
		out := req.Clone(req.Context())
		out.Header.Set("Referer", p.siteURL()+"/")
		out.Header.Set("Origin", p.siteURL())
		out.Header.Set("Accept", "application/json")
		out.Header.Set("Accept-Language", "en-US,en;q=0.9,id;q=0.8")
		return out
	}
	if len(req.Header.Values("Referer")) == 0 {
		out := req.Clone(req.Context())
		out.Header.Set("Referer", p.siteURL()+"/")
		return out
	}
	return req
}
