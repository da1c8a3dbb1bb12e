package analyst

import (
	"net/url"

	"github.com/kiltia/analyst/config"
)

// CredentialParam is the query parameter the API key travels in.
const CredentialParam = "key"

type Request struct {
	RequestURL url.URL
	Method     config.HTTPMethod
	Headers    map[string]string
	Body       []byte

	cachedRequestLink string
}

// GetRequestLink returns the request URL with the credential appended as a
// query parameter, unless the URL already carries one.
func (req *Request) GetRequestLink(apiKey string) string {
	if req.cachedRequestLink != "" {
		return req.cachedRequestLink
	}

	baseURL := req.RequestURL

	query := baseURL.Query()
	if apiKey != "" && !query.Has(CredentialParam) {
		query.Set(CredentialParam, apiKey)
	}

	baseURL.RawQuery = query.Encode()
	urlString := baseURL.String()

	req.cachedRequestLink = urlString
	return urlString
}
