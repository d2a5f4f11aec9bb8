// Package rest implements the adt.Client interface over the ADT REST
// protocol: stateful create and lock/put/unlock editing of development
// objects, plus mass activation.
package rest

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/abapops/adtsync/pkg/adt"
	"github.com/abapops/adtsync/pkg/errors"
	"github.com/abapops/adtsync/pkg/logging"
)

const (
	adtCoreNamespace = "http://www.sap.com/adt/core"

	discoveryPath  = "/sap/bc/adt/discovery"
	activationPath = "/sap/bc/adt/activation"
)

// Client talks to one ADT endpoint with basic authentication and a
// stateful session.
type Client struct {
	baseURL  string
	username string
	password string

	http      *http.Client
	csrfToken string
	logger    zerolog.Logger
}

// NewClient returns a Client for the system at baseURL. With insecure set,
// the server certificate is not verified.
func NewClient(baseURL, username, password string, insecure bool) *Client {
	jar, _ := cookiejar.New(nil)

	transport := &http.Transport{}
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		http: &http.Client{
			Jar:       jar,
			Transport: transport,
		},
		logger: logging.GetLogger("adt.rest"),
	}
}

// User returns the authenticated user name.
func (c *Client) User() string {
	return c.username
}

// Activate runs mass activation for the reference set and returns the
// diagnostics the server reported.
func (c *Client) Activate(refs *adt.References) ([]adt.ActivationMessage, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("adtcore:objectReferences")
	root.CreateAttr("xmlns:adtcore", adtCoreNamespace)

	for _, ref := range refs.List() {
		elem := root.CreateElement("adtcore:objectReference")
		elem.CreateAttr("adtcore:uri", ref.URI)
		elem.CreateAttr("adtcore:name", ref.Name)
	}

	body, err := doc.WriteToString()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot serialize activation request")
	}

	resp, err := c.request(http.MethodPost,
		activationPath+"?method=activate&preauditRequested=true",
		"application/xml", body)
	if err != nil {
		return nil, err
	}

	if resp.status < 200 || resp.status > 299 {
		return nil, errors.Newf(errors.ErrActivation, "activation request failed: %s", resp.message())
	}

	return parseActivationMessages(resp.body)
}

func parseActivationMessages(body []byte) ([]adt.ActivationMessage, error) {
	if len(body) == 0 {
		return nil, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, errors.Wrap(err, errors.ErrActivation, "invalid activation response")
	}

	var messages []adt.ActivationMessage
	for _, msg := range doc.FindElements("//msg") {
		typ := msg.SelectAttrValue("type", "")

		text := ""
		if shortText := msg.FindElement("shortText/txt"); shortText != nil {
			text = strings.TrimSpace(shortText.Text())
		}

		messages = append(messages, adt.ActivationMessage{
			IsError:   typ == "E" || typ == "A",
			ObjDescr:  msg.SelectAttrValue("objDescr", ""),
			Type:      typ,
			ShortText: text,
		})
	}

	return messages, nil
}

type response struct {
	status int
	body   []byte
}

// message extracts the human readable diagnostic of an ADT error body, or
// falls back to the raw text.
func (r *response) message() string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(r.body); err == nil {
		if msg := doc.FindElement("//message"); msg != nil {
			return strings.TrimSpace(msg.Text())
		}
	}
	return strings.TrimSpace(string(r.body))
}

// exceptionType returns the ADT exception type id of an error body, e.g.
// ExceptionResourceAlreadyExists.
func (r *response) exceptionType() string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(r.body); err != nil {
		return ""
	}

	if typ := doc.FindElement("//type"); typ != nil {
		return typ.SelectAttrValue("id", "")
	}
	return ""
}

// request performs one round trip, fetching a CSRF token first when none
// is held yet.
func (c *Client) request(method, path, contentType, body string) (*response, error) {
	if c.csrfToken == "" && method != http.MethodGet {
		if err := c.fetchCSRFToken(); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConnection, "cannot build request")
	}

	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("X-sap-adt-sessiontype", "stateful")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.csrfToken != "" {
		req.Header.Set("x-csrf-token", c.csrfToken)
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("ADT request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConnection, "%s %s failed", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConnection, "cannot read response of %s %s", method, path)
	}

	c.logger.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("ADT response")

	return &response{status: resp.StatusCode, body: data}, nil
}

func (c *Client) fetchCSRFToken() error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+discoveryPath, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrConnection, "cannot build discovery request")
	}

	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("x-csrf-token", "fetch")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrConnection, "discovery request failed")
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return errors.Newf(errors.ErrConnection, "authentication failed for user %s", c.username)
	}

	c.csrfToken = resp.Header.Get("x-csrf-token")
	if c.csrfToken == "" {
		return errors.New(errors.ErrConnection, "server did not return a CSRF token")
	}

	return nil
}

func transportQuery(transport string) string {
	if transport == "" {
		return ""
	}
	return fmt.Sprintf("corrNr=%s", transport)
}
