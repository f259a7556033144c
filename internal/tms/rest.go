// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package tms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// RESTConfig holds the connection settings of the REST adapter.
type RESTConfig struct {
	URL         string
	Token       string
	CommunityID string
	ProjectID   string
	Timeout     time.Duration
}

// RESTClient is a Client talking to the TMS REST API.
type RESTClient struct {
	config RESTConfig
	http   *resty.Client
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient creates a RESTClient.
func NewRESTClient(config RESTConfig) *RESTClient {
	client := resty.New().
		SetTimeout(config.Timeout).
		SetHeader("Accept", "application/json")
	if config.Token != "" {
		client.SetAuthToken(config.Token)
	}

	return &RESTClient{
		config: config,
		http:   client,
	}
}

type documentRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	LocaleCode  string `json:"locale_code,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	CommunityID string `json:"community_id,omitempty"`
}

type documentResponse struct {
	ID string `json:"id"`
}

type targetRequest struct {
	LocaleCode string `json:"locale_code"`
}

type lockedResponse struct {
	NextDocumentID string `json:"next_document_id"`
}

func (c *RESTClient) buildURL(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, part := range parts {
		escaped = append(escaped, url.PathEscape(part))
	}
	return strings.TrimRight(c.config.URL, "/") + "/api/" + strings.Join(escaped, "/")
}

func (c *RESTClient) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// UploadDocument creates a new document and returns its id.
func (c *RESTClient) UploadDocument(ctx context.Context, title string, content []byte, sourceLocale string) (string, error) {
	var result documentResponse
	resp, err := c.request(ctx).
		SetBody(documentRequest{
			Title:       title,
			Content:     string(content),
			LocaleCode:  sourceLocale,
			ProjectID:   c.config.ProjectID,
			CommunityID: c.config.CommunityID,
		}).
		SetResult(&result).
		Post(c.buildURL("document"))
	err = checkResponse(resp, err, "upload document")
	if err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", errors.New("upload document: response carried no document id")
	}

	return result.ID, nil
}

// UpdateDocument uploads new content for a document. The TMS answers with
// the id of the new document version.
func (c *RESTClient) UpdateDocument(ctx context.Context, documentID, title string, content []byte) (string, error) {
	var result documentResponse
	resp, err := c.request(ctx).
		SetBody(documentRequest{Title: title, Content: string(content)}).
		SetResult(&result).
		Patch(c.buildURL("document", documentID))
	err = checkResponse(resp, err, "update document")
	if err != nil {
		return "", err
	}
	if result.ID == "" {
		return documentID, nil
	}

	return result.ID, nil
}

// GetDocumentStatus returns the import progress of a document.
func (c *RESTClient) GetDocumentStatus(ctx context.Context, documentID string) (*Progress, error) {
	var result Progress
	resp, err := c.request(ctx).
		SetResult(&result).
		Get(c.buildURL("document", documentID, "status"))
	err = checkResponse(resp, err, "get document status")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// AddTarget requests a translation of a document.
func (c *RESTClient) AddTarget(ctx context.Context, documentID, locale string) error {
	resp, err := c.request(ctx).
		SetBody(targetRequest{LocaleCode: locale}).
		Post(c.buildURL("document", documentID, "translation"))
	return checkResponse(resp, err, "add target")
}

// GetTargetStatus returns the progress of a translation.
func (c *RESTClient) GetTargetStatus(ctx context.Context, documentID, locale string) (*Progress, error) {
	var result Progress
	resp, err := c.request(ctx).
		SetResult(&result).
		Get(c.buildURL("document", documentID, "translation", locale, "status"))
	err = checkResponse(resp, err, "get target status")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DownloadTarget returns the translated content.
func (c *RESTClient) DownloadTarget(ctx context.Context, documentID, locale string) ([]byte, error) {
	resp, err := c.request(ctx).
		SetQueryParam("locale_code", locale).
		Get(c.buildURL("document", documentID, "content"))
	err = checkResponse(resp, err, "download target")
	if err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// CancelDocument cancels a document and all of its translations.
func (c *RESTClient) CancelDocument(ctx context.Context, documentID string) error {
	resp, err := c.request(ctx).
		Post(c.buildURL("document", documentID, "cancel"))
	return checkResponse(resp, err, "cancel document")
}

// CancelTarget cancels one translation.
func (c *RESTClient) CancelTarget(ctx context.Context, documentID, locale string) error {
	resp, err := c.request(ctx).
		Post(c.buildURL("document", documentID, "translation", locale, "cancel"))
	return checkResponse(resp, err, "cancel target")
}

// checkResponse turns transport errors and error statuses into errors
// that Classify understands.
func checkResponse(resp *resty.Response, err error, action string) error {
	if err != nil {
		return errors.Wrap(err, action)
	}
	if !resp.IsError() {
		return nil
	}

	switch resp.StatusCode() {
	case http.StatusPaymentRequired:
		return errors.Wrap(ErrPaymentRequired, action)
	case http.StatusGone:
		return errors.Wrap(ErrDocumentArchived, action)
	case http.StatusNotFound:
		return errors.Wrap(ErrDocumentNotFound, action)
	case http.StatusLocked:
		var locked lockedResponse
		_ = json.Unmarshal(resp.Body(), &locked)
		return errors.Wrap(&DocumentLockedError{NewDocumentID: locked.NextDocumentID}, action)
	}

	return errors.Errorf("%s: %s; body: %s", action, resp.Status(), abbreviate(resp.String(), 500))
}

// abbreviate shortens s to at most n bytes without splitting a rune.
func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
