// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Entity actions accepted by POST /entity/{key}/{action}.
const (
	ActionUpload          = "upload"
	ActionCheck           = "check"
	ActionRequest         = "request"
	ActionCheckTargets    = "check-targets"
	ActionDownload        = "download"
	ActionDownloadInterim = "download-interim"
	ActionCancel          = "cancel"
)

// Actions lists every entity action.
var Actions = []string{
	ActionUpload,
	ActionCheck,
	ActionRequest,
	ActionCheckTargets,
	ActionDownload,
	ActionDownloadInterim,
	ActionCancel,
}

// Client is the programmatic interface to the tmsync API.
type Client struct {
	address    string
	headers    map[string]string
	httpClient *http.Client
}

// NewClient creates a new instance of Client.
func NewClient(address string) *Client {
	return &Client{
		address:    address,
		headers:    make(map[string]string),
		httpClient: &http.Client{},
	}
}

// GetDocuments returns the status of every tracked document.
func (c *Client) GetDocuments() ([]*DocumentStatus, error) {
	resp, err := c.doGet(c.buildURL("/documents"))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return NewDocumentStatusListFromReader(resp.Body)
	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// GetDocument returns the status of the document of an entity, or nil if
// the entity is unknown.
func (c *Client) GetDocument(entityKey string) (*DocumentStatus, error) {
	resp, err := c.doGet(c.buildURL("/document/%s", url.PathEscape(entityKey)))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, nil
	case http.StatusOK:
		return NewDocumentStatusFromReader(resp.Body)
	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// GetEntities returns every registered entity.
func (c *Client) GetEntities() ([]*Entity, error) {
	resp, err := c.doGet(c.buildURL("/entities"))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return NewEntityListFromReader(resp.Body)
	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// GetEntity returns an entity, or nil if it is unknown.
func (c *Client) GetEntity(entityKey string) (*Entity, error) {
	resp, err := c.doGet(c.buildURL("/entity/%s", url.PathEscape(entityKey)))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, nil
	case http.StatusOK:
		return NewEntityFromReader(resp.Body)
	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// PutEntity registers or updates an entity.
func (c *Client) PutEntity(entityKey string, request *EntityRequest) (*OperationResult, error) {
	resp, err := c.doPut(c.buildURL("/entity/%s", url.PathEscape(entityKey)), request)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	return operationResultFromResponse(resp)
}

// RunAction runs an entity action. A non-empty langcode narrows the action
// to one target language.
func (c *Client) RunAction(entityKey, action, langcode string) (*OperationResult, error) {
	u := c.buildURL("/entity/%s/%s", url.PathEscape(entityKey), action)
	if langcode != "" {
		u += "?locale=" + url.QueryEscape(langcode)
	}

	resp, err := c.doPost(u, nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	return operationResultFromResponse(resp)
}

// GetTranslation fetches the translation of an entity. An empty revision
// selects the local translation. It returns nil when the translation is
// unknown.
func (c *Client) GetTranslation(entityKey, langcode, revision string) (*LocalTranslation, error) {
	u := c.buildURL("/entity/%s/translation/%s", url.PathEscape(entityKey), url.PathEscape(langcode))
	if revision != "" {
		u += "?" + url.Values{"revision": {revision}}.Encode()
	}
	resp, err := c.doGet(u)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, nil
	case http.StatusOK:
		return NewLocalTranslationFromReader(resp.Body)
	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// UpdateTranslation reports a local edit of a translation.
func (c *Client) UpdateTranslation(entityKey, langcode string, content []byte) (*OperationResult, error) {
	req, err := http.NewRequest(http.MethodPut, c.buildURL("/entity/%s/translation/%s", url.PathEscape(entityKey), url.PathEscape(langcode)), bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create http request")
	}
	for k, v := range c.headers {
		req.Header.Add(k, v)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	return operationResultFromResponse(resp)
}

// DeleteTranslation reports the deletion of a local translation.
func (c *Client) DeleteTranslation(entityKey, langcode string) (*OperationResult, error) {
	resp, err := c.doDelete(c.buildURL("/entity/%s/translation/%s", url.PathEscape(entityKey), url.PathEscape(langcode)))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	return operationResultFromResponse(resp)
}

// Notify sends a webhook notification. It returns a nil response when the
// notification was ignored.
func (c *Client) Notify(notification *Notification) (*NotificationResponse, error) {
	resp, err := c.doGet(c.buildURL("/notify?%s", notification.Values().Encode()))
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return NewNotificationResponseFromReader(resp.Body)
	case http.StatusAccepted, http.StatusNoContent:
		return nil, nil
	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

func operationResultFromResponse(resp *http.Response) (*OperationResult, error) {
	switch resp.StatusCode {
	case http.StatusOK:
		return NewOperationResultFromReader(resp.Body)
	case http.StatusConflict:
		result, err := NewOperationResultFromReader(resp.Body)
		if err != nil {
			return nil, err
		}
		return nil, errors.Errorf("operation not allowed: %s", strings.Join(result.Messages, " "))
	case http.StatusNotFound:
		return nil, errors.New("entity not found")
	default:
		return nil, errors.Errorf("failed with status code %d", resp.StatusCode)
	}
}

// closeBody ensures the Body of an http.Response is properly closed.
func closeBody(r *http.Response) {
	if r.Body != nil {
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}
}

// buildURL builds a complete URL from a path and arguments.
func (c *Client) buildURL(urlPath string, args ...interface{}) string {
	return fmt.Sprintf("%s%s", c.address, fmt.Sprintf(urlPath, args...))
}

func (c *Client) doGet(u string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create http request")
	}
	for k, v := range c.headers {
		req.Header.Add(k, v)
	}

	return c.httpClient.Do(req)
}

func (c *Client) doPost(u string, request interface{}) (*http.Response, error) {
	requestBytes, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequest(http.MethodPost, u, bytes.NewReader(requestBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create http request")
	}
	for k, v := range c.headers {
		req.Header.Add(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) doPut(u string, request interface{}) (*http.Response, error) {
	requestBytes, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequest(http.MethodPut, u, bytes.NewReader(requestBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create http request")
	}
	for k, v := range c.headers {
		req.Header.Add(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) doDelete(u string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create http request")
	}
	for k, v := range c.headers {
		req.Header.Add(k, v)
	}

	return c.httpClient.Do(req)
}
