package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/util"
)

var logger = logrus.WithField("component", "sii.api")

// Client cliente REST de bajo nivel contra los recursos del SII. El token de
// sesión viaja en el header Token cuando la operación lo requiere.
type Client interface {
	GetJson(ctx context.Context, endpoint, token string, result interface{}) error
	PostJson(ctx context.Context, endpoint, token string, body, result interface{}) error
	PostJsonNoAuth(ctx context.Context, endpoint string, body, result interface{}) error
}

type client struct {
	rest    *resty.Client
	baseURL string
}

// DefaultTimeout tope por llamada; el SII no documenta latencias aceptables.
const DefaultTimeout = 15 * time.Second

type Option func(*client)

func WithTimeout(d time.Duration) Option {
	return func(c *client) { c.rest.SetTimeout(d) }
}

// New crea un cliente para la URL base dada (normalmente Ambiente.BaseURL()).
func New(baseURL string, opts ...Option) Client {
	restyClient := resty.New().SetTimeout(DefaultTimeout)
	c := &client{rest: restyClient, baseURL: baseURL}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *client) GetJson(ctx context.Context, endpoint, token string, result interface{}) error {

	r := c.rest.R().SetContext(ctx)
	if util.HttpTraceEnabled() {
		r.EnableTrace()
	}
	if result != nil {
		r.SetResult(result)
	}

	resp, err := r.
		SetHeader("Token", token).
		Get(c.baseURL + endpoint)

	c.printTraceInfo(endpoint, err, resp)
	return checkError(resp, err)
}

func (c *client) PostJson(ctx context.Context, endpoint, token string, body, result interface{}) error {

	r := c.rest.R().SetContext(ctx)
	if util.HttpTraceEnabled() {
		r.EnableTrace()
	}
	if body != nil {
		r.SetBody(body)
	}
	if result != nil {
		r.SetResult(result)
	}

	resp, err := r.
		SetHeader("Token", token).
		Post(c.baseURL + endpoint)

	c.printTraceInfo(endpoint, err, resp)
	return checkError(resp, err)
}

func (c *client) PostJsonNoAuth(ctx context.Context, endpoint string, body, result interface{}) error {

	r := c.rest.R().SetContext(ctx)
	if util.HttpTraceEnabled() {
		r.EnableTrace()
	}
	if body != nil {
		r.SetBody(body)
	}
	if result != nil {
		r.SetResult(result)
	}

	resp, err := r.Post(c.baseURL + endpoint)

	c.printTraceInfo(endpoint, err, resp)
	return checkError(resp, err)
}

func checkError(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {

		body := resp.String()
		var errorMap map[string]any
		if body != "" {
			_ = json.Unmarshal([]byte(body), &errorMap)
		}

		return &RequestError{
			StatusCode:   resp.StatusCode(),
			Body:         body,
			ErrorDetails: errorMap,
		}
	}
	return nil
}

func (c *client) printTraceInfo(endpoint string, err error, resp *resty.Response) {

	if !util.DebugEnabled() || resp == nil {
		return
	}

	logger.WithFields(logrus.Fields{
		"url":    c.baseURL + endpoint,
		"status": resp.StatusCode(),
		"time":   resp.Time(),
		"error":  err,
	}).Debug("SII response")

	if util.HttpTraceEnabled() {
		ti := resp.Request.TraceInfo()
		logger.WithFields(logrus.Fields{
			"dns":      ti.DNSLookup,
			"conn":     ti.ConnTime,
			"tls":      ti.TLSHandshake,
			"server":   ti.ServerTime,
			"total":    ti.TotalTime,
			"reused":   ti.IsConnReused,
			"attempts": ti.RequestAttempt,
		}).Debug("SII request trace")
	}
}
