/*
Package notifier delivers announcement messages through the Free Mobile SMS gateway.
*/
package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const DefaultGatewayUrl = "https://smsapi.free-mobile.fr/sendmsg"

var ErrNoCredentials = errors.New("sms credentials are not set")

type Credentials struct {
	User     string
	Password string
}

func (credentials Credentials) Complete() bool {
	return credentials.User != "" && credentials.Password != ""
}

type Sms struct {
	gatewayUrl  string
	credentials Credentials
	client      *http.Client
	logger      *zap.Logger
}

func NewSms(gatewayUrl string, credentials Credentials, timeout time.Duration, logger *zap.Logger) *Sms {
	if !credentials.Complete() {
		logger.Warn("[notifier] -> SMS credentials are not set, messages will be dropped. Check SMS_USER and SMS_PASSWORD.")
	}

	return &Sms{
		gatewayUrl:  gatewayUrl,
		credentials: credentials,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// Notify sends message once. Failures are logged and reported in the Result, never retried.
func (sms *Sms) Notify(ctx context.Context, message string) Result {
	if !sms.credentials.Complete() {
		sms.logger.Error("[notifier] -> SMS credentials are not set, message dropped.")
		return Result{Status: SkippedNoCredentials, Err: ErrNoCredentials}
	}

	requestUrl, err := url.Parse(sms.gatewayUrl)
	if err != nil {
		return sms.failed(0, fmt.Errorf("[notifier] gateway url: %w", err))
	}
	query := requestUrl.Query()
	query.Set("user", sms.credentials.User)
	query.Set("pass", sms.credentials.Password)
	query.Set("msg", message)
	requestUrl.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl.String(), nil)
	if err != nil {
		return sms.failed(0, fmt.Errorf("[notifier] build request: %w", err))
	}

	response, err := sms.client.Do(request)
	if err != nil {
		return sms.failed(0, fmt.Errorf("[notifier] send: %w", redact(err)))
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	if response.StatusCode != http.StatusOK {
		return sms.failed(response.StatusCode, fmt.Errorf("[notifier] gateway answered %s", response.Status))
	}

	sms.logger.Info("[notifier] -> SMS sent.", zap.String("message", message))
	return Result{Status: Sent, StatusCode: response.StatusCode}
}

func (sms *Sms) failed(statusCode int, err error) Result {
	sms.logger.Error("[notifier] -> SMS sending failed.", zap.Int("status_code", statusCode), zap.Error(err))
	return Result{Status: FailedTransport, StatusCode: statusCode, Err: err}
}

// redact drops the request url, which carries the credentials, from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
