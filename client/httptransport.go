package client

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/foomo/checkpointstore/pkg/handler"
	"github.com/foomo/checkpointstore/responses"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	httpTransport struct {
		client   *http.Client
		endpoint string
	}
	envelope struct {
		Reply jsoniter.RawMessage `json:"reply"`
	}
)

// NewHTTPTransport will create a new http transport for the given server and client.
// Caution: the provided server url is not validated!
func NewHTTPTransport(server string, client *http.Client) transport {
	return &httpTransport{
		endpoint: server,
		client:   client,
	}
}

func (ht *httpTransport) shutdown() {
	ht.client.CloseIdleConnections()
}

func (ht *httpTransport) call(ctx context.Context, route handler.Route, request any, response any) error {
	requestBytes, err := json.Marshal(request)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}
	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		ht.endpoint+"/"+string(route),
		bytes.NewBuffer(requestBytes),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	httpResponse, err := ht.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer httpResponse.Body.Close()

	responseBytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	var reply envelope
	if err := json.Unmarshal(responseBytes, &reply); err != nil {
		if httpResponse.StatusCode != http.StatusOK {
			return errors.Errorf("non 200 reply: %d", httpResponse.StatusCode)
		}
		return errors.Wrap(err, "failed to unmarshal response")
	}

	if httpResponse.StatusCode != http.StatusOK {
		replyErr := &responses.Error{}
		if err := json.Unmarshal(reply.Reply, replyErr); err != nil || replyErr.Code == 0 {
			return errors.Errorf("non 200 reply: %d", httpResponse.StatusCode)
		}
		return replyErr
	}
	if response == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(reply.Reply, response), "failed to unmarshal reply")
}
