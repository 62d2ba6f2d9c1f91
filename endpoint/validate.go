package endpoint

import (
	"fmt"
	"net/url"

	validator "gopkg.in/go-playground/validator.v9"
)

var validate = validator.New()

// Validate checks the descriptor fields and the schemes of its RPC URLs.
// Returned errors wrap ErrInvalidEndpoint.
func (e Endpoint) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEndpoint, err.Error())
	}

	if err := checkScheme(e.RPCHTTP, "http", "https"); err != nil {
		return fmt.Errorf("%w: rpc_http %s", ErrInvalidEndpoint, err.Error())
	}

	if e.SupportsWS() {
		if err := checkScheme(e.RPCWS, "ws", "wss"); err != nil {
			return fmt.Errorf("%w: rpc_ws %s", ErrInvalidEndpoint, err.Error())
		}
	}

	return nil
}

func checkScheme(rawURL string, schemes ...string) error {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("'%s' is invalid: %v", rawURL, err)
	}
	for _, scheme := range schemes {
		if u.Scheme == scheme {
			return nil
		}
	}
	return fmt.Errorf("'%s' must use one of the schemes %v", rawURL, schemes)
}
