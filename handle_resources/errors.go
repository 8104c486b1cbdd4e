package handle_resources

import (
	"context"
	"net"

	"github.com/KincaidYang/whoischain/server_lists"
	"github.com/KincaidYang/whoischain/utils"
	"github.com/KincaidYang/whoischain/whois_tools"
	"github.com/pkg/errors"
)

// errInvalidDomain is returned for input that is not a host name.
var errInvalidDomain = errors.New("invalid domain name")

// errNoCapacity is returned when a caller gives up waiting for a slot.
var errNoCapacity = errors.New("no resolution slot available")

// classifyError maps a resolution error to the response it is reported as.
func classifyError(err error) (utils.ErrorType, string) {
	var noRoot *server_lists.NoRootServerError
	var transportErr *whois_tools.TransportError
	var netErr net.Error

	switch {
	case errors.As(err, &noRoot):
		return utils.ErrorTypeNotFound, noRoot.Error()
	case errors.Is(err, errNoCapacity):
		return utils.ErrorTypeTooManyRequests, err.Error()
	case errors.Is(err, whois_tools.ErrEmptyDomain), errors.Is(err, errInvalidDomain):
		return utils.ErrorTypeBadRequest, err.Error()
	case errors.As(err, &transportErr):
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return utils.ErrorTypeGatewayTimeout, transportErr.Error()
		}
		return utils.ErrorTypeBadGateway, transportErr.Error()
	default:
		return utils.ErrorTypeInternalServer, err.Error()
	}
}
