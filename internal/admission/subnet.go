package admission

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"

	apperrors "cafetab/internal/errors"
)

// SubnetGuard admits requests whose client IP lies within a configured
// private subnet. Used by deployments that gate on the café's own network
// instead of geofencing.
type SubnetGuard struct {
	network *net.IPNet
	logger  *zap.Logger
}

func NewSubnetGuard(cidr string, logger *zap.Logger) (*SubnetGuard, error) {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("parsing admission subnet %q: %w", cidr, err)
	}

	return &SubnetGuard{
		network: network,
		logger:  logger,
	}, nil
}

func (g *SubnetGuard) Admit(ctx context.Context, req Request) error {
	if req.Staff {
		return nil
	}

	ip := net.ParseIP(req.ClientIP)
	if ip == nil || !g.network.Contains(ip) {
		g.logger.Warn("order rejected outside subnet",
			zap.String("clientIp", req.ClientIP),
			zap.String("subnet", g.network.String()),
		)
		return apperrors.NewForbiddenError("network not authorized")
	}

	return nil
}
