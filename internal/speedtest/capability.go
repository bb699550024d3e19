package speedtest

import (
	"context"
	"errors"
	"time"

	stlib "github.com/showwin/speedtest-go/speedtest"
)

// NetCapability implements Capability over the speedtest.net protocol.
type NetCapability struct {
	client  *stlib.Speedtest
	servers stlib.Servers
}

func NewNetCapability() *NetCapability {
	return &NetCapability{client: stlib.New()}
}

func (n *NetCapability) Init(ctx context.Context) error {
	_, err := n.client.FetchUserInfoContext(ctx)
	return err
}

func (n *NetCapability) RefreshServers(ctx context.Context) error {
	servers, err := n.client.FetchServerListContext(ctx)
	if err != nil {
		return err
	}
	n.servers = servers
	return nil
}

func (n *NetCapability) BestServer(ctx context.Context) (Target, error) {
	servers := n.servers
	if len(servers) == 0 {
		// Refresh failed or was skipped; fall back to fetching the
		// capability's default list now.
		var err error
		servers, err = n.client.FetchServerListContext(ctx)
		if err != nil {
			return nil, err
		}
	}

	candidates, err := servers.FindServer(nil)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.New("no test server available")
	}

	return &netTarget{server: candidates[0]}, nil
}

type netTarget struct {
	server *stlib.Server
}

func (t *netTarget) Download(ctx context.Context) (float64, error) {
	if err := t.server.DownloadTestContext(ctx); err != nil {
		return 0, err
	}
	// DLSpeed is bytes per second.
	return float64(t.server.DLSpeed) * 8, nil
}

func (t *netTarget) Upload(ctx context.Context) (float64, error) {
	if err := t.server.UploadTestContext(ctx); err != nil {
		return 0, err
	}
	return float64(t.server.ULSpeed) * 8, nil
}

func (t *netTarget) Ping(ctx context.Context) (float64, error) {
	if err := t.server.PingTestContext(ctx, nil); err != nil {
		return 0, err
	}
	return float64(t.server.Latency) / float64(time.Millisecond), nil
}

func (t *netTarget) Info() ServerInfo {
	return ServerInfo{
		Name:    t.server.Name,
		Country: t.server.Country,
		Sponsor: t.server.Sponsor,
	}
}

var _ Capability = (*NetCapability)(nil)
