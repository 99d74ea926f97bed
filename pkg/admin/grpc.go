package admin

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigtable/admin/apiv2/adminpb"
	"google.golang.org/api/option"
	gtransport "google.golang.org/api/transport/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"mercator-hq/gcpolicy/pkg/config"
	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
)

// AdminScope is the OAuth scope required for schema changes.
const AdminScope = "https://www.googleapis.com/auth/bigtable.admin"

const userAgent = "gcpolicy"

// GRPCClient talks to the admin service over a gRPC connection.
type GRPCClient struct {
	client  adminpb.BigtableTableAdminClient
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewGRPCClient wraps an existing connection. The caller keeps ownership of
// conn. A positive timeout bounds every call.
func NewGRPCClient(conn grpc.ClientConnInterface, timeout time.Duration) *GRPCClient {
	return &GRPCClient{
		client:  adminpb.NewBigtableTableAdminClient(conn),
		timeout: timeout,
	}
}

// Dial connects to the emulator named by cfg.EmulatorHost, or to the
// production endpoint with application default credentials (or
// cfg.CredentialsFile). The returned client owns the connection.
func Dial(ctx context.Context, cfg *config.BigtableConfig) (*GRPCClient, error) {
	var (
		conn *grpc.ClientConn
		err  error
	)

	if cfg.EmulatorHost != "" {
		conn, err = grpc.NewClient(cfg.EmulatorHost,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithUserAgent(userAgent),
		)
	} else {
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = config.DefaultBigtableEndpoint
		}
		opts := []option.ClientOption{
			option.WithEndpoint(endpoint),
			option.WithScopes(AdminScope),
			option.WithUserAgent(userAgent),
		}
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		conn, err = gtransport.Dial(ctx, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to table admin API: %w", err)
	}

	c := NewGRPCClient(conn, cfg.Timeout)
	c.conn = conn
	return c, nil
}

// ModifyColumnFamilies sends one ModifyColumnFamilies request.
func (c *GRPCClient) ModifyColumnFamilies(ctx context.Context, table TableRef, mods []family.Modification) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.client.ModifyColumnFamilies(ctx, &adminpb.ModifyColumnFamiliesRequest{
		Name:          table.Name(),
		Modifications: family.ToProtoList(mods),
	})
	return err
}

// ColumnFamilies reads the table schema and decodes each family's GC rule.
func (c *GRPCClient) ColumnFamilies(ctx context.Context, table TableRef) (map[string]gcrule.Rule, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	tbl, err := c.client.GetTable(ctx, &adminpb.GetTableRequest{
		Name: table.Name(),
		View: adminpb.Table_SCHEMA_VIEW,
	})
	if err != nil {
		return nil, err
	}

	families := make(map[string]gcrule.Rule, len(tbl.GetColumnFamilies()))
	for id, cf := range tbl.GetColumnFamilies() {
		rule, err := gcrule.FromProto(cf.GetGcRule())
		if err != nil {
			return nil, fmt.Errorf("column family %s: %w", id, err)
		}
		families[id] = rule
	}
	return families, nil
}

// CreateTable creates an empty table.
func (c *GRPCClient) CreateTable(ctx context.Context, table TableRef) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.client.CreateTable(ctx, &adminpb.CreateTableRequest{
		Parent:  table.InstanceName(),
		TableId: table.Table,
		Table:   &adminpb.Table{},
	})
	return err
}

// Close closes the connection if the client owns it.
func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

var (
	_ TableAdministrationClient = (*GRPCClient)(nil)
	_ FamilyLister              = (*GRPCClient)(nil)
	_ TableCreator              = (*GRPCClient)(nil)
)
