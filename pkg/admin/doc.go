// Package admin submits column family modifications to the Cloud Bigtable
// table administration API.
//
// TableAdministrationClient is the seam between gcpolicy and the admin
// service. GRPCClient implements it over the generated adminpb stub,
// InstrumentedClient decorates any implementation with metrics, tracing
// and logging, and FakeClient keeps tables in memory for tests.
//
// Errors returned by the service are passed back to the caller unchanged:
//
//	err := admin.ApplyModifications(ctx, client, table, mods)
//	if status.Code(err) == codes.AlreadyExists {
//		...
//	}
//
// Malformed input is rejected before any call with an InvalidArgument
// error from package errors.
package admin
