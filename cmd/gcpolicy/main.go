// Gcpolicy manages garbage collection policies of Cloud Bigtable column
// families.
//
// Usage:
//
//	# Create column family cf5 with the nested sample rule
//	gcpolicy create-family --project my-project --instance my-instance --table my-table
//
//	# Show what applying a schema file would change
//	gcpolicy plan --file families.yaml
//
//	# Apply a schema file
//	gcpolicy apply --file families.yaml
//
//	# Keep a table reconciled on a schedule and on file changes
//	gcpolicy reconcile --config gcpolicy.yaml
//
//	# Check whether a cell version would be collected
//	gcpolicy eval --file families.yaml --family cf5 --age 40d --newer-versions 1
//
//	# Show the wire form of every rule
//	gcpolicy render --file families.yaml --output json
//
//	# Write the live families of a table as a schema file
//	gcpolicy export --table my-table > families.yaml
//
//	# Query the modification history
//	gcpolicy history list --family cf5
package main

import "os"

func main() {
	os.Exit(Execute())
}
