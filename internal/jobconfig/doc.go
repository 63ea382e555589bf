// Package jobconfig decodes geoknn job files.
//
// A job file is HCL and may reference environment variables through the
// env object:
//
//	input   = "s3://freight/${env.RUN}/nodes.csv"
//	output  = "edges.csv.zst"
//	k       = 10
//	workers = 4
//	metric  = "haversine"
//
//	schema {
//	  id     = "FRANODEID"
//	  lon    = "x"
//	  lat    = "y"
//	  filter = "PASSNGR"
//	}
//
// Every attribute is optional; unset attributes are nil so callers can
// layer the job over defaults and under command-line flags.
package jobconfig
