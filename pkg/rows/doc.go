// Package rows reads and writes row tables in the formats operators keep
// their payload lists in.
//
// The format is picked from the file extension:
//
//	.csv          Component,Weight,Arm columns (header names are case-insensitive)
//	.json         {"rows": [...]} or a bare array
//	.yaml, .yml   rows: [...] or a bare sequence
//	.toml         [[rows]] tables
//	.hjson        like JSON, comments and unquoted keys allowed
//
// A blank weight or arm is read as missing, never as zero; such rows are kept
// in the table but left out of the computation. Every decoded row is checked
// with [errors.ValidateRow] before it is returned.
//
// CSV export adds a Moment column, so a saved table doubles as the calculation
// sheet.
package rows
