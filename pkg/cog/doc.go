// Package cog computes the weighted center of gravity of a payload.
//
// # Overview
//
// A payload is described as a [RowSet]: an ordered list of components, each
// with an optional weight and an optional signed arm (distance from the datum).
// [Compute] reduces the complete rows into a [Result]:
//
//   - total weight: Σ weight
//   - total moment: Σ weight × arm
//   - center of gravity: total moment / total weight, or 0 when the total weight is 0
//   - signed offset and direction: how far, and which way, the camera has to move
//
// Rows missing either value are incomplete. They are skipped entirely and never
// treated as zero. Callers check [HasComplete] first, or use [Calculate], which
// returns an INCOMPLETE_INPUT error instead of a result when nothing can be
// computed.
//
// # Direction Convention
//
// A positive center of gravity maps to [Right] and a negative one to [Left]
// (exactly zero is [Neutral]). Right is the +x direction of the overlay, away
// from the datum. The convention is fixed for the whole module; every renderer
// and sink derives placement from [Result.Displacement] so that the label and
// the drawing cannot disagree.
//
// # Scale
//
// [WithScale] multiplies the center of gravity before it is displayed or used
// as an overlay offset, e.g. 1000 to turn meters into millimeters. The raw
// value stays available as [Result.RawCenterOfGravity].
//
// # Usage
//
//	rows := cog.RowSet{
//	    cog.NewRow("Drone", 26, 0.09),
//	    cog.NewRow("Camera", 5.0, 1.5),
//	}
//	res, err := cog.Calculate(rows, cog.WithScale(1000))
//	if err != nil {
//	    // INCOMPLETE_INPUT: ask the operator for more data
//	}
//	fmt.Printf("move camera %.2f to the %s\n", res.SignedOffset, res.Direction)
package cog
